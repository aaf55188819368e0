package jsonschema

import (
	"math/big"
	"strconv"

	"github.com/goccy/go-json"
)

// numericLimit is a compiled numeric keyword argument. Alongside the exact
// rational it keeps an int64 image when one exists, so instances decoded as
// integers compare without touching big math.
type numericLimit struct {
	rat    *big.Rat
	i64    int64
	isI64  bool
}

func newNumericLimit(r *big.Rat) numericLimit {
	l := numericLimit{rat: r}
	if r.IsInt() && r.Num().IsInt64() {
		l.i64 = r.Num().Int64()
		l.isI64 = true
	}
	return l
}

// compare returns the sign of instance minus limit and whether the instance
// was numeric at all. Integer instances against integer limits stay on the
// int64 fast path.
func (l *numericLimit) compare(v any) (int, bool) {
	if l.isI64 {
		switch t := v.(type) {
		case int:
			return compareInt64(int64(t), l.i64), true
		case int64:
			return compareInt64(t, l.i64), true
		case json.Number:
			if n, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
				return compareInt64(n, l.i64), true
			}
		case float64:
			f := float64(l.i64)
			switch {
			case t < f:
				return -1, true
			case t > f:
				return 1, true
			}
			return 0, true
		}
	}
	r := numberRat(v)
	if r == nil {
		return 0, false
	}
	return r.Cmp(l.rat), true
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
