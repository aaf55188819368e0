package jsonschema

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/goccy/go-json"
)

// numberRat converts a numeric instance or schema value to an exact rational.
// Returns nil when the value is not numeric. All numeric keyword comparisons
// (multipleOf, the four bounds, const, enum, uniqueItems) run over rationals
// so that decimal schemas like 0.1 behave mathematically rather than in IEEE
// float arithmetic.
func numberRat(v any) *big.Rat {
	var str string
	switch t := v.(type) {
	case json.Number:
		str = t.String()
	case float64, float32, int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		str = fmt.Sprint(t)
	default:
		return nil
	}

	r := new(big.Rat)
	if _, ok := r.SetString(str); !ok {
		return nil
	}
	return r
}

// formatRat formats a rational for error messages: integers as plain digits,
// decimals with trailing zeros trimmed.
func formatRat(r *big.Rat) string {
	if r == nil {
		return "null"
	}
	if r.IsInt() {
		return r.Num().String()
	}

	dec := r.FloatString(10)
	dec = strings.TrimRight(dec, "0")
	dec = strings.TrimRight(dec, ".")
	if dec == "" {
		return "0"
	}
	return dec
}

// isMultipleOf reports whether value divided by divisor is integral. The
// int64/int64 case is fast-pathed; everything else divides rationals.
func isMultipleOf(value, divisor *big.Rat) bool {
	if value.IsInt() && divisor.IsInt() {
		if value.Num().IsInt64() && divisor.Num().IsInt64() {
			d := divisor.Num().Int64()
			if d != 0 {
				return value.Num().Int64()%d == 0
			}
		}
	}
	q := new(big.Rat).Quo(value, divisor)
	return q.IsInt()
}
