package jsonschema

import (
	"bytes"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// UnmarshalInstance decodes a JSON instance document for validation. Numbers
// are kept as json.Number so that the integer/decimal distinction of the
// original literal survives into draft-4 type checks and exact numeric
// comparisons.
func UnmarshalInstance(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// UnmarshalYAMLInstance decodes a YAML instance document for validation.
// Only instances may be YAML; schema documents are always JSON.
func UnmarshalYAMLInstance(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// getDataType determines the JSON Schema type name of an instance value.
// Numbers are draft sensitive: draft 4 only treats values whose literal form
// has no fraction or exponent as integers, while later drafts accept any
// number with a zero fractional part.
func getDataType(v any, draft Draft) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			return "integer"
		}
		if draft >= Draft6 {
			if r := numberRat(t); r != nil && r.IsInt() {
				return "integer"
			}
		}
		return "number"
	case float64:
		if draft >= Draft6 && t == float64(int64(t)) {
			return "integer"
		}
		return "number"
	case float32:
		return getDataType(float64(t), draft)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	}
	return ""
}

// typeMatches reports whether an instance of instanceType satisfies the
// schema type schemaType. Integers are numbers, never the reverse.
func typeMatches(instanceType, schemaType string) bool {
	if instanceType == schemaType {
		return true
	}
	return schemaType == "number" && instanceType == "integer"
}

// deepEqual implements JSON value equality as required by const, enum and
// uniqueItems: numeric values compare mathematically, so 1 equals 1.0.
func deepEqual(a, b any) bool {
	ra, rb := numberRat(a), numberRat(b)
	if ra != nil || rb != nil {
		return ra != nil && rb != nil && ra.Cmp(rb) == 0
	}

	switch va := a.(type) {
	case nil:
		return b == nil
	case bool:
		vb, ok := b.(bool)
		return ok && va == vb
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !deepEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, v := range va {
			w, present := vb[k]
			if !present || !deepEqual(v, w) {
				return false
			}
		}
		return true
	}
	return false
}

// canonicalKey renders a value into a string that is identical exactly for
// deepEqual values. Used to back the hashed variants of enum and uniqueItems.
func canonicalKey(v any) string {
	var sb strings.Builder
	writeCanonical(&sb, v)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, v any) {
	if r := numberRat(v); r != nil {
		sb.WriteByte('n')
		sb.WriteString(r.RatString())
		return
	}
	switch t := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		if t {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case string:
		sb.WriteByte('s')
		sb.WriteString(t)
	case []any:
		sb.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, e)
		}
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(k)
			sb.WriteByte(':')
			writeCanonical(sb, t[k])
		}
		sb.WriteByte('}')
	}
}

// renderInstance serializes an instance sub-value for verbose error text.
// When masked, the rendering is replaced wholesale so that sensitive values
// never reach error messages or logs.
func renderInstance(v any, masked bool) string {
	if masked {
		return maskedValue
	}
	data, err := json.Marshal(v)
	if err != nil {
		return maskedValue
	}
	return string(data)
}

// maskedValue replaces rendered instance data in verbose messages when error
// masking is enabled.
const maskedValue = "[Masked]"

// sortedKeys returns the keys of an object instance in lexical order, which
// is the iteration order every error-reporting path uses.
func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
