package jsonschema

import "fmt"

// compileMinimum builds the minimum validator, with the same draft-4
// boolean-sibling handling as maximum.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-minimum
func compileMinimum(cc *compileContext, value any, obj map[string]any) (keywordValidator, error) {
	limit, err := schemaRat(cc, "minimum", value)
	if err != nil {
		return nil, err
	}
	exclusive := false
	if cc.draft == Draft4 {
		if b, ok := obj["exclusiveMinimum"].(bool); ok {
			exclusive = b
		}
	}
	if exclusive {
		return &exclusiveMinimumValidator{
			keywordBase: newKeywordBase(cc, "exclusiveMinimum", "minimum"),
			limit:       newNumericLimit(limit),
		}, nil
	}
	return &minimumValidator{
		keywordBase: newKeywordBase(cc, "minimum"),
		limit:       newNumericLimit(limit),
	}, nil
}

type minimumValidator struct {
	keywordBase
	limit numericLimit
}

func (k *minimumValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	cmp, numeric := k.limit.compare(v)
	return !numeric || cmp >= 0
}

func (k *minimumValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	cmp, numeric := k.limit.compare(v)
	if !numeric || cmp >= 0 {
		return true
	}
	return yield(k.newError(st, KindMinimum, "minimum_mismatch", "{value} should be at least {minimum}", v, loc, map[string]any{
		"value":   fmt.Sprint(v),
		"minimum": formatRat(k.limit.rat),
	}))
}
