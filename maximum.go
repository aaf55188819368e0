package jsonschema

import "fmt"

// compileMaximum builds the maximum validator. Draft 4 expressed exclusive
// bounds as a boolean sibling, so the compile consults the containing object
// and emits the exclusive variant when "exclusiveMaximum": true is present.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-maximum
func compileMaximum(cc *compileContext, value any, obj map[string]any) (keywordValidator, error) {
	limit, err := schemaRat(cc, "maximum", value)
	if err != nil {
		return nil, err
	}
	exclusive := false
	if cc.draft == Draft4 {
		if b, ok := obj["exclusiveMaximum"].(bool); ok {
			exclusive = b
		}
	}
	if exclusive {
		return &exclusiveMaximumValidator{
			keywordBase: newKeywordBase(cc, "exclusiveMaximum", "maximum"),
			limit:       newNumericLimit(limit),
		}, nil
	}
	return &maximumValidator{
		keywordBase: newKeywordBase(cc, "maximum"),
		limit:       newNumericLimit(limit),
	}, nil
}

type maximumValidator struct {
	keywordBase
	limit numericLimit
}

func (k *maximumValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	cmp, numeric := k.limit.compare(v)
	return !numeric || cmp <= 0
}

func (k *maximumValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	cmp, numeric := k.limit.compare(v)
	if !numeric || cmp <= 0 {
		return true
	}
	return yield(k.newError(st, KindMaximum, "maximum_mismatch", "{value} should be at most {maximum}", v, loc, map[string]any{
		"value":   fmt.Sprint(v),
		"maximum": formatRat(k.limit.rat),
	}))
}
