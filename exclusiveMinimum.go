package jsonschema

import "fmt"

// compileExclusiveMinimum builds the numeric exclusiveMinimum validator of
// drafts 6 and later. The draft-4 boolean form is handled by minimum.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-exclusiveminimum
func compileExclusiveMinimum(cc *compileContext, value any) (keywordValidator, error) {
	if cc.draft == Draft4 {
		if _, ok := value.(bool); ok {
			return nil, nil
		}
	}
	limit, err := schemaRat(cc, "exclusiveMinimum", value)
	if err != nil {
		return nil, err
	}
	return &exclusiveMinimumValidator{
		keywordBase: newKeywordBase(cc, "exclusiveMinimum"),
		limit:       newNumericLimit(limit),
	}, nil
}

type exclusiveMinimumValidator struct {
	keywordBase
	limit numericLimit
}

func (k *exclusiveMinimumValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	cmp, numeric := k.limit.compare(v)
	return !numeric || cmp > 0
}

func (k *exclusiveMinimumValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	cmp, numeric := k.limit.compare(v)
	if !numeric || cmp > 0 {
		return true
	}
	return yield(k.newError(st, KindExclusiveMinimum, "exclusive_minimum_mismatch", "{value} should be greater than {minimum}", v, loc, map[string]any{
		"value":   fmt.Sprint(v),
		"minimum": formatRat(k.limit.rat),
	}))
}
