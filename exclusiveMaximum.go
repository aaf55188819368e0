package jsonschema

import "fmt"

// compileExclusiveMaximum builds the numeric exclusiveMaximum validator of
// drafts 6 and later. The draft-4 boolean form is handled by maximum.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-exclusivemaximum
func compileExclusiveMaximum(cc *compileContext, value any) (keywordValidator, error) {
	if cc.draft == Draft4 {
		if _, ok := value.(bool); ok {
			return nil, nil
		}
	}
	limit, err := schemaRat(cc, "exclusiveMaximum", value)
	if err != nil {
		return nil, err
	}
	return &exclusiveMaximumValidator{
		keywordBase: newKeywordBase(cc, "exclusiveMaximum"),
		limit:       newNumericLimit(limit),
	}, nil
}

type exclusiveMaximumValidator struct {
	keywordBase
	limit numericLimit
}

func (k *exclusiveMaximumValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	cmp, numeric := k.limit.compare(v)
	return !numeric || cmp < 0
}

func (k *exclusiveMaximumValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	cmp, numeric := k.limit.compare(v)
	if !numeric || cmp < 0 {
		return true
	}
	return yield(k.newError(st, KindExclusiveMaximum, "exclusive_maximum_mismatch", "{value} should be less than {maximum}", v, loc, map[string]any{
		"value":   fmt.Sprint(v),
		"maximum": formatRat(k.limit.rat),
	}))
}
