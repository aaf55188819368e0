package jsonschema

// compileMinItems builds the minItems validator.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-minitems
func compileMinItems(cc *compileContext, value any) (keywordValidator, error) {
	limit, err := schemaInt(cc, "minItems", value)
	if err != nil {
		return nil, err
	}
	return &minItemsValidator{keywordBase: newKeywordBase(cc, "minItems"), limit: limit}, nil
}

type minItemsValidator struct {
	keywordBase
	limit int
}

func (k *minItemsValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	items, ok := v.([]any)
	return !ok || len(items) >= k.limit
}

func (k *minItemsValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(k.newError(st, KindMinItems, "min_items_mismatch", "Array should have at least {min_items} items", v, loc, map[string]any{
		"min_items": k.limit,
	}))
}
