package jsonschema

// compileMaxItems builds the maxItems validator.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-maxitems
func compileMaxItems(cc *compileContext, value any) (keywordValidator, error) {
	limit, err := schemaInt(cc, "maxItems", value)
	if err != nil {
		return nil, err
	}
	return &maxItemsValidator{keywordBase: newKeywordBase(cc, "maxItems"), limit: limit}, nil
}

type maxItemsValidator struct {
	keywordBase
	limit int
}

func (k *maxItemsValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	items, ok := v.([]any)
	return !ok || len(items) <= k.limit
}

func (k *maxItemsValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(k.newError(st, KindMaxItems, "max_items_mismatch", "Array should have at most {max_items} items", v, loc, map[string]any{
		"max_items": k.limit,
	}))
}
