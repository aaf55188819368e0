package jsonschema

// compileUniqueItems builds the uniqueItems validator. Uniqueness uses JSON
// value equality, so [1, 1.0] is a duplicate. Short arrays compare pairwise;
// longer ones deduplicate through canonical keys.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-uniqueitems
func compileUniqueItems(cc *compileContext, value any) (keywordValidator, error) {
	b, ok := value.(bool)
	if !ok || !b {
		return nil, nil
	}
	return &uniqueItemsValidator{keywordBase: newKeywordBase(cc, "uniqueItems")}, nil
}

// uniqueItemsPairwiseMax bounds the O(n²) pairwise comparison.
const uniqueItemsPairwiseMax = 8

type uniqueItemsValidator struct {
	keywordBase
}

func (k *uniqueItemsValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	items, ok := v.([]any)
	if !ok || len(items) < 2 {
		return true
	}
	if len(items) <= uniqueItemsPairwiseMax {
		for i := 0; i < len(items)-1; i++ {
			for j := i + 1; j < len(items); j++ {
				if deepEqual(items[i], items[j]) {
					return false
				}
			}
		}
		return true
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := canonicalKey(item)
		if seen[key] {
			return false
		}
		seen[key] = true
	}
	return true
}

func (k *uniqueItemsValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(k.newError(st, KindUniqueItems, "unique_items_mismatch", "Array items should be unique", v, loc, nil))
}
