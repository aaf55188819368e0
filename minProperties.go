package jsonschema

// compileMinProperties builds the minProperties validator.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-minproperties
func compileMinProperties(cc *compileContext, value any) (keywordValidator, error) {
	limit, err := schemaInt(cc, "minProperties", value)
	if err != nil {
		return nil, err
	}
	return &minPropertiesValidator{keywordBase: newKeywordBase(cc, "minProperties"), limit: limit}, nil
}

type minPropertiesValidator struct {
	keywordBase
	limit int
}

func (k *minPropertiesValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	obj, ok := v.(map[string]any)
	return !ok || len(obj) >= k.limit
}

func (k *minPropertiesValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(k.newError(st, KindMinProperties, "min_properties_mismatch", "Object should have at least {min_properties} properties", v, loc, map[string]any{
		"min_properties": k.limit,
	}))
}
