package jsonschema

// compileMaxProperties builds the maxProperties validator.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-maxproperties
func compileMaxProperties(cc *compileContext, value any) (keywordValidator, error) {
	limit, err := schemaInt(cc, "maxProperties", value)
	if err != nil {
		return nil, err
	}
	return &maxPropertiesValidator{keywordBase: newKeywordBase(cc, "maxProperties"), limit: limit}, nil
}

type maxPropertiesValidator struct {
	keywordBase
	limit int
}

func (k *maxPropertiesValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	obj, ok := v.(map[string]any)
	return !ok || len(obj) <= k.limit
}

func (k *maxPropertiesValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(k.newError(st, KindMaxProperties, "max_properties_mismatch", "Object should have at most {max_properties} properties", v, loc, map[string]any{
		"max_properties": k.limit,
	}))
}
