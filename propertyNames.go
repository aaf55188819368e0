package jsonschema

// compilePropertyNames builds the propertyNames validator, which applies a
// subschema to every property name of the instance, as a string.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-propertynames
func compilePropertyNames(cc *compileContext, value any) (keywordValidator, error) {
	node, err := cc.compileSubschema("propertyNames")
	if err != nil {
		return nil, err
	}
	return &propertyNamesValidator{
		keywordBase: newKeywordBase(cc, "propertyNames"),
		node:        node,
	}, nil
}

type propertyNamesValidator struct {
	keywordBase
	node *schemaNode
}

func (k *propertyNamesValidator) isValid(st *validationState, v any, _ *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for name := range obj {
		if !k.node.isValid(st, name, nil) {
			return false
		}
	}
	return true
}

func (k *propertyNamesValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for _, name := range sortedKeys(obj) {
		if k.node.isValid(st, name, nil) {
			continue
		}
		if !yield(k.newError(st, KindPropertyNames, "property_names_mismatch", "Property name {property} does not match the schema", name, loc, map[string]any{
			"property": name,
		})) {
			return false
		}
	}
	return true
}
