package jsonschema

// compileNot builds the not validator. The inner schema's errors are never
// surfaced; success of the inner schema is itself the failure.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-not
func compileNot(cc *compileContext, value any) (keywordValidator, error) {
	node, err := cc.compileSubschema("not")
	if err != nil {
		return nil, err
	}
	return &notValidator{
		keywordBase: newKeywordBase(cc, "not"),
		node:        node,
	}, nil
}

type notValidator struct {
	keywordBase
	node *schemaNode
}

func (k *notValidator) isValid(st *validationState, v any, _ *annotations) bool {
	return !k.node.isValid(st, v, nil)
}

func (k *notValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	if !k.node.isValid(st, v, nil) {
		return true
	}
	return yield(k.newError(st, KindNot, "not_mismatch", "Value should not match the schema", v, loc, nil))
}
