package jsonschema

// compileConst builds the const validator. A null const is a legitimate
// constraint, which is why the keyword's presence rather than its value
// triggered compilation.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-const
func compileConst(cc *compileContext, value any) (keywordValidator, error) {
	return &constValidator{
		keywordBase: newKeywordBase(cc, "const"),
		expected:    value,
	}, nil
}

type constValidator struct {
	keywordBase
	expected any
}

func (k *constValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	return deepEqual(v, k.expected)
}

func (k *constValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	if deepEqual(v, k.expected) {
		return true
	}
	return yield(k.newError(st, KindConst, "const_mismatch", "Value should be {expected}", v, loc, map[string]any{
		"expected": renderInstance(k.expected, false),
	}))
}
