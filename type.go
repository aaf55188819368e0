package jsonschema

import (
	"fmt"
	"strings"
)

// compileType builds the type validator. The single-type form is by far the
// most common and gets its own variant so the hot path compares one string.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-type
func compileType(cc *compileContext, value any) (keywordValidator, error) {
	kb := newKeywordBase(cc, "type")
	switch t := value.(type) {
	case string:
		if !isValidTypeName(t) {
			return nil, fmt.Errorf("%w: unknown type %q at %q", ErrInvalidSchemaValue, t, cc.location)
		}
		return &singleTypeValidator{keywordBase: kb, typ: t, draft: cc.draft}, nil
	case []any:
		if len(t) == 0 {
			return nil, fmt.Errorf("%w: \"type\" must name at least one type at %q", ErrInvalidSchemaValue, cc.location)
		}
		types := make([]string, len(t))
		for i, e := range t {
			name, ok := e.(string)
			if !ok || !isValidTypeName(name) {
				return nil, fmt.Errorf("%w: unknown type %v at %q", ErrInvalidSchemaValue, e, cc.location)
			}
			types[i] = name
		}
		if len(types) == 1 {
			return &singleTypeValidator{keywordBase: kb, typ: types[0], draft: cc.draft}, nil
		}
		return &multiTypeValidator{keywordBase: kb, types: types, draft: cc.draft}, nil
	}
	return nil, fmt.Errorf("%w: \"type\" must be a string or an array at %q", ErrInvalidSchemaValue, cc.location)
}

func isValidTypeName(name string) bool {
	switch name {
	case "null", "boolean", "object", "array", "number", "string", "integer":
		return true
	}
	return false
}

type singleTypeValidator struct {
	keywordBase
	typ   string
	draft Draft
}

func (k *singleTypeValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	return typeMatches(getDataType(v, k.draft), k.typ)
}

func (k *singleTypeValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	received := getDataType(v, k.draft)
	if typeMatches(received, k.typ) {
		return true
	}
	return yield(k.newError(st, KindType, "type_mismatch", "Value is {received} but should be {expected}", v, loc, map[string]any{
		"expected": k.typ,
		"received": received,
	}))
}

type multiTypeValidator struct {
	keywordBase
	types []string
	draft Draft
}

func (k *multiTypeValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	received := getDataType(v, k.draft)
	for _, t := range k.types {
		if typeMatches(received, t) {
			return true
		}
	}
	return false
}

func (k *multiTypeValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(k.newError(st, KindType, "type_mismatch", "Value is {received} but should be {expected}", v, loc, map[string]any{
		"expected": strings.Join(k.types, ", "),
		"received": getDataType(v, k.draft),
	}))
}
