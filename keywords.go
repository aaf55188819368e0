package jsonschema

import (
	"fmt"
	"math/big"
)

// compileKeyword dispatches one recognized keyword to its compile function.
// Returning a nil validator without error means the keyword contributes
// nothing at this site (annotation-only, or folded into a sibling keyword).
func compileKeyword(cc *compileContext, keyword string, value any, obj map[string]any) (keywordValidator, error) {
	switch keyword {
	case "$ref":
		return compileRef(cc, value)
	case "$dynamicRef":
		return compileDynamicRef(cc, value)
	case "$recursiveRef":
		return compileRecursiveRef(cc, value)
	case "type":
		return compileType(cc, value)
	case "enum":
		return compileEnum(cc, value)
	case "const":
		return compileConst(cc, value)
	case "multipleOf":
		return compileMultipleOf(cc, value)
	case "maximum":
		return compileMaximum(cc, value, obj)
	case "exclusiveMaximum":
		return compileExclusiveMaximum(cc, value)
	case "minimum":
		return compileMinimum(cc, value, obj)
	case "exclusiveMinimum":
		return compileExclusiveMinimum(cc, value)
	case "maxLength":
		return compileMaxLength(cc, value)
	case "minLength":
		return compileMinLength(cc, value)
	case "pattern":
		return compilePattern(cc, value)
	case "format":
		return compileFormat(cc, value)
	case "contentEncoding", "contentMediaType":
		return compileContent(cc, keyword, value)
	case "maxItems":
		return compileMaxItems(cc, value)
	case "minItems":
		return compileMinItems(cc, value)
	case "uniqueItems":
		return compileUniqueItems(cc, value)
	case "prefixItems":
		return compilePrefixItems(cc, value)
	case "items":
		return compileItems(cc, value, obj)
	case "additionalItems":
		// Folded into the tuple form of items.
		return nil, nil
	case "contains":
		return compileContains(cc, value, obj)
	case "maxProperties":
		return compileMaxProperties(cc, value)
	case "minProperties":
		return compileMinProperties(cc, value)
	case "required":
		return compileRequired(cc, value)
	case "dependencies":
		return compileDependencies(cc, value)
	case "dependentRequired":
		return compileDependentRequired(cc, value)
	case "dependentSchemas":
		return compileDependentSchemas(cc, value)
	case "propertyNames":
		return compilePropertyNames(cc, value)
	case "properties":
		return compileProperties(cc, value)
	case "patternProperties":
		return compilePatternProperties(cc, value)
	case "additionalProperties":
		return compileAdditionalProperties(cc, value, obj)
	case "allOf":
		return compileAllOf(cc, value)
	case "anyOf":
		return compileAnyOf(cc, value)
	case "oneOf":
		return compileOneOf(cc, value)
	case "not":
		return compileNot(cc, value)
	case "if":
		return compileConditional(cc, value, obj)
	case "unevaluatedItems":
		return compileUnevaluatedItems(cc, value)
	case "unevaluatedProperties":
		return compileUnevaluatedProperties(cc, value)
	}
	return nil, nil
}

// schemaInt reads a non-negative integer keyword argument.
func schemaInt(cc *compileContext, keyword string, v any) (int, error) {
	r := numberRat(v)
	if r == nil || !r.IsInt() || r.Sign() < 0 || !r.Num().IsInt64() {
		return 0, fmt.Errorf("%w: %q must be a non-negative integer at %q", ErrInvalidSchemaValue, keyword, cc.location)
	}
	return int(r.Num().Int64()), nil
}

// schemaRat reads a numeric keyword argument.
func schemaRat(cc *compileContext, keyword string, v any) (*big.Rat, error) {
	r := numberRat(v)
	if r == nil {
		return nil, fmt.Errorf("%w: %q must be a number at %q", ErrInvalidSchemaValue, keyword, cc.location)
	}
	return r, nil
}

// schemaStringList reads a list-of-strings keyword argument.
func schemaStringList(cc *compileContext, keyword string, v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an array at %q", ErrInvalidSchemaValue, keyword, cc.location)
	}
	out := make([]string, len(list))
	for i, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q must contain strings at %q", ErrInvalidSchemaValue, keyword, cc.location)
		}
		out[i] = s
	}
	return out, nil
}

// compileSubschemaList compiles every element of an array-of-schemas
// keyword.
func compileSubschemaList(cc *compileContext, keyword string, v any) ([]*schemaNode, error) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("%w: %q must be a non-empty array at %q", ErrInvalidSchemaValue, keyword, cc.location)
	}
	nodes := make([]*schemaNode, len(list))
	for i := range list {
		node, err := cc.compileSubschema(keyword, fmt.Sprint(i))
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return nodes, nil
}
