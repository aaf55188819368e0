package jsonschema

import (
	"sort"
	"strings"
)

// compileUnevaluatedProperties builds the unevaluatedProperties validator.
// It is always compiled last so that every other applicator of the same
// subschema — properties, patternProperties, additionalProperties, nested
// references, satisfied combinator branches and dependent schemas — has
// already recorded what it evaluated.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-unevaluatedproperties
func compileUnevaluatedProperties(cc *compileContext, value any) (keywordValidator, error) {
	node, err := cc.compileSubschema("unevaluatedProperties")
	if err != nil {
		return nil, err
	}
	return &unevaluatedPropertiesValidator{
		keywordBase: newKeywordBase(cc, "unevaluatedProperties"),
		node:        node,
	}, nil
}

type unevaluatedPropertiesValidator struct {
	keywordBase
	node *schemaNode
}

func (k *unevaluatedPropertiesValidator) isValid(st *validationState, v any, ann *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for name, value := range obj {
		if ann != nil && ann.props[name] {
			continue
		}
		if !k.node.isValid(st, value, nil) {
			return false
		}
		ann.markProp(name)
	}
	return true
}

func (k *unevaluatedPropertiesValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	var unexpected []string
	for name, value := range obj {
		if ann != nil && ann.props[name] {
			continue
		}
		if k.node.isValid(st, value, nil) {
			ann.markProp(name)
			continue
		}
		unexpected = append(unexpected, name)
	}
	if len(unexpected) == 0 {
		return true
	}
	sort.Strings(unexpected)
	return yield(k.newError(st, KindUnevaluatedProperties, "unevaluated_properties_mismatch", "Unevaluated properties {properties} are not allowed", v, loc, map[string]any{
		"properties": strings.Join(unexpected, ", "),
		"unexpected": unexpected,
	}))
}

func (k *unevaluatedPropertiesValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	obj, ok := v.(map[string]any)
	if !ok {
		return
	}
	evaluated := []string{}
	var unexpected []string
	for _, name := range sortedKeys(obj) {
		if ann != nil && ann.props[name] {
			continue
		}
		child := loc.prop(name)
		childRes, _ := k.node.evaluate(st, obj[name], &child)
		res.addDetail(childRes)
		if childRes.Valid {
			evaluated = append(evaluated, name)
			ann.markProp(name)
		} else {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		res.collectError(k.newError(st, KindUnevaluatedProperties, "unevaluated_properties_mismatch", "Unevaluated properties {properties} are not allowed", v, loc, map[string]any{
			"properties": strings.Join(unexpected, ", "),
			"unexpected": unexpected,
		}))
		return
	}
	res.addAnnotation("unevaluatedProperties", evaluated)
}
