package jsonschema

import (
	"sort"
	"strings"
)

// compileAdditionalProperties builds the additionalProperties validator. The
// keyword applies to every instance property not covered by the sibling
// properties and patternProperties keywords; the frequent false form gets
// its own validator that reports one grouped error naming the offenders.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-additionalproperties
func compileAdditionalProperties(cc *compileContext, value any, obj map[string]any) (keywordValidator, error) {
	var props *propertiesValidator
	if propsVal, ok := obj["properties"]; ok {
		compiled, err := compilePropertiesAt(cc, propsVal)
		if err != nil {
			return nil, err
		}
		props = compiled
	}
	var patterns []patternPropEntry
	if patsVal, ok := obj["patternProperties"]; ok {
		compiled, err := compilePatternPropEntries(cc, patsVal)
		if err != nil {
			return nil, err
		}
		patterns = compiled
	}

	if b, isBool := value.(bool); isBool && !b {
		return &additionalPropertiesFalseValidator{
			keywordBase: newKeywordBase(cc, "additionalProperties"),
			properties:  props,
			patterns:    patterns,
		}, nil
	}

	node, err := cc.compileSubschema("additionalProperties")
	if err != nil {
		return nil, err
	}
	return &additionalPropertiesValidator{
		keywordBase: newKeywordBase(cc, "additionalProperties"),
		node:        node,
		properties:  props,
		patterns:    patterns,
	}, nil
}

// coveredProperty reports whether a property name is claimed by properties or
// patternProperties and therefore out of additionalProperties' reach.
func coveredProperty(props *propertiesValidator, patterns []patternPropEntry, name string) bool {
	if props != nil && props.lookup(name) >= 0 {
		return true
	}
	for _, e := range patterns {
		if ok, err := e.re.match(name); err == nil && ok {
			return true
		}
	}
	return false
}

// additionalPropertiesFalseValidator rejects any property outside the
// sibling coverage with a single grouped error.
type additionalPropertiesFalseValidator struct {
	keywordBase
	properties *propertiesValidator
	patterns   []patternPropEntry
}

func (k *additionalPropertiesFalseValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for name := range obj {
		if !coveredProperty(k.properties, k.patterns, name) {
			return false
		}
	}
	return true
}

func (k *additionalPropertiesFalseValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	var unexpected []string
	for name := range obj {
		if !coveredProperty(k.properties, k.patterns, name) {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) == 0 {
		return true
	}
	sort.Strings(unexpected)
	return yield(k.newError(st, KindAdditionalProperties, "additional_properties_mismatch", "Additional properties {properties} are not allowed", v, loc, map[string]any{
		"properties": strings.Join(unexpected, ", "),
		"unexpected": unexpected,
	}))
}

func (k *additionalPropertiesFalseValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	k.appendErrors(st, v, loc, ann, res.collectError)
}

// additionalPropertiesValidator applies a subschema to every uncovered
// property.
type additionalPropertiesValidator struct {
	keywordBase
	node       *schemaNode
	properties *propertiesValidator
	patterns   []patternPropEntry
}

func (k *additionalPropertiesValidator) isValid(st *validationState, v any, ann *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for name, value := range obj {
		if coveredProperty(k.properties, k.patterns, name) {
			continue
		}
		if !k.node.isValid(st, value, nil) {
			return false
		}
		ann.markProp(name)
	}
	return true
}

func (k *additionalPropertiesValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	obj, isObj := v.(map[string]any)
	if !isObj {
		return true
	}
	for _, name := range sortedKeys(obj) {
		if coveredProperty(k.properties, k.patterns, name) {
			continue
		}
		child := loc.prop(name)
		ok := true
		failed := false
		k.node.appendErrors(st, obj[name], &child, nil, func(e *ValidationError) bool {
			failed = true
			ok = yield(e)
			return ok
		})
		if !ok {
			return false
		}
		if !failed {
			ann.markProp(name)
		}
	}
	return true
}

func (k *additionalPropertiesValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	obj, isObj := v.(map[string]any)
	if !isObj {
		return
	}
	evaluated := []string{}
	failed := false
	for _, name := range sortedKeys(obj) {
		if coveredProperty(k.properties, k.patterns, name) {
			continue
		}
		child := loc.prop(name)
		childRes, _ := k.node.evaluate(st, obj[name], &child)
		res.addDetail(childRes)
		if childRes.Valid {
			evaluated = append(evaluated, name)
			ann.markProp(name)
		} else {
			failed = true
		}
	}
	if failed {
		res.collectError(k.newError(st, kindAggregate, "additional_properties_invalid", "Additional properties do not match the schema", v, loc, nil))
		return
	}
	res.addAnnotation("additionalProperties", evaluated)
}
