package jsonschema

import (
	"fmt"
	"sort"
	"strings"
)

// propsMapThreshold is the property count at or above which lookup goes through a
// hash map instead of scanning the name slice.
const propsMapThreshold = 40

// compileProperties builds the properties validator.
//
// According to the JSON Schema Draft 2020-12:
//   - Validation succeeds if, for each name that appears in both the
//     instance and this keyword's value, the child instance for that name
//     validates against the corresponding subschema.
//   - The names validated this way count as evaluated for
//     additionalProperties and unevaluatedProperties.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-properties
func compileProperties(cc *compileContext, value any) (keywordValidator, error) {
	return compilePropertiesAt(cc, value)
}

func compilePropertiesAt(cc *compileContext, value any) (*propertiesValidator, error) {
	props, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: \"properties\" must be an object at %q", ErrInvalidSchemaValue, cc.location)
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]*schemaNode, len(names))
	for i, name := range names {
		node, err := cc.compileSubschema("properties", name)
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}

	v := &propertiesValidator{
		keywordBase: newKeywordBase(cc, "properties"),
		names:       names,
		nodes:       nodes,
	}
	if len(names) >= propsMapThreshold {
		v.byName = make(map[string]int, len(names))
		for i, name := range names {
			v.byName[name] = i
		}
	}
	return v, nil
}

type propertiesValidator struct {
	keywordBase
	names  []string
	nodes  []*schemaNode
	byName map[string]int // non-nil for the hashed variant
}

// lookup finds the subschema index of a property name, or -1.
func (k *propertiesValidator) lookup(name string) int {
	if k.byName != nil {
		if i, ok := k.byName[name]; ok {
			return i
		}
		return -1
	}
	for i, n := range k.names {
		if n == name {
			return i
		}
	}
	return -1
}

func (k *propertiesValidator) isValid(st *validationState, v any, ann *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for i, name := range k.names {
		value, present := obj[name]
		if !present {
			continue
		}
		if !k.nodes[i].isValid(st, value, nil) {
			return false
		}
		ann.markProp(name)
	}
	return true
}

func (k *propertiesValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for i, name := range k.names {
		value, present := obj[name]
		if !present {
			continue
		}
		child := loc.prop(name)
		ok := true
		failed := false
		k.nodes[i].appendErrors(st, value, &child, nil, func(e *ValidationError) bool {
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

func (k *propertiesValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	obj, ok := v.(map[string]any)
	if !ok {
		return
	}
	evaluated := make([]string, 0, len(k.names))
	invalid := []string{}
	for i, name := range k.names {
		value, present := obj[name]
		if !present {
			continue
		}
		child := loc.prop(name)
		childRes, _ := k.nodes[i].evaluate(st, value, &child)
		res.addDetail(childRes)
		if childRes.Valid {
			evaluated = append(evaluated, name)
			ann.markProp(name)
		} else {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		res.collectError(propertiesError(&k.keywordBase, st, v, loc, invalid))
		return
	}
	res.addAnnotation("properties", evaluated)
}

func propertiesError(kb *keywordBase, st *validationState, v any, loc *InstanceLocation, invalid []string) *ValidationError {
	if len(invalid) == 1 {
		return kb.newError(st, kindAggregate, "property_mismatch", "Property {property} does not match the schema", v, loc, map[string]any{
			"property": fmt.Sprintf("'%s'", invalid[0]),
		})
	}
	quoted := make([]string, len(invalid))
	for i, name := range invalid {
		quoted[i] = fmt.Sprintf("'%s'", name)
	}
	return kb.newError(st, kindAggregate, "properties_mismatch", "Properties {properties} do not match their schemas", v, loc, map[string]any{
		"properties": strings.Join(quoted, ", "),
	})
}

// compileFusedProperties selects the fused fast paths of the properties
// cluster: properties+required, and properties+required with
// additionalProperties set to false. Fusion only triggers when no other
// object keyword could interleave errors, so the error stream is identical
// to the unfused validators. On success the skipped sibling keywords are
// recorded in skip; the returned validator is appended at required's
// position in the keyword table.
func compileFusedProperties(cc *compileContext, obj map[string]any, skip map[string]bool) (keywordValidator, error) {
	propsVal, hasProps := obj["properties"]
	reqVal, hasReq := obj["required"]
	if !hasProps || !hasReq {
		return nil, nil
	}
	for _, blocker := range []string{"patternProperties", "propertyNames", "dependencies", "dependentRequired", "dependentSchemas"} {
		if _, present := obj[blocker]; present {
			return nil, nil
		}
	}
	addlVal, hasAddl := obj["additionalProperties"]
	addlFalse := false
	if hasAddl {
		b, isBool := addlVal.(bool)
		if !isBool || b {
			return nil, nil
		}
		addlFalse = true
	}

	names, err := schemaStringList(cc, "required", reqVal)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	required, err := compileRequired(cc, reqVal)
	if err != nil {
		return nil, err
	}
	properties, err := compilePropertiesAt(cc, propsVal)
	if err != nil {
		return nil, err
	}

	skip["properties"] = true
	fused := &fusedPropertiesValidator{
		required:   required,
		properties: properties,
	}
	if addlFalse {
		skip["additionalProperties"] = true
		fused.additional = &additionalPropertiesFalseValidator{
			keywordBase: newKeywordBase(cc, "additionalProperties"),
			properties:  properties,
		}
	}
	return fused, nil
}

// fusedPropertiesValidator runs required, properties and an optional
// additionalProperties:false in a single instance pass on the hot path. The
// error-reporting path delegates to the inner validators so that kinds,
// ordering and counts match the unfused compilation exactly.
type fusedPropertiesValidator struct {
	required   keywordValidator
	properties *propertiesValidator
	additional *additionalPropertiesFalseValidator
}

func (k *fusedPropertiesValidator) keyword() string { return "properties" }

func (k *fusedPropertiesValidator) isValid(st *validationState, v any, ann *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	if !k.required.isValid(st, v, ann) {
		return false
	}
	if ann != nil || k.additional == nil {
		// Annotation bookkeeping needs the component walk.
		if !k.properties.isValid(st, v, ann) {
			return false
		}
		if k.additional != nil {
			return k.additional.isValid(st, v, ann)
		}
		return true
	}
	for name, value := range obj {
		i := k.properties.lookup(name)
		if i < 0 {
			return false
		}
		if !k.properties.nodes[i].isValid(st, value, nil) {
			return false
		}
	}
	return true
}

func (k *fusedPropertiesValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if !k.required.appendErrors(st, v, loc, ann, yield) {
		return false
	}
	if !k.properties.appendErrors(st, v, loc, ann, yield) {
		return false
	}
	if k.additional != nil {
		return k.additional.appendErrors(st, v, loc, ann, yield)
	}
	return true
}

func (k *fusedPropertiesValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	k.required.appendErrors(st, v, loc, ann, res.collectError)
	k.properties.evaluateTree(st, v, loc, res, ann)
	if k.additional != nil {
		k.additional.evaluateTree(st, v, loc, res, ann)
	}
}
