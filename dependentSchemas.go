package jsonschema

import (
	"fmt"
	"sort"
)

// compileDependentSchemas builds the dependentSchemas validator: when a
// trigger property is present, the whole instance must validate against the
// associated subschema. Satisfied dependent schemas contribute to the
// evaluated-property set.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-dependentschemas
func compileDependentSchemas(cc *compileContext, value any) (keywordValidator, error) {
	return compileDependentSchemasAt(cc, "dependentSchemas", value)
}

func compileDependentSchemasAt(cc *compileContext, keyword string, value any) (keywordValidator, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an object at %q", ErrInvalidSchemaValue, keyword, cc.location)
	}
	triggers := make([]string, 0, len(obj))
	for name := range obj {
		triggers = append(triggers, name)
	}
	sort.Strings(triggers)

	nodes := make([]*schemaNode, len(triggers))
	for i, trigger := range triggers {
		node, err := cc.compileSubschema(keyword, trigger)
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return &dependentSchemasValidator{
		keywordBase: newKeywordBase(cc, keyword),
		triggers:    triggers,
		nodes:       nodes,
	}, nil
}

type dependentSchemasValidator struct {
	keywordBase
	triggers []string
	nodes    []*schemaNode
}

func (k *dependentSchemasValidator) isValid(st *validationState, v any, ann *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for i, trigger := range k.triggers {
		if _, present := obj[trigger]; !present {
			continue
		}
		branch := ann.branch()
		if !k.nodes[i].isValid(st, v, branch) {
			return false
		}
		ann.merge(branch)
	}
	return true
}

func (k *dependentSchemasValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for i, trigger := range k.triggers {
		if _, present := obj[trigger]; !present {
			continue
		}
		branch := ann.branch()
		failed := false
		keepGoing := true
		k.nodes[i].appendErrors(st, v, loc, branch, func(e *ValidationError) bool {
			failed = true
			keepGoing = yield(e)
			return keepGoing
		})
		if !keepGoing {
			return false
		}
		if !failed {
			ann.merge(branch)
		}
	}
	return true
}

func (k *dependentSchemasValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	obj, ok := v.(map[string]any)
	if !ok {
		return
	}
	failed := []string{}
	for i, trigger := range k.triggers {
		if _, present := obj[trigger]; !present {
			continue
		}
		childRes, branch := k.nodes[i].evaluate(st, v, loc)
		res.addDetail(childRes)
		if childRes.Valid {
			ann.merge(branch)
		} else {
			failed = append(failed, trigger)
		}
	}
	if len(failed) > 0 {
		res.collectError(k.newError(st, kindAggregate, "dependent_schemas_mismatch", "Dependent schemas of present properties do not match", v, loc, map[string]any{
			"triggers": failed,
		}))
	}
}
