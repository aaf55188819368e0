package jsonschema

import "fmt"

// compileAnyOf builds the anyOf validator.
//
// According to the JSON Schema Draft 2020-12:
//   - Validation succeeds when the instance validates against at least one
//     subschema.
//   - On failure a single error of kind AnyOf is reported, carrying the
//     per-branch error lists rather than surfacing them individually.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-anyof
func compileAnyOf(cc *compileContext, value any) (keywordValidator, error) {
	nodes, err := compileSubschemaList(cc, "anyOf", value)
	if err != nil {
		return nil, err
	}
	return &anyOfValidator{
		keywordBase: newKeywordBase(cc, "anyOf"),
		nodes:       nodes,
	}, nil
}

type anyOfValidator struct {
	keywordBase
	nodes []*schemaNode
}

func (k *anyOfValidator) isValid(st *validationState, v any, ann *annotations) bool {
	if ann == nil {
		for _, node := range k.nodes {
			if node.isValid(st, v, nil) {
				return true
			}
		}
		return false
	}
	// Every satisfied branch contributes annotations, so no short-circuit.
	valid := false
	for _, node := range k.nodes {
		branch := ann.branch()
		if node.isValid(st, v, branch) {
			ann.merge(branch)
			valid = true
		}
	}
	return valid
}

// branchErrors collects the full error list of each failing branch.
func branchErrors(st *validationState, keyword string, nodes []*schemaNode, v any, loc *InstanceLocation, ann *annotations) (valid []int, causes []*ValidationError) {
	for i, node := range nodes {
		branch := ann.branch()
		var errs []*ValidationError
		node.appendErrors(st, v, loc, branch, func(e *ValidationError) bool {
			errs = append(errs, e)
			return true
		})
		if len(errs) == 0 {
			valid = append(valid, i)
			ann.merge(branch)
			continue
		}
		container := newValidationError(kindAggregate, fmt.Sprintf("%s/%d", keyword, i), "subschema_mismatch", "Value does not match the subschema")
		container.Causes = errs
		container.InstanceLocation = errs[0].InstanceLocation
		causes = append(causes, container)
	}
	return valid, causes
}

func (k *anyOfValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	valid, causes := branchErrors(st, "anyOf", k.nodes, v, loc, ann)
	if len(valid) > 0 {
		return true
	}
	e := k.newError(st, KindAnyOf, "any_of_mismatch", "Value does not match any of the subschemas", v, loc, nil)
	e.Causes = causes
	return yield(e)
}

func (k *anyOfValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	anyValid := false
	for _, node := range k.nodes {
		childRes, branch := node.evaluate(st, v, loc)
		res.addDetail(childRes)
		if childRes.Valid {
			ann.merge(branch)
			anyValid = true
		}
	}
	if !anyValid {
		res.collectError(k.newError(st, KindAnyOf, "any_of_mismatch", "Value does not match any of the subschemas", v, loc, nil))
	}
}
