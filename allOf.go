package jsonschema

// compileAllOf builds the allOf validator. Child errors pass through to the
// caller unaggregated; annotations of every satisfied branch contribute to
// the evaluated sets.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-allof
func compileAllOf(cc *compileContext, value any) (keywordValidator, error) {
	nodes, err := compileSubschemaList(cc, "allOf", value)
	if err != nil {
		return nil, err
	}
	return &allOfValidator{
		keywordBase: newKeywordBase(cc, "allOf"),
		nodes:       nodes,
	}, nil
}

type allOfValidator struct {
	keywordBase
	nodes []*schemaNode
}

func (k *allOfValidator) isValid(st *validationState, v any, ann *annotations) bool {
	if ann == nil {
		for _, node := range k.nodes {
			if !node.isValid(st, v, nil) {
				return false
			}
		}
		return true
	}
	// With unevaluated bookkeeping active every branch runs, because each
	// satisfied branch contributes to the evaluated sets.
	valid := true
	for _, node := range k.nodes {
		branch := ann.branch()
		if node.isValid(st, v, branch) {
			ann.merge(branch)
		} else {
			valid = false
		}
	}
	return valid
}

func (k *allOfValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	for _, node := range k.nodes {
		branch := ann.branch()
		failed := false
		keepGoing := true
		node.appendErrors(st, v, loc, branch, func(e *ValidationError) bool {
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

func (k *allOfValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	failed := 0
	for _, node := range k.nodes {
		childRes, branch := node.evaluate(st, v, loc)
		res.addDetail(childRes)
		if childRes.Valid {
			ann.merge(branch)
		} else {
			failed++
		}
	}
	if failed > 0 {
		res.collectError(k.newError(st, kindAggregate, "all_of_mismatch", "Value does not match {count} of the required subschemas", v, loc, map[string]any{
			"count": failed,
		}))
	}
}
