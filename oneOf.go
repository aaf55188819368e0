package jsonschema

// compileOneOf builds the oneOf validator. Its two failure modes carry
// distinct kinds: no branch matched (OneOfNotValid, with per-branch errors)
// and more than one branch matched (OneOfMultipleValid, naming the matching
// branch indices).
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-oneof
func compileOneOf(cc *compileContext, value any) (keywordValidator, error) {
	nodes, err := compileSubschemaList(cc, "oneOf", value)
	if err != nil {
		return nil, err
	}
	return &oneOfValidator{
		keywordBase: newKeywordBase(cc, "oneOf"),
		nodes:       nodes,
	}, nil
}

type oneOfValidator struct {
	keywordBase
	nodes []*schemaNode
}

func (k *oneOfValidator) isValid(st *validationState, v any, ann *annotations) bool {
	matched := 0
	var matchedAnn *annotations
	for _, node := range k.nodes {
		branch := ann.branch()
		if node.isValid(st, v, branch) {
			matched++
			matchedAnn = branch
			if matched > 1 {
				return false
			}
		}
	}
	if matched == 1 {
		ann.merge(matchedAnn)
		return true
	}
	return false
}

func (k *oneOfValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	scratch := ann.branch()
	valid, causes := branchErrors(st, "oneOf", k.nodes, v, loc, scratch)
	switch len(valid) {
	case 0:
		e := k.newError(st, KindOneOfNotValid, "one_of_not_valid", "Value does not match any of the exclusive subschemas", v, loc, nil)
		e.Causes = causes
		return yield(e)
	case 1:
		ann.merge(scratch)
		return true
	}
	return yield(k.newError(st, KindOneOfMultipleValid, "one_of_multiple_valid", "Value matches {count} exclusive subschemas but should match exactly one", v, loc, map[string]any{
		"count":   len(valid),
		"matched": valid,
	}))
}

func (k *oneOfValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	validCount := 0
	var matchedAnn *annotations
	for _, node := range k.nodes {
		childRes, branch := node.evaluate(st, v, loc)
		res.addDetail(childRes)
		if childRes.Valid {
			validCount++
			matchedAnn = branch
		}
	}
	switch {
	case validCount == 0:
		res.collectError(k.newError(st, KindOneOfNotValid, "one_of_not_valid", "Value does not match any of the exclusive subschemas", v, loc, nil))
	case validCount == 1:
		ann.merge(matchedAnn)
	default:
		res.collectError(k.newError(st, KindOneOfMultipleValid, "one_of_multiple_valid", "Value matches {count} exclusive subschemas but should match exactly one", v, loc, map[string]any{
			"count": validCount,
		}))
	}
}
