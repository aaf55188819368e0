package jsonschema

// compileConditional builds the if/then/else group, dispatched from the if
// keyword. A then or else without if is annotation-only and compiles to
// nothing.
//
// According to the JSON Schema Draft 2020-12:
//   - The if subschema never produces errors; its verdict selects which of
//     then/else applies to the instance.
//   - Annotations of a satisfied if (and of the applied branch) contribute
//     to the evaluated sets.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-if-then-else
func compileConditional(cc *compileContext, _ any, obj map[string]any) (keywordValidator, error) {
	ifNode, err := cc.compileSubschema("if")
	if err != nil {
		return nil, err
	}
	v := &conditionalValidator{
		keywordBase: newKeywordBase(cc, "if"),
		ifNode:      ifNode,
	}
	if _, ok := obj["then"]; ok {
		v.thenNode, err = cc.compileSubschema("then")
		if err != nil {
			return nil, err
		}
	}
	if _, ok := obj["else"]; ok {
		v.elseNode, err = cc.compileSubschema("else")
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

type conditionalValidator struct {
	keywordBase
	ifNode   *schemaNode
	thenNode *schemaNode
	elseNode *schemaNode
}

// pick evaluates the condition and returns the applied branch, if any.
func (k *conditionalValidator) pick(st *validationState, v any, ann *annotations) *schemaNode {
	branch := ann.branch()
	if k.ifNode.isValid(st, v, branch) {
		ann.merge(branch)
		return k.thenNode
	}
	return k.elseNode
}

func (k *conditionalValidator) isValid(st *validationState, v any, ann *annotations) bool {
	applied := k.pick(st, v, ann)
	if applied == nil {
		return true
	}
	return applied.isValid(st, v, ann)
}

func (k *conditionalValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	applied := k.pick(st, v, ann)
	if applied == nil {
		return true
	}
	return applied.appendErrors(st, v, loc, ann, yield)
}

func (k *conditionalValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	ifRes, ifAnn := k.ifNode.evaluate(st, v, loc)
	applied := k.elseNode
	if ifRes.Valid {
		ann.merge(ifAnn)
		applied = k.thenNode
	}
	// The condition's subtree appears in structured output, but its verdict
	// never fails the parent: only the applied branch below contributes.
	res.addDetail(ifRes)

	if applied == nil {
		return
	}
	appliedRes, appliedAnn := applied.evaluate(st, v, loc)
	res.addDetail(appliedRes)
	if appliedRes.Valid {
		ann.merge(appliedAnn)
	} else {
		keyword := "then"
		if applied == k.elseNode {
			keyword = "else"
		}
		res.collectError(k.newError(st, kindAggregate, "conditional_mismatch", "Value does not match the {branch} schema", v, loc, map[string]any{
			"branch": keyword,
		}))
	}
}
