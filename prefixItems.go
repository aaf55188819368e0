package jsonschema

// compilePrefixItems builds the prefixItems validator of draft 2020-12. The
// pre-2020 tuple form of items compiles to the same validator with its own
// keyword name.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-prefixitems
func compilePrefixItems(cc *compileContext, value any) (keywordValidator, error) {
	nodes, err := compileSubschemaList(cc, "prefixItems", value)
	if err != nil {
		return nil, err
	}
	return &prefixItemsValidator{
		keywordBase: newKeywordBase(cc, "prefixItems"),
		nodes:       nodes,
	}, nil
}

type prefixItemsValidator struct {
	keywordBase
	nodes []*schemaNode
}

func (k *prefixItemsValidator) isValid(st *validationState, v any, ann *annotations) bool {
	items, ok := v.([]any)
	if !ok {
		return true
	}
	for i, node := range k.nodes {
		if i >= len(items) {
			break
		}
		if !node.isValid(st, items[i], nil) {
			return false
		}
		ann.markItem(i)
	}
	return true
}

func (k *prefixItemsValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	items, isArr := v.([]any)
	if !isArr {
		return true
	}
	for i, node := range k.nodes {
		if i >= len(items) {
			break
		}
		child := loc.item(i)
		ok := true
		failed := false
		node.appendErrors(st, items[i], &child, nil, func(e *ValidationError) bool {
			failed = true
			ok = yield(e)
			return ok
		})
		if !ok {
			return false
		}
		if !failed {
			ann.markItem(i)
		}
	}
	return true
}

func (k *prefixItemsValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	items, isArr := v.([]any)
	if !isArr {
		return
	}
	failed := false
	covered := 0
	for i, node := range k.nodes {
		if i >= len(items) {
			break
		}
		child := loc.item(i)
		childRes, _ := node.evaluate(st, items[i], &child)
		res.addDetail(childRes)
		if childRes.Valid {
			ann.markItem(i)
			covered = i + 1
		} else {
			failed = true
		}
	}
	if failed {
		res.collectError(k.newError(st, kindAggregate, "prefix_items_mismatch", "Array prefix items do not match their schemas", v, loc, nil))
		return
	}
	if covered >= len(items) && len(items) > 0 {
		res.addAnnotation(k.name, true)
	} else if covered > 0 {
		res.addAnnotation(k.name, covered-1)
	}
}
