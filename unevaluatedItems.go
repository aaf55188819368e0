package jsonschema

import "strconv"

// compileUnevaluatedItems builds the unevaluatedItems validator, the array
// counterpart of unevaluatedProperties. Indices covered by prefixItems,
// items, contains, nested references and satisfied combinator branches are
// exempt; everything else must match the subschema.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-unevaluateditems
func compileUnevaluatedItems(cc *compileContext, value any) (keywordValidator, error) {
	node, err := cc.compileSubschema("unevaluatedItems")
	if err != nil {
		return nil, err
	}
	return &unevaluatedItemsValidator{
		keywordBase: newKeywordBase(cc, "unevaluatedItems"),
		node:        node,
	}, nil
}

type unevaluatedItemsValidator struct {
	keywordBase
	node *schemaNode
}

func (k *unevaluatedItemsValidator) isValid(st *validationState, v any, ann *annotations) bool {
	items, ok := v.([]any)
	if !ok {
		return true
	}
	for i, item := range items {
		if ann != nil && ann.items[i] {
			continue
		}
		if !k.node.isValid(st, item, nil) {
			return false
		}
		ann.markItem(i)
	}
	return true
}

func (k *unevaluatedItemsValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	items, ok := v.([]any)
	if !ok {
		return true
	}
	var unexpected []int
	for i, item := range items {
		if ann != nil && ann.items[i] {
			continue
		}
		if k.node.isValid(st, item, nil) {
			ann.markItem(i)
			continue
		}
		unexpected = append(unexpected, i)
	}
	if len(unexpected) == 0 {
		return true
	}
	return yield(k.newError(st, KindUnevaluatedItems, "unevaluated_items_mismatch", "Unevaluated items at indices {indices} are not allowed", v, loc, map[string]any{
		"indices":    joinInts(unexpected),
		"unexpected": unexpected,
	}))
}

func (k *unevaluatedItemsValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	items, ok := v.([]any)
	if !ok {
		return
	}
	var unexpected []int
	covered := false
	for i, item := range items {
		if ann != nil && ann.items[i] {
			continue
		}
		child := loc.item(i)
		childRes, _ := k.node.evaluate(st, item, &child)
		res.addDetail(childRes)
		if childRes.Valid {
			ann.markItem(i)
			covered = true
		} else {
			unexpected = append(unexpected, i)
		}
	}
	if len(unexpected) > 0 {
		res.collectError(k.newError(st, KindUnevaluatedItems, "unevaluated_items_mismatch", "Unevaluated items at indices {indices} are not allowed", v, loc, map[string]any{
			"indices":    joinInts(unexpected),
			"unexpected": unexpected,
		}))
		return
	}
	if covered {
		res.addAnnotation("unevaluatedItems", true)
	}
}

func joinInts(values []int) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += strconv.Itoa(v)
	}
	return out
}
