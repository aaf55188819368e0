package jsonschema

import (
	"fmt"

	"github.com/goccy/go-json"
)

// compileItems builds the items validator. The keyword is the most
// draft-polymorphic one: up to draft 2019-09 an array value declares tuple
// validation with additionalItems covering the rest, while draft 2020-12
// splits the tuple form into prefixItems and leaves items to cover
// everything past the prefix.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-items
func compileItems(cc *compileContext, value any, obj map[string]any) (keywordValidator, error) {
	if tuple, isTuple := value.([]any); isTuple {
		if cc.draft >= Draft202012 {
			return nil, fmt.Errorf("%w: array form of \"items\" was replaced by \"prefixItems\" in draft 2020-12 at %q", ErrInvalidSchemaValue, cc.location)
		}
		return compileTupleItems(cc, tuple, obj)
	}

	start := 0
	if cc.draft >= Draft202012 {
		if prefix, ok := obj["prefixItems"].([]any); ok {
			start = len(prefix)
		}
	}
	return compileItemsSchema(cc, value, "items", start)
}

// compileTupleItems compiles the pre-2020 array form of items plus its
// additionalItems sibling.
func compileTupleItems(cc *compileContext, tuple []any, obj map[string]any) (keywordValidator, error) {
	nodes, err := compileSubschemaList(cc, "items", tuple)
	if err != nil {
		return nil, err
	}
	prefix := &prefixItemsValidator{
		keywordBase: newKeywordBase(cc, "items"),
		nodes:       nodes,
	}

	additional, present := obj["additionalItems"]
	if !present {
		return prefix, nil
	}
	rest, err := compileItemsSchema(cc, additional, "additionalItems", len(tuple))
	if err != nil {
		return nil, err
	}
	if rest == nil {
		return prefix, nil
	}
	return &tupleItemsValidator{prefix: prefix, rest: rest}, nil
}

// compileItemsSchema compiles a single-schema items (or additionalItems)
// covering indices from start. A subschema of just {"type": T} for a
// primitive T compiles to an inlined type loop on the hot path.
func compileItemsSchema(cc *compileContext, value any, keyword string, start int) (keywordValidator, error) {
	node, err := cc.compileSubschema(keyword)
	if err != nil {
		return nil, err
	}

	generic := &itemsValidator{
		keywordBase: newKeywordBase(cc, keyword),
		node:        node,
		start:       start,
	}

	if sub, isObj := value.(map[string]any); isObj && len(sub) == 1 {
		if typ, ok := sub["type"].(string); ok {
			switch typ {
			case "string", "number", "integer", "boolean":
				return &itemsTypeValidator{generic: generic, typ: typ, draft: cc.draft}, nil
			}
		}
	}
	return generic, nil
}

// itemsValidator applies one subschema to every item from a start index.
type itemsValidator struct {
	keywordBase
	node  *schemaNode
	start int
}

func (k *itemsValidator) isValid(st *validationState, v any, ann *annotations) bool {
	items, ok := v.([]any)
	if !ok {
		return true
	}
	for i := k.start; i < len(items); i++ {
		if !k.node.isValid(st, items[i], nil) {
			return false
		}
		ann.markItem(i)
	}
	return true
}

func (k *itemsValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	items, isArr := v.([]any)
	if !isArr {
		return true
	}
	if k.node.boolean != nil && !*k.node.boolean && k.start > 0 && len(items) > k.start {
		return yield(k.newError(st, KindAdditionalItems, "additional_items_mismatch", "Array should have at most {limit} items", v, loc, map[string]any{
			"limit":      k.start,
			"unexpected": len(items) - k.start,
		}))
	}
	for i := k.start; i < len(items); i++ {
		child := loc.item(i)
		ok := true
		failed := false
		k.node.appendErrors(st, items[i], &child, nil, func(e *ValidationError) bool {
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

func (k *itemsValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	items, isArr := v.([]any)
	if !isArr {
		return
	}
	if k.node.boolean != nil && !*k.node.boolean && k.start > 0 && len(items) > k.start {
		k.appendErrors(st, v, loc, ann, res.collectError)
		return
	}
	failed := false
	for i := k.start; i < len(items); i++ {
		child := loc.item(i)
		childRes, _ := k.node.evaluate(st, items[i], &child)
		res.addDetail(childRes)
		if childRes.Valid {
			ann.markItem(i)
		} else {
			failed = true
		}
	}
	if failed {
		res.collectError(k.newError(st, kindAggregate, "items_mismatch", "Array items do not match the schema", v, loc, nil))
		return
	}
	if len(items) > k.start {
		res.addAnnotation(k.name, true)
	}
}

// itemsTypeValidator is the inlined loop for items constrained to a single
// primitive type. Only the hot path is specialized; error reporting and
// structured output delegate to the generic validator so that output is
// byte-identical.
type itemsTypeValidator struct {
	generic *itemsValidator
	typ     string
	draft   Draft
}

func (k *itemsTypeValidator) keyword() string { return k.generic.name }

func (k *itemsTypeValidator) isValid(_ *validationState, v any, ann *annotations) bool {
	items, ok := v.([]any)
	if !ok {
		return true
	}
	for i := k.generic.start; i < len(items); i++ {
		switch k.typ {
		case "string":
			if _, ok := items[i].(string); !ok {
				return false
			}
		case "boolean":
			if _, ok := items[i].(bool); !ok {
				return false
			}
		case "number":
			if !isNumberValue(items[i]) {
				return false
			}
		case "integer":
			if getDataType(items[i], k.draft) != "integer" {
				return false
			}
		}
		ann.markItem(i)
	}
	return true
}

func (k *itemsTypeValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	return k.generic.appendErrors(st, v, loc, ann, yield)
}

func (k *itemsTypeValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	k.generic.evaluateTree(st, v, loc, res, ann)
}

func isNumberValue(v any) bool {
	switch v.(type) {
	case json.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// tupleItemsValidator pairs pre-2020 tuple validation with its
// additionalItems remainder.
type tupleItemsValidator struct {
	prefix *prefixItemsValidator
	rest   keywordValidator
}

func (k *tupleItemsValidator) keyword() string { return "items" }

func (k *tupleItemsValidator) isValid(st *validationState, v any, ann *annotations) bool {
	return k.prefix.isValid(st, v, ann) && k.rest.isValid(st, v, ann)
}

func (k *tupleItemsValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if !k.prefix.appendErrors(st, v, loc, ann, yield) {
		return false
	}
	return k.rest.appendErrors(st, v, loc, ann, yield)
}

func (k *tupleItemsValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	k.prefix.evaluateTree(st, v, loc, res, ann)
	if tree, ok := k.rest.(treeEvaluator); ok {
		tree.evaluateTree(st, v, loc, res, ann)
		return
	}
	k.rest.appendErrors(st, v, loc, ann, res.collectError)
}
