package jsonschema

// compileContains builds the contains validator together with its
// maxContains/minContains siblings, which only apply when contains is
// present. Items matched by contains count as evaluated from draft 2019-09.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-contains
func compileContains(cc *compileContext, value any, obj map[string]any) (keywordValidator, error) {
	node, err := cc.compileSubschema("contains")
	if err != nil {
		return nil, err
	}

	v := &containsValidator{
		keywordBase: newKeywordBase(cc, "contains"),
		node:        node,
		min:         1,
		max:         -1,
		draft:       cc.draft,
	}
	if cc.draft >= Draft201909 {
		if raw, ok := obj["minContains"]; ok {
			min, err := schemaInt(cc, "minContains", raw)
			if err != nil {
				return nil, err
			}
			v.min = min
			v.minLocation = joinPointer(cc.location, "minContains")
		}
		if raw, ok := obj["maxContains"]; ok {
			max, err := schemaInt(cc, "maxContains", raw)
			if err != nil {
				return nil, err
			}
			v.max = max
			v.maxLocation = joinPointer(cc.location, "maxContains")
		}
	}
	return v, nil
}

type containsValidator struct {
	keywordBase
	node        *schemaNode
	min         int
	max         int // -1 when unbounded
	minLocation string
	maxLocation string
	draft       Draft
}

// count tallies matching items, marking them evaluated, stopping early when
// the verdict cannot change and bookkeeping is off.
func (k *containsValidator) count(st *validationState, items []any, ann *annotations) int {
	matched := 0
	for i, item := range items {
		if !k.node.isValid(st, item, nil) {
			continue
		}
		matched++
		ann.markItem(i)
		if ann == nil && k.max < 0 && matched >= k.min {
			return matched
		}
	}
	return matched
}

func (k *containsValidator) isValid(st *validationState, v any, ann *annotations) bool {
	items, ok := v.([]any)
	if !ok {
		return true
	}
	matched := k.count(st, items, ann)
	if matched < k.min {
		return false
	}
	return k.max < 0 || matched <= k.max
}

func (k *containsValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	items, isArr := v.([]any)
	if !isArr {
		return true
	}
	matched := k.count(st, items, ann)
	if matched < k.min {
		if k.min == 1 && k.minLocation == "" {
			return yield(k.newError(st, KindContains, "contains_mismatch", "Array should contain at least one matching item", v, loc, nil))
		}
		e := k.newError(st, KindMinContains, "min_contains_mismatch", "Array should contain at least {min_contains} matching items", v, loc, map[string]any{
			"min_contains": k.min,
			"matched":      matched,
		})
		e.SchemaLocation = k.minLocation
		e.EvaluationPath = st.refs.evaluationPath(k.minLocation)
		e.Keyword = "minContains"
		return yield(e)
	}
	if k.max >= 0 && matched > k.max {
		e := k.newError(st, KindMaxContains, "max_contains_mismatch", "Array should contain at most {max_contains} matching items", v, loc, map[string]any{
			"max_contains": k.max,
			"matched":      matched,
		})
		e.SchemaLocation = k.maxLocation
		e.EvaluationPath = st.refs.evaluationPath(k.maxLocation)
		e.Keyword = "maxContains"
		return yield(e)
	}
	return true
}

func (k *containsValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	items, isArr := v.([]any)
	if !isArr {
		return
	}
	matchedIdx := []int{}
	for i, item := range items {
		child := loc.item(i)
		childRes, _ := k.node.evaluate(st, item, &child)
		if childRes.Valid {
			res.addDetail(childRes)
			matchedIdx = append(matchedIdx, i)
			ann.markItem(i)
		}
	}
	k.appendErrors(st, v, loc, nil, res.collectError)
	if res.Valid {
		if len(matchedIdx) == len(items) {
			res.addAnnotation("contains", true)
		} else {
			res.addAnnotation("contains", matchedIdx)
		}
	}
}
