package jsonschema

import (
	"fmt"
	"sort"
)

// patternPropEntry pairs one compiled pattern with its subschema.
type patternPropEntry struct {
	re   compiledPattern
	node *schemaNode
}

// compilePatternPropEntries compiles the pattern/subschema pairs of a
// patternProperties object in deterministic (lexical) order.
func compilePatternPropEntries(cc *compileContext, value any) ([]patternPropEntry, error) {
	props, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: \"patternProperties\" must be an object at %q", ErrInvalidSchemaValue, cc.location)
	}
	patterns := make([]string, 0, len(props))
	for p := range props {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	entries := make([]patternPropEntry, len(patterns))
	for i, pattern := range patterns {
		re, err := compilePatternExpr(cc.sub("patternProperties"), pattern)
		if err != nil {
			return nil, err
		}
		node, err := cc.compileSubschema("patternProperties", pattern)
		if err != nil {
			return nil, err
		}
		entries[i] = patternPropEntry{re: re, node: node}
	}
	return entries, nil
}

// compilePatternProperties builds the patternProperties validator.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-patternproperties
func compilePatternProperties(cc *compileContext, value any) (keywordValidator, error) {
	entries, err := compilePatternPropEntries(cc, value)
	if err != nil {
		return nil, err
	}
	return &patternPropertiesValidator{
		keywordBase: newKeywordBase(cc, "patternProperties"),
		entries:     entries,
	}, nil
}

type patternPropertiesValidator struct {
	keywordBase
	entries []patternPropEntry
}

// matches reports whether any pattern of the keyword covers the name.
func (k *patternPropertiesValidator) matches(name string) bool {
	for _, e := range k.entries {
		if ok, err := e.re.match(name); err == nil && ok {
			return true
		}
	}
	return false
}

func (k *patternPropertiesValidator) isValid(st *validationState, v any, ann *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for name, value := range obj {
		for _, e := range k.entries {
			matched, err := e.re.match(name)
			if err != nil || !matched {
				continue
			}
			if !e.node.isValid(st, value, nil) {
				return false
			}
			ann.markProp(name)
		}
	}
	return true
}

func (k *patternPropertiesValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	obj, isObj := v.(map[string]any)
	if !isObj {
		return true
	}
	for _, name := range sortedKeys(obj) {
		value := obj[name]
		for _, e := range k.entries {
			matched, err := e.re.match(name)
			if err != nil {
				if !yield(k.newError(st, KindBacktrackLimitExceeded, "backtrack_limit_exceeded", "Pattern match exceeded the backtracking budget", name, loc, map[string]any{
					"pattern": e.re.source(),
				})) {
					return false
				}
				continue
			}
			if !matched {
				continue
			}
			child := loc.prop(name)
			ok := true
			failed := false
			e.node.appendErrors(st, value, &child, nil, func(err *ValidationError) bool {
				failed = true
				ok = yield(err)
				return ok
			})
			if !ok {
				return false
			}
			if !failed {
				ann.markProp(name)
			}
		}
	}
	return true
}

func (k *patternPropertiesValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	obj, isObj := v.(map[string]any)
	if !isObj {
		return
	}
	evaluated := []string{}
	failed := false
	for _, name := range sortedKeys(obj) {
		value := obj[name]
		for _, e := range k.entries {
			matched, err := e.re.match(name)
			if err != nil || !matched {
				continue
			}
			child := loc.prop(name)
			childRes, _ := e.node.evaluate(st, value, &child)
			res.addDetail(childRes)
			if childRes.Valid {
				evaluated = append(evaluated, name)
				ann.markProp(name)
			} else {
				failed = true
			}
		}
	}
	if failed {
		res.collectError(k.newError(st, kindAggregate, "pattern_properties_mismatch", "Properties matched by patterns do not match their schemas", v, loc, nil))
		return
	}
	res.addAnnotation("patternProperties", evaluated)
}
