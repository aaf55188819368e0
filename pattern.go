package jsonschema

import "fmt"

// compilePattern builds the pattern validator. An empty pattern matches
// every string, so it compiles to nothing at all.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-pattern
func compilePattern(cc *compileContext, value any) (keywordValidator, error) {
	pattern, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: \"pattern\" must be a string at %q", ErrInvalidSchemaValue, cc.location)
	}
	if pattern == "" {
		return nil, nil
	}
	re, err := compilePatternExpr(cc, pattern)
	if err != nil {
		return nil, err
	}
	return &patternValidator{keywordBase: newKeywordBase(cc, "pattern"), re: re}, nil
}

type patternValidator struct {
	keywordBase
	re compiledPattern
}

func (k *patternValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	matched, err := k.re.match(s)
	return err == nil && matched
}

func (k *patternValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	matched, err := k.re.match(s)
	if err != nil {
		return yield(k.newError(st, KindBacktrackLimitExceeded, "backtrack_limit_exceeded", "Pattern match exceeded the backtracking budget", v, loc, map[string]any{
			"pattern": k.re.source(),
		}))
	}
	if matched {
		return true
	}
	return yield(k.newError(st, KindPattern, "pattern_mismatch", "Value does not match the pattern {pattern}", v, loc, map[string]any{
		"pattern": k.re.source(),
	}))
}
