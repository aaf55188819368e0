package jsonschema

import "iter"

// IsValid reports whether the instance satisfies the schema. This is the
// fast path: it stops at the first failure and does not allocate unless the
// schema uses unevaluatedProperties or unevaluatedItems.
func (s *Schema) IsValid(instance any) bool {
	st := newValidationState(s)
	return s.root.isValid(&st, instance, nil)
}

// Validate checks the instance and returns the first error encountered, or
// nil. The error is always a *ValidationError.
func (s *Schema) Validate(instance any) error {
	st := newValidationState(s)
	var first *ValidationError
	s.root.appendErrors(&st, instance, nil, nil, func(e *ValidationError) bool {
		first = e
		return false
	})
	if first != nil {
		return first
	}
	return nil
}

// IterErrors returns every validation error in deterministic order:
// depth-first over the schema following the draft's keyword table,
// left-to-right over arrays, lexical over object properties. Stopping the
// iteration early abandons the remaining walk.
func (s *Schema) IterErrors(instance any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		st := newValidationState(s)
		s.root.appendErrors(&st, instance, nil, nil, yield)
	}
}

// Evaluate produces the structured evaluation result for the instance, from
// which the flag, list and hierarchical output forms derive.
func (s *Schema) Evaluate(instance any) *EvaluationResult {
	st := newValidationState(s)
	res, _ := s.root.evaluate(&st, instance, nil)
	return res
}
