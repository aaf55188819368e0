package jsonschema

import "fmt"

// enumHashThreshold is the candidate count at or above which enum membership is
// answered from a hash set of canonical keys instead of a linear scan.
const enumHashThreshold = 16

// compileEnum builds the enum validator.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-enum
func compileEnum(cc *compileContext, value any) (keywordValidator, error) {
	candidates, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: \"enum\" must be an array at %q", ErrInvalidSchemaValue, cc.location)
	}
	if len(candidates) == 0 && cc.draft == Draft4 {
		return nil, fmt.Errorf("%w: \"enum\" must not be empty at %q", ErrInvalidSchemaValue, cc.location)
	}

	// An empty enum admits nothing; the linear validator handles it.
	kb := newKeywordBase(cc, "enum")
	if len(candidates) < enumHashThreshold {
		return &enumValidator{keywordBase: kb, candidates: candidates}, nil
	}

	keys := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		keys[canonicalKey(c)] = true
	}
	return &enumHashValidator{keywordBase: kb, candidates: candidates, keys: keys}, nil
}

type enumValidator struct {
	keywordBase
	candidates []any
}

func (k *enumValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	for _, c := range k.candidates {
		if deepEqual(v, c) {
			return true
		}
	}
	return false
}

func (k *enumValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(enumError(&k.keywordBase, st, v, loc))
}

// enumHashValidator answers membership from canonical keys; verdicts are
// identical to the linear variant.
type enumHashValidator struct {
	keywordBase
	candidates []any
	keys       map[string]bool
}

func (k *enumHashValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	return k.keys[canonicalKey(v)]
}

func (k *enumHashValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(enumError(&k.keywordBase, st, v, loc))
}

func enumError(kb *keywordBase, st *validationState, v any, loc *InstanceLocation) *ValidationError {
	return kb.newError(st, KindEnum, "enum_mismatch", "Value is not one of the allowed values", v, loc, map[string]any{
		"value": renderInstance(v, st.compiler.maskErrors),
	})
}
