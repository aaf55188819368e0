package jsonschema

import "fmt"

// compileMultipleOf builds the multipleOf validator. The divisibility test
// runs over rationals so that decimal divisors like 0.01 behave
// mathematically; integer/integer pairs take a modulo fast path.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-multipleof
func compileMultipleOf(cc *compileContext, value any) (keywordValidator, error) {
	divisor, err := schemaRat(cc, "multipleOf", value)
	if err != nil {
		return nil, err
	}
	if divisor.Sign() <= 0 {
		return nil, fmt.Errorf("%w: \"multipleOf\" must be strictly greater than 0 at %q", ErrInvalidSchemaValue, cc.location)
	}
	return &multipleOfValidator{
		keywordBase: newKeywordBase(cc, "multipleOf"),
		divisor:     newNumericLimit(divisor),
	}, nil
}

type multipleOfValidator struct {
	keywordBase
	divisor numericLimit
}

func (k *multipleOfValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	if k.divisor.isI64 {
		switch t := v.(type) {
		case int:
			return int64(t)%k.divisor.i64 == 0
		case int64:
			return t%k.divisor.i64 == 0
		}
	}
	value := numberRat(v)
	if value == nil {
		return true
	}
	return isMultipleOf(value, k.divisor.rat)
}

func (k *multipleOfValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(k.newError(st, KindMultipleOf, "multiple_of_mismatch", "{value} should be a multiple of {multiple_of}", v, loc, map[string]any{
		"value":       fmt.Sprint(v),
		"multiple_of": formatRat(k.divisor.rat),
	}))
}
