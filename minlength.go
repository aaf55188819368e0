package jsonschema

import "unicode/utf8"

// compileMinLength builds the minLength validator. Length is counted in
// Unicode code points, not bytes.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-minlength
func compileMinLength(cc *compileContext, value any) (keywordValidator, error) {
	limit, err := schemaInt(cc, "minLength", value)
	if err != nil {
		return nil, err
	}
	return &minLengthValidator{keywordBase: newKeywordBase(cc, "minLength"), limit: limit}, nil
}

type minLengthValidator struct {
	keywordBase
	limit int
}

func (k *minLengthValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	if len(s) >= k.limit*utf8.UTFMax {
		return true
	}
	return utf8.RuneCountInString(s) >= k.limit
}

func (k *minLengthValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(k.newError(st, KindMinLength, "min_length_mismatch", "Value should be at least {min_length} characters", v, loc, map[string]any{
		"min_length": k.limit,
	}))
}
