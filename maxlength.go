package jsonschema

import "unicode/utf8"

// compileMaxLength builds the maxLength validator. Length is counted in
// Unicode code points, not bytes.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-maxlength
func compileMaxLength(cc *compileContext, value any) (keywordValidator, error) {
	limit, err := schemaInt(cc, "maxLength", value)
	if err != nil {
		return nil, err
	}
	return &maxLengthValidator{keywordBase: newKeywordBase(cc, "maxLength"), limit: limit}, nil
}

type maxLengthValidator struct {
	keywordBase
	limit int
}

func (k *maxLengthValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	return len(s) <= k.limit || utf8.RuneCountInString(s) <= k.limit
}

func (k *maxLengthValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(k.newError(st, KindMaxLength, "max_length_mismatch", "Value should be at most {max_length} characters", v, loc, map[string]any{
		"max_length": k.limit,
	}))
}
