package jsonschema

import "fmt"

// compileFormat builds the format validator. Whether format asserts depends
// on the compiler options: by default drafts up to 7 assert and 2019-09+
// treat the keyword as an annotation. Unknown format names are accepted
// unless the compiler was told otherwise, in which case they fail the build.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-format
func compileFormat(cc *compileContext, value any) (keywordValidator, error) {
	name, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: \"format\" must be a string at %q", ErrInvalidSchemaValue, cc.location)
	}

	compiler := cc.schema.compiler
	check, known := compiler.customFormats[name]
	if !known {
		check, known = Formats[name]
	}
	if !known {
		if !compiler.ignoreUnknownFormats {
			return nil, fmt.Errorf("%w: unknown format %q at %q", ErrInvalidSchemaValue, name, cc.location)
		}
		return nil, nil
	}

	assert := false
	switch compiler.assertFormat {
	case FormatAssertionOn:
		assert = true
	case FormatAssertionOff:
		assert = false
	case FormatAssertionDraftDefault:
		assert = cc.draft <= Draft7
	}
	if !assert {
		return nil, nil
	}

	return &formatValidator{
		keywordBase: newKeywordBase(cc, "format"),
		format:      name,
		check:       check,
	}, nil
}

type formatValidator struct {
	keywordBase
	format string
	check  func(string) bool
}

func (k *formatValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	return k.check(s)
}

func (k *formatValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(k.newError(st, KindFormat, "format_mismatch", "Value does not match format '{format}'", v, loc, map[string]any{
		"format": k.format,
	}))
}
