package jsonschema

import (
	"encoding/base64"
	"fmt"

	"github.com/goccy/go-json"
)

// compileContent builds the contentEncoding/contentMediaType validators.
// Draft 7 asserts them; from 2019-09 on they are annotations and compile to
// nothing.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-a-vocabulary-for-the-conten
func compileContent(cc *compileContext, keyword string, value any) (keywordValidator, error) {
	name, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be a string at %q", ErrInvalidSchemaValue, keyword, cc.location)
	}
	if cc.draft != Draft7 {
		return nil, nil
	}
	switch keyword {
	case "contentEncoding":
		if name != "base64" {
			return nil, nil
		}
		return &contentEncodingValidator{keywordBase: newKeywordBase(cc, keyword), encoding: name}, nil
	case "contentMediaType":
		if name != "application/json" {
			return nil, nil
		}
		return &contentMediaTypeValidator{keywordBase: newKeywordBase(cc, keyword), mediaType: name}, nil
	}
	return nil, nil
}

type contentEncodingValidator struct {
	keywordBase
	encoding string
}

func (k *contentEncodingValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}

func (k *contentEncodingValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(k.newError(st, KindContentEncoding, "content_encoding_mismatch", "Value is not valid {encoding}", v, loc, map[string]any{
		"encoding": k.encoding,
	}))
}

type contentMediaTypeValidator struct {
	keywordBase
	mediaType string
}

func (k *contentMediaTypeValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	return json.Valid([]byte(s))
}

func (k *contentMediaTypeValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(k.newError(st, KindContentMediaType, "content_media_type_mismatch", "Value is not valid {media_type}", v, loc, map[string]any{
		"media_type": k.mediaType,
	}))
}
