package jsonschema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/go-i18n"
)

// === Build-time errors ===
var (
	// ErrSchemaCompilation is returned when a schema document cannot be compiled.
	ErrSchemaCompilation = errors.New("schema compilation failed")

	// ErrMetaValidation is returned when a schema fails its own meta-schema.
	ErrMetaValidation = errors.New("schema does not satisfy its meta-schema")

	// ErrUnknownDraft is returned when $schema names a draft this library does not support.
	ErrUnknownDraft = errors.New("unknown draft")

	// ErrDuplicateResource is returned when two registry resources share a URI.
	ErrDuplicateResource = errors.New("duplicate resource uri")

	// ErrReferenceNotFound is returned when a $ref target cannot be resolved.
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrRetriever is returned when the external retriever fails for a URI.
	ErrRetriever = errors.New("resource retrieval failed")

	// ErrRegexCompilation is returned when a pattern cannot be translated to
	// the configured regex engine.
	ErrRegexCompilation = errors.New("regex compilation failed")

	// ErrInvalidSchemaValue is returned when a keyword argument has the wrong shape.
	ErrInvalidSchemaValue = errors.New("invalid schema value")

	// ErrNoRetriever is returned when an external reference needs retrieval
	// but no retriever was configured.
	ErrNoRetriever = errors.New("no retriever configured")
)

// ErrorKind enumerates every failure a keyword can produce at evaluation
// time. Kinds are stable API; messages are not.
type ErrorKind int

// Evaluation-time error kinds.
const (
	KindType ErrorKind = iota + 1
	KindRequired
	KindAdditionalProperties
	KindUnevaluatedProperties
	KindAdditionalItems
	KindUnevaluatedItems
	KindMaxLength
	KindMinLength
	KindMaxItems
	KindMinItems
	KindMaxProperties
	KindMinProperties
	KindMaxContains
	KindMinContains
	KindMaximum
	KindMinimum
	KindExclusiveMaximum
	KindExclusiveMinimum
	KindMultipleOf
	KindPattern
	KindFormat
	KindEnum
	KindConst
	KindContains
	KindUniqueItems
	KindFalseSchema
	KindAnyOf
	KindOneOfNotValid
	KindOneOfMultipleValid
	KindNot
	KindPropertyNames
	KindContentEncoding
	KindContentMediaType
	KindReferencing
	KindBacktrackLimitExceeded
	KindFromUtf8
	KindCustom
)

// kindAggregate marks errors that carry no keyword failure of their own: the
// summary errors applicators attach to structured result nodes, and the
// per-branch containers that hold a combinator branch's errors in the Causes
// of AnyOf and OneOfNotValid errors. Validate and IterErrors never yield them
// at the top level.
const kindAggregate ErrorKind = 0

var errorKindNames = map[ErrorKind]string{
	KindType:                   "Type",
	KindRequired:               "Required",
	KindAdditionalProperties:   "AdditionalProperties",
	KindUnevaluatedProperties:  "UnevaluatedProperties",
	KindAdditionalItems:        "AdditionalItems",
	KindUnevaluatedItems:       "UnevaluatedItems",
	KindMaxLength:              "MaxLength",
	KindMinLength:              "MinLength",
	KindMaxItems:               "MaxItems",
	KindMinItems:               "MinItems",
	KindMaxProperties:          "MaxProperties",
	KindMinProperties:          "MinProperties",
	KindMaxContains:            "MaxContains",
	KindMinContains:            "MinContains",
	KindMaximum:                "Maximum",
	KindMinimum:                "Minimum",
	KindExclusiveMaximum:       "ExclusiveMaximum",
	KindExclusiveMinimum:       "ExclusiveMinimum",
	KindMultipleOf:             "MultipleOf",
	KindPattern:                "Pattern",
	KindFormat:                 "Format",
	KindEnum:                   "Enum",
	KindConst:                  "Const",
	KindContains:               "Contains",
	KindUniqueItems:            "UniqueItems",
	KindFalseSchema:            "FalseSchema",
	KindAnyOf:                  "AnyOf",
	KindOneOfNotValid:          "OneOfNotValid",
	KindOneOfMultipleValid:     "OneOfMultipleValid",
	KindNot:                    "Not",
	KindPropertyNames:          "PropertyNames",
	KindContentEncoding:        "ContentEncoding",
	KindContentMediaType:       "ContentMediaType",
	KindReferencing:            "Referencing",
	KindBacktrackLimitExceeded: "BacktrackLimitExceeded",
	KindFromUtf8:               "FromUtf8",
	KindCustom:                 "Custom",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ValidationError is one evaluation-time failure. Locations are materialized
// JSON Pointers; EvaluationPath differs from SchemaLocation exactly when a
// reference was traversed on the way to the producing keyword.
type ValidationError struct {
	Kind             ErrorKind       `json:"kind"`
	Keyword          string          `json:"keyword"`
	Code             string          `json:"code"`
	Message          string          `json:"message"`
	Params           map[string]any  `json:"params,omitempty"`
	InstanceLocation string          `json:"instanceLocation"`
	SchemaLocation   string          `json:"schemaLocation"`
	EvaluationPath   string          `json:"evaluationPath"`
	Instance         any             `json:"-"`
	Causes           []*ValidationError `json:"causes,omitempty"`

	masked bool
}

// newValidationError creates an error with the given kind, keyword, i18n
// code and template message. Locations are stamped by the emitting node.
func newValidationError(kind ErrorKind, keyword, code, message string, params ...map[string]any) *ValidationError {
	e := &ValidationError{
		Kind:    kind,
		Keyword: keyword,
		Code:    code,
		Message: message,
	}
	if len(params) > 0 {
		e.Params = params[0]
	}
	return e
}

func (e *ValidationError) Error() string {
	return replace(e.Message, e.Params)
}

// Verbose returns the one-line message followed by the failing sub-instance
// rendered as JSON. When the validator was built with masking, the instance
// rendering is replaced by an opaque placeholder.
func (e *ValidationError) Verbose() string {
	return fmt.Sprintf("%s (instance: %s, at %q)", e.Error(), renderInstance(e.Instance, e.masked), e.InstanceLocation)
}

// Localize renders the message through the provided localizer, falling back
// to the built-in English template.
func (e *ValidationError) Localize(localizer *i18n.Localizer) string {
	if localizer != nil {
		if msg := localizer.Get(e.Code, i18n.Vars(e.Params)); msg != "" && msg != e.Code {
			return msg
		}
	}
	return e.Error()
}

// BranchErrors returns the per-branch error lists a combinator failure
// aggregated, or nil for non-combinator kinds.
func (e *ValidationError) BranchErrors() []*ValidationError {
	return e.Causes
}

// replace substitutes {name} placeholders in a message template.
func replace(message string, params map[string]any) string {
	if len(params) == 0 {
		return message
	}
	var sb strings.Builder
	rest := message
	for {
		i := strings.IndexByte(rest, '{')
		if i < 0 {
			sb.WriteString(rest)
			return sb.String()
		}
		j := strings.IndexByte(rest[i:], '}')
		if j < 0 {
			sb.WriteString(rest)
			return sb.String()
		}
		sb.WriteString(rest[:i])
		name := rest[i+1 : i+j]
		if v, ok := params[name]; ok {
			sb.WriteString(fmt.Sprint(v))
		} else {
			sb.WriteString(rest[i : i+j+1])
		}
		rest = rest[i+j+1:]
	}
}
