package jsonschema

import "strings"

// Draft identifies one revision of the JSON Schema specification.
type Draft int

// Supported specification drafts.
const (
	Draft4      Draft = 4
	Draft6      Draft = 6
	Draft7      Draft = 7
	Draft201909 Draft = 2019
	Draft202012 Draft = 2020
)

// DefaultDraft is assumed when a schema carries no $schema keyword and the
// compiler was not configured otherwise.
const DefaultDraft = Draft202012

func (d Draft) String() string {
	switch d {
	case Draft4:
		return "draft-04"
	case Draft6:
		return "draft-06"
	case Draft7:
		return "draft-07"
	case Draft201909:
		return "draft/2019-09"
	case Draft202012:
		return "draft/2020-12"
	}
	return "unknown"
}

// MetaSchemaURI returns the canonical URI of the draft's meta-schema.
func (d Draft) MetaSchemaURI() string {
	switch d {
	case Draft4:
		return "http://json-schema.org/draft-04/schema"
	case Draft6:
		return "http://json-schema.org/draft-06/schema"
	case Draft7:
		return "http://json-schema.org/draft-07/schema"
	case Draft201909:
		return "https://json-schema.org/draft/2019-09/schema"
	case Draft202012:
		return "https://json-schema.org/draft/2020-12/schema"
	}
	return ""
}

// DraftFromURI maps a $schema URI to its draft. The scheme, a trailing "#"
// and a trailing slash are ignored, matching what schemas in the wild carry.
func DraftFromURI(uri string) (Draft, bool) {
	u := strings.TrimSuffix(strings.TrimSuffix(uri, "#"), "/")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "https://")
	switch u {
	case "json-schema.org/draft-04/schema":
		return Draft4, true
	case "json-schema.org/draft-06/schema":
		return Draft6, true
	case "json-schema.org/draft-07/schema":
		return Draft7, true
	case "json-schema.org/draft/2019-09/schema":
		return Draft201909, true
	case "json-schema.org/draft/2020-12/schema":
		return Draft202012, true
	}
	return 0, false
}

// idKeyword returns the identifier keyword of the draft: "id" for draft 4,
// "$id" afterwards.
func (d Draft) idKeyword() string {
	if d == Draft4 {
		return "id"
	}
	return "$id"
}

// refExclusive reports whether $ref suppresses sibling keywords, which it
// does in drafts up to and including 7.
func (d Draft) refExclusive() bool {
	return d <= Draft7
}

// keywordSpan bounds the drafts in which a keyword is recognized. A zero max
// means the keyword is still current.
type keywordSpan struct {
	min Draft
	max Draft
}

var keywordSpans = map[string]keywordSpan{
	"$ref":                  {min: Draft4},
	"$recursiveRef":         {min: Draft201909, max: Draft201909},
	"$dynamicRef":           {min: Draft202012},
	"type":                  {min: Draft4},
	"enum":                  {min: Draft4},
	"const":                 {min: Draft6},
	"multipleOf":            {min: Draft4},
	"maximum":               {min: Draft4},
	"exclusiveMaximum":      {min: Draft4}, // boolean form in draft 4, numeric from 6
	"minimum":               {min: Draft4},
	"exclusiveMinimum":      {min: Draft4},
	"maxLength":             {min: Draft4},
	"minLength":             {min: Draft4},
	"pattern":               {min: Draft4},
	"format":                {min: Draft4},
	"contentEncoding":       {min: Draft7},
	"contentMediaType":      {min: Draft7},
	"maxItems":              {min: Draft4},
	"minItems":              {min: Draft4},
	"uniqueItems":           {min: Draft4},
	"maxContains":           {min: Draft201909},
	"minContains":           {min: Draft201909},
	"prefixItems":           {min: Draft202012},
	"items":                 {min: Draft4},
	"additionalItems":       {min: Draft4, max: Draft201909},
	"contains":              {min: Draft6},
	"maxProperties":         {min: Draft4},
	"minProperties":         {min: Draft4},
	"required":              {min: Draft4},
	"dependencies":          {min: Draft4, max: Draft7},
	"dependentRequired":     {min: Draft201909},
	"dependentSchemas":      {min: Draft201909},
	"propertyNames":         {min: Draft6},
	"properties":            {min: Draft4},
	"patternProperties":     {min: Draft4},
	"additionalProperties":  {min: Draft4},
	"allOf":                 {min: Draft4},
	"anyOf":                 {min: Draft4},
	"oneOf":                 {min: Draft4},
	"not":                   {min: Draft4},
	"if":                    {min: Draft7},
	"unevaluatedItems":      {min: Draft201909},
	"unevaluatedProperties": {min: Draft201909},
}

// supports reports whether the draft recognizes the keyword as an assertion
// or applicator. Unrecognized keywords are ignored during compilation.
func (d Draft) supports(keyword string) bool {
	span, ok := keywordSpans[keyword]
	if !ok {
		return false
	}
	if d < span.min {
		return false
	}
	if span.max != 0 && d > span.max {
		return false
	}
	return true
}

// keywordOrder is the evaluation order shared by every draft; membership is
// filtered per draft through supports. Ordering matters twice: cheap
// assertions short-circuit before applicators, and the unevaluated pair must
// observe every other applicator of the same subschema.
var keywordOrder = []string{
	"$recursiveRef",
	"$dynamicRef",
	"$ref",
	"type",
	"enum",
	"const",
	"multipleOf",
	"maximum",
	"exclusiveMaximum",
	"minimum",
	"exclusiveMinimum",
	"maxLength",
	"minLength",
	"pattern",
	"format",
	"contentEncoding",
	"contentMediaType",
	"maxItems",
	"minItems",
	"uniqueItems",
	"prefixItems",
	"items",
	"additionalItems",
	"contains",
	"maxProperties",
	"minProperties",
	"required",
	"dependencies",
	"dependentRequired",
	"propertyNames",
	"properties",
	"patternProperties",
	"additionalProperties",
	"dependentSchemas",
	"allOf",
	"anyOf",
	"oneOf",
	"not",
	"if",
	"unevaluatedItems",
	"unevaluatedProperties",
}
