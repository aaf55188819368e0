package jsonschema

import (
	"sort"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// outputSchema compiles the embedded validation-output meta-schema.
func outputSchema(t *testing.T) *Schema {
	t.Helper()
	data, err := metaSchemaFS.ReadFile("metaschemas/output-v1.json")
	require.NoError(t, err)
	schema, err := NewCompiler().Compile(data)
	require.NoError(t, err)
	return schema
}

// roundTrip re-decodes a payload the way a consumer would see it.
func roundTrip(t *testing.T, v any) any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return mustInstance(t, string(data))
}

func TestEvaluateFlag(t *testing.T) {
	schema := mustCompile(t, `{"type": "integer"}`)
	assert.True(t, schema.Evaluate(mustInstance(t, `3`)).ToFlag().Valid)
	assert.False(t, schema.Evaluate(mustInstance(t, `"3"`)).ToFlag().Valid)
}

func TestEvaluateHierarchical(t *testing.T) {
	schema := mustCompile(t, `{
		"properties": {
			"a": {"type": "integer"},
			"b": {"type": "string"}
		}
	}`)
	result := schema.Evaluate(mustInstance(t, `{"a": 1, "b": 2}`))
	require.False(t, result.IsValid())

	unit := result.ToHierarchical()
	assert.False(t, unit.Valid)
	assert.Equal(t, "", unit.InstanceLocation)
	require.NotEmpty(t, unit.Details)

	var bUnit *OutputUnit
	for _, d := range unit.Details {
		if d.InstanceLocation == "/b" {
			bUnit = d
		}
	}
	require.NotNil(t, bUnit, "the failing property appears in the tree")
	assert.False(t, bUnit.Valid)
	assert.Equal(t, "/properties/b", bUnit.EvaluationPath)
}

func TestEvaluateListOrdering(t *testing.T) {
	schema := mustCompile(t, `{
		"properties": {
			"b": {"type": "integer"},
			"a": {"type": "integer"}
		}
	}`)
	unit := schema.Evaluate(mustInstance(t, `{"a": "x", "b": "y"}`)).ToList()

	paths := make([]string, 0, len(unit.Details))
	for _, d := range unit.Details {
		paths = append(paths, d.EvaluationPath+"|"+d.SchemaLocation+"|"+d.InstanceLocation)
	}
	assert.True(t, sort.StringsAreSorted(paths), "list entries are stably sorted: %v", paths)
}

func TestListOnlyAppliedNodes(t *testing.T) {
	schema := mustCompile(t, `{
		"properties": {"a": {"type": "integer"}, "unused": {"type": "string"}}
	}`)
	unit := schema.Evaluate(mustInstance(t, `{"a": 1}`)).ToList()
	for _, d := range unit.Details {
		assert.NotEqual(t, "/properties/unused", d.EvaluationPath, "absent properties did not apply")
	}
}

func TestOutputConformsToSpecSchema(t *testing.T) {
	validator := outputSchema(t)

	schemas := []string{
		`{"type": "integer"}`,
		`{"properties": {"a": {"minimum": 2}}, "required": ["b"]}`,
		`{"allOf": [{"properties": {"a": true}}], "unevaluatedProperties": false}`,
		`{"oneOf": [{"type": "number"}, {"type": "integer"}]}`,
		`{"$defs": {"n": {"minLength": 3}}, "properties": {"name": {"$ref": "#/$defs/n"}}}`,
	}
	instances := []string{`42`, `{"a": 1}`, `{"a": 1, "b": 2}`, `"x"`, `{"name": "ab"}`}

	for _, schemaJSON := range schemas {
		schema := mustCompile(t, schemaJSON)
		for _, instanceJSON := range instances {
			result := schema.Evaluate(mustInstance(t, instanceJSON))
			assert.True(t, validator.IsValid(roundTrip(t, result.ToList())),
				"list output of %s against %s conforms", schemaJSON, instanceJSON)
			assert.True(t, validator.IsValid(roundTrip(t, result.ToHierarchical())),
				"hierarchical output of %s against %s conforms", schemaJSON, instanceJSON)
			assert.True(t, validator.IsValid(roundTrip(t, result.ToFlag())),
				"flag output conforms")
		}
	}
}

func TestDroppedAnnotations(t *testing.T) {
	schema := mustCompile(t, `{
		"title": "thing",
		"properties": {"a": {"type": "integer"}}
	}`)
	unit := schema.Evaluate(mustInstance(t, `{"a": "no"}`)).ToHierarchical()
	require.False(t, unit.Valid)
	assert.Nil(t, unit.Annotations)
	assert.Contains(t, unit.DroppedAnnotations, "title")
}

func TestAnnotationsOnSuccess(t *testing.T) {
	schema := mustCompile(t, `{
		"title": "thing",
		"properties": {"a": true}
	}`)
	result := schema.Evaluate(mustInstance(t, `{"a": 1}`))
	require.True(t, result.IsValid())

	unit := result.ToHierarchical()
	assert.Equal(t, "thing", unit.Annotations["title"])

	anns := result.IterAnnotations()
	var keywords []string
	for _, a := range anns {
		keywords = append(keywords, a.Keyword)
	}
	assert.Contains(t, keywords, "properties")
}

func TestEvaluateIterErrors(t *testing.T) {
	schema := mustCompile(t, `{"properties": {"a": {"minimum": 2}}}`)
	result := schema.Evaluate(mustInstance(t, `{"a": 1}`))
	errs := result.IterErrors()
	require.NotEmpty(t, errs)

	found := false
	for _, e := range errs {
		if e.Kind == KindMinimum {
			found = true
		}
	}
	assert.True(t, found, "the leaf minimum failure is reachable from the tree")
}

func TestLocalizedOutput(t *testing.T) {
	bundle, err := GetI18n()
	require.NoError(t, err)
	localizer := bundle.NewLocalizer("zh-Hans")

	schema := mustCompile(t, `{"type": "integer"}`)
	verr := schema.Validate(mustInstance(t, `"x"`))
	require.Error(t, verr)

	var e *ValidationError
	require.ErrorAs(t, verr, &e)
	localized := e.Localize(localizer)
	assert.NotEqual(t, e.Error(), localized)
	assert.NotEmpty(t, localized)

	unit := schema.Evaluate(mustInstance(t, `"x"`)).ToLocalizeList(localizer)
	assert.NotEmpty(t, unit.Errors)
}
