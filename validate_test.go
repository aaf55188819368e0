package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, schemaJSON string) *Schema {
	t.Helper()
	schema, err := NewCompiler().Compile([]byte(schemaJSON))
	require.NoError(t, err, "schema should compile")
	return schema
}

func mustInstance(t *testing.T, instanceJSON string) any {
	t.Helper()
	v, err := UnmarshalInstance([]byte(instanceJSON))
	require.NoError(t, err, "instance should decode")
	return v
}

func collectErrors(s *Schema, instance any) []*ValidationError {
	var out []*ValidationError
	for e := range s.IterErrors(instance) {
		out = append(out, e)
	}
	return out
}

// assertConsistent checks the four entry points agree on the verdict.
func assertConsistent(t *testing.T, s *Schema, instance any, valid bool) {
	t.Helper()
	assert.Equal(t, valid, s.IsValid(instance), "IsValid")
	if valid {
		assert.NoError(t, s.Validate(instance), "Validate")
		assert.Empty(t, collectErrors(s, instance), "IterErrors")
	} else {
		assert.Error(t, s.Validate(instance), "Validate")
		assert.NotEmpty(t, collectErrors(s, instance), "IterErrors")
	}
	assert.Equal(t, valid, s.Evaluate(instance).ToFlag().Valid, "Evaluate flag")
}

func TestTypeInteger(t *testing.T) {
	schema := mustCompile(t, `{"type": "integer"}`)

	assertConsistent(t, schema, mustInstance(t, `42`), true)

	instance := mustInstance(t, `"42"`)
	assertConsistent(t, schema, instance, false)

	errs := collectErrors(schema, instance)
	require.Len(t, errs, 1)
	assert.Equal(t, KindType, errs[0].Kind)
	assert.Equal(t, "", errs[0].InstanceLocation)
	assert.Equal(t, "/type", errs[0].SchemaLocation)
	assert.Equal(t, "/type", errs[0].EvaluationPath)
}

func TestRequired(t *testing.T) {
	schema := mustCompile(t, `{"required": ["a", "b"]}`)

	errs := collectErrors(schema, mustInstance(t, `{"a": 1}`))
	require.Len(t, errs, 1)
	assert.Equal(t, KindRequired, errs[0].Kind)
	assert.Equal(t, "b", errs[0].Params["property"])

	errs = collectErrors(schema, mustInstance(t, `{}`))
	require.Len(t, errs, 2)
	assert.Equal(t, "a", errs[0].Params["property"])
	assert.Equal(t, "b", errs[1].Params["property"])
}

func TestRefEvaluationPath(t *testing.T) {
	schema := mustCompile(t, `{
		"$defs": {"n": {"type": "string", "minLength": 3}},
		"properties": {"name": {"$ref": "#/$defs/n"}}
	}`)

	instance := mustInstance(t, `{"name": "ab"}`)
	assertConsistent(t, schema, instance, false)

	errs := collectErrors(schema, instance)
	require.Len(t, errs, 1)
	assert.Equal(t, KindMinLength, errs[0].Kind)
	assert.Equal(t, "/name", errs[0].InstanceLocation)
	assert.Equal(t, "/$defs/n/minLength", errs[0].SchemaLocation)
	assert.Equal(t, "/properties/name/$ref/minLength", errs[0].EvaluationPath)
}

func TestUnevaluatedProperties(t *testing.T) {
	schema := mustCompile(t, `{
		"allOf": [{"properties": {"a": true}}],
		"unevaluatedProperties": false
	}`)

	assertConsistent(t, schema, mustInstance(t, `{"a": 1}`), true)

	instance := mustInstance(t, `{"a": 1, "b": 2}`)
	assertConsistent(t, schema, instance, false)

	errs := collectErrors(schema, instance)
	require.Len(t, errs, 1)
	assert.Equal(t, KindUnevaluatedProperties, errs[0].Kind)
	assert.Equal(t, []string{"b"}, errs[0].Params["unexpected"])
}

func TestOneOfAmbiguity(t *testing.T) {
	schema := mustCompile(t, `{"oneOf": [{"type": "number"}, {"type": "integer"}]}`)

	instance := mustInstance(t, `5`)
	assertConsistent(t, schema, instance, false)

	errs := collectErrors(schema, instance)
	require.Len(t, errs, 1)
	assert.Equal(t, KindOneOfMultipleValid, errs[0].Kind)

	assertConsistent(t, schema, mustInstance(t, `5.5`), true)
}

func TestOneOfNoneValid(t *testing.T) {
	schema := mustCompile(t, `{"oneOf": [{"type": "string"}, {"type": "boolean"}]}`)

	errs := collectErrors(schema, mustInstance(t, `5`))
	require.Len(t, errs, 1)
	assert.Equal(t, KindOneOfNotValid, errs[0].Kind)
	assert.Len(t, errs[0].Causes, 2, "both branch error lists are carried")
}

func TestDraftIntegerSemantics(t *testing.T) {
	instance := mustInstance(t, `1.0`)

	for _, uri := range []string{
		"http://json-schema.org/draft-06/schema#",
		"http://json-schema.org/draft-07/schema#",
		"https://json-schema.org/draft/2019-09/schema",
		"https://json-schema.org/draft/2020-12/schema",
	} {
		schema := mustCompile(t, `{"$schema": "`+uri+`", "type": "integer"}`)
		assert.True(t, schema.IsValid(instance), "1.0 is an integer under %s", uri)
	}

	draft4 := mustCompile(t, `{"$schema": "http://json-schema.org/draft-04/schema#", "type": "integer"}`)
	assert.False(t, draft4.IsValid(instance), "1.0 is not an integer under draft 4")
	assert.True(t, draft4.IsValid(mustInstance(t, `1`)))
}

func TestAnyOfAggregation(t *testing.T) {
	schema := mustCompile(t, `{"anyOf": [{"type": "string"}, {"minimum": 10}]}`)

	assertConsistent(t, schema, mustInstance(t, `"x"`), true)
	assertConsistent(t, schema, mustInstance(t, `12`), true)

	errs := collectErrors(schema, mustInstance(t, `5`))
	require.Len(t, errs, 1, "branch errors are aggregated, not surfaced")
	assert.Equal(t, KindAnyOf, errs[0].Kind)
	assert.Len(t, errs[0].Causes, 2)
}

func TestEmptyConstraints(t *testing.T) {
	schema := mustCompile(t, `{"required": [], "items": {}}`)
	assertConsistent(t, schema, mustInstance(t, `{}`), true)
	assertConsistent(t, schema, mustInstance(t, `[]`), true)
}

func TestCircularRef(t *testing.T) {
	schema := mustCompile(t, `{"$ref": "#"}`)
	assertConsistent(t, schema, mustInstance(t, `42`), true)
	assertConsistent(t, schema, mustInstance(t, `{"deep": [1, {"deeper": true}]}`), true)
}

func TestRecursiveRefTree(t *testing.T) {
	schema := mustCompile(t, `{
		"type": "object",
		"properties": {
			"value": {"type": "integer"},
			"next": {"$ref": "#"}
		},
		"required": ["value"]
	}`)

	assertConsistent(t, schema, mustInstance(t, `{"value": 1, "next": {"value": 2}}`), true)

	instance := mustInstance(t, `{"value": 1, "next": {"value": "two"}}`)
	assertConsistent(t, schema, instance, false)
	errs := collectErrors(schema, instance)
	require.Len(t, errs, 1)
	assert.Equal(t, "/next/value", errs[0].InstanceLocation)
}

func TestEmptyTypeListFailsBuild(t *testing.T) {
	_, err := NewCompiler().Compile([]byte(`{"type": []}`))
	require.Error(t, err)
}

func TestLargeEnumMatchesSmall(t *testing.T) {
	small := `{"enum": ["a", "b", "c"]}`
	large := `{"enum": ["a", "b", "c"`
	for i := 0; i < 40; i++ {
		large += `, "filler` + string(rune('a'+i%26)) + `"`
	}
	large += `]}`

	smallSchema := mustCompile(t, small)
	largeSchema := mustCompile(t, large)

	for _, doc := range []string{`"a"`, `"c"`, `"z"`, `5`, `null`, `[1]`} {
		instance := mustInstance(t, doc)
		if smallSchema.IsValid(instance) {
			assert.True(t, largeSchema.IsValid(instance), "instance %s", doc)
		}
	}
	assert.True(t, largeSchema.IsValid(mustInstance(t, `"fillerb"`)))
	assert.False(t, largeSchema.IsValid(mustInstance(t, `"nope"`)))
}

func TestIdempotentValidation(t *testing.T) {
	schema := mustCompile(t, `{"properties": {"a": {"minimum": 3}}, "required": ["b"]}`)
	instance := mustInstance(t, `{"a": 1}`)

	first := collectErrors(schema, instance)
	second := collectErrors(schema, instance)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Kind, second[i].Kind)
		assert.Equal(t, first[i].InstanceLocation, second[i].InstanceLocation)
		assert.Equal(t, first[i].SchemaLocation, second[i].SchemaLocation)
	}
}

func TestValidateStopsAtFirstError(t *testing.T) {
	schema := mustCompile(t, `{"required": ["a", "b", "c"]}`)
	err := schema.Validate(mustInstance(t, `{}`))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindRequired, verr.Kind)
	assert.Equal(t, "a", verr.Params["property"])
}

func TestPathRoundTrip(t *testing.T) {
	schema := mustCompile(t, `{
		"properties": {
			"a/b": {"type": "string"},
			"list": {"items": {"maximum": 2}}
		}
	}`)
	instance := mustInstance(t, `{"a/b": 5, "list": [1, 2, 3]}`)

	for _, e := range collectErrors(schema, instance) {
		got, err := resolvePointer(instance, e.InstanceLocation)
		require.NoError(t, err, "instance path %q resolves", e.InstanceLocation)
		assert.True(t, deepEqual(got, e.Instance), "path %q round-trips to the error payload", e.InstanceLocation)
	}
}

func TestEvaluationPathEqualsSchemaLocationWithoutRefs(t *testing.T) {
	schema := mustCompile(t, `{
		"properties": {"a": {"minimum": 3}},
		"items": {"type": "string"},
		"required": ["b"]
	}`)
	instance := mustInstance(t, `{"a": 1}`)

	for _, e := range collectErrors(schema, instance) {
		assert.Equal(t, e.SchemaLocation, e.EvaluationPath)
	}
}

func TestConcurrentValidation(t *testing.T) {
	schema := mustCompile(t, `{
		"$defs": {"leaf": {"type": "integer", "minimum": 0}},
		"properties": {"a": {"$ref": "#/$defs/leaf"}},
		"unevaluatedProperties": false
	}`)
	valid := mustInstance(t, `{"a": 3}`)
	invalid := mustInstance(t, `{"a": -1}`)

	done := make(chan bool, 32)
	for i := 0; i < 16; i++ {
		go func() {
			done <- schema.IsValid(valid)
		}()
		go func() {
			done <- !schema.IsValid(invalid)
		}()
	}
	for i := 0; i < 32; i++ {
		assert.True(t, <-done)
	}
}
