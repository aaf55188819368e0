package jsonschema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileBooleanSchemas(t *testing.T) {
	yes := mustCompile(t, `true`)
	no := mustCompile(t, `false`)

	for _, doc := range []string{`null`, `42`, `"s"`, `[]`, `{}`} {
		instance := mustInstance(t, doc)
		assert.True(t, yes.IsValid(instance))
		assert.False(t, no.IsValid(instance))
	}

	errs := collectErrors(no, mustInstance(t, `1`))
	require.Len(t, errs, 1)
	assert.Equal(t, KindFalseSchema, errs[0].Kind)
}

func TestCompileRejectsMalformedKeywords(t *testing.T) {
	cases := map[string]string{
		"type not a type":      `{"type": "integerish"}`,
		"empty type list":      `{"type": []}`,
		"negative maxLength":   `{"maxLength": -1}`,
		"multipleOf zero":      `{"multipleOf": 0}`,
		"non-numeric minimum":  `{"minimum": "3"}`,
		"required non-strings": `{"required": [1]}`,
		"bad regex":            `{"pattern": "[unclosed"}`,
		"empty allOf":          `{"allOf": []}`,
	}
	for name, schemaJSON := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCompiler().Compile([]byte(schemaJSON))
			assert.Error(t, err)
		})
	}
}

func TestCompileInvalidJSON(t *testing.T) {
	_, err := NewCompiler().Compile([]byte(`{"type":`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaCompilation)
}

func TestUnknownDraftFailsBuild(t *testing.T) {
	_, err := NewCompiler().Compile([]byte(`{"$schema": "https://example.com/not-a-draft"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownDraft)
}

func TestUnknownKeywordsIgnored(t *testing.T) {
	schema := mustCompile(t, `{"x-internal": {"whatever": 1}, "type": "string"}`)
	assert.True(t, schema.IsValid(mustInstance(t, `"ok"`)))
	assert.False(t, schema.IsValid(mustInstance(t, `1`)))
}

func TestRefReplacesSiblingsInDraft7(t *testing.T) {
	schemaJSON := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"definitions": {"any": {}},
		"properties": {"a": {"$ref": "#/definitions/any", "type": "string"}}
	}`
	schema := mustCompile(t, schemaJSON)
	// The sibling type assertion is ignored next to $ref in drafts <= 7.
	assert.True(t, schema.IsValid(mustInstance(t, `{"a": 1}`)))

	schema2020 := mustCompile(t, `{
		"$defs": {"any": true},
		"properties": {"a": {"$ref": "#/$defs/any", "type": "string"}}
	}`)
	assert.False(t, schema2020.IsValid(mustInstance(t, `{"a": 1}`)))
}

func TestCustomFormat(t *testing.T) {
	compiler := NewCompiler().
		SetAssertFormat(FormatAssertionOn).
		RegisterFormat("even-length", func(s string) bool { return len(s)%2 == 0 })
	schema, err := compiler.Compile([]byte(`{"format": "even-length"}`))
	require.NoError(t, err)

	assert.True(t, schema.IsValid(mustInstance(t, `"ab"`)))
	assert.False(t, schema.IsValid(mustInstance(t, `"abc"`)))
	assert.True(t, schema.IsValid(mustInstance(t, `7`)), "format applies to strings only")
}

func TestUnknownFormat(t *testing.T) {
	schema := mustCompile(t, `{"format": "no-such-format"}`)
	assert.True(t, schema.IsValid(mustInstance(t, `"anything"`)), "unknown formats are accepted by default")

	_, err := NewCompiler().SetIgnoreUnknownFormats(false).Compile([]byte(`{"format": "no-such-format"}`))
	assert.Error(t, err)
}

func TestFormatAssertionModes(t *testing.T) {
	instance := mustInstance(t, `"not an email"`)

	off := mustCompile(t, `{"format": "email"}`)
	assert.True(t, off.IsValid(instance), "2020-12 treats format as an annotation by default")

	on, err := NewCompiler().SetAssertFormat(FormatAssertionOn).Compile([]byte(`{"format": "email"}`))
	require.NoError(t, err)
	assert.False(t, on.IsValid(instance))

	draft7, err := NewCompiler().Compile([]byte(`{"$schema": "http://json-schema.org/draft-07/schema#", "format": "email"}`))
	require.NoError(t, err)
	assert.False(t, draft7.IsValid(instance), "draft 7 asserts format by default")
}

type rangeKeyword struct {
	min, max float64
}

func (r rangeKeyword) Validate(instance any) error {
	n := numberRat(instance)
	if n == nil {
		return nil
	}
	f, _ := n.Float64()
	if f < r.min || f > r.max {
		return fmt.Errorf("value %v outside [%v, %v]", f, r.min, r.max)
	}
	return nil
}

func TestCustomKeyword(t *testing.T) {
	compiler := NewCompiler().RegisterKeyword("x-range", func(value any) (CustomKeyword, error) {
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, errors.New("x-range must be an object")
		}
		lo, _ := numberRat(obj["min"]).Float64()
		hi, _ := numberRat(obj["max"]).Float64()
		return rangeKeyword{min: lo, max: hi}, nil
	})

	schema, err := compiler.Compile([]byte(`{"x-range": {"min": 1, "max": 10}}`))
	require.NoError(t, err)

	assert.True(t, schema.IsValid(mustInstance(t, `5`)))
	assert.False(t, schema.IsValid(mustInstance(t, `11`)))

	errs := collectErrors(schema, mustInstance(t, `11`))
	require.Len(t, errs, 1)
	assert.Equal(t, KindCustom, errs[0].Kind)
}

func TestMaskedErrors(t *testing.T) {
	compiler := NewCompiler().SetMaskErrors(true)
	schema, err := compiler.Compile([]byte(`{"type": "integer"}`))
	require.NoError(t, err)

	verr := schema.Validate(mustInstance(t, `"secret-token"`))
	require.Error(t, verr)
	var e *ValidationError
	require.ErrorAs(t, verr, &e)
	assert.NotContains(t, e.Verbose(), "secret-token")
	assert.Contains(t, e.Verbose(), maskedValue)
}

func TestPropertiesSpecializationThreshold(t *testing.T) {
	small := map[string]any{}
	big := map[string]any{}
	for i := 0; i < propsMapThreshold+5; i++ {
		name := fmt.Sprintf("p%02d", i)
		big[name] = map[string]any{"type": "integer"}
		if i < 5 {
			small[name] = map[string]any{"type": "integer"}
		}
	}

	smallSchema, err := NewCompiler().CompileValue(map[string]any{"properties": small})
	require.NoError(t, err)
	bigSchema, err := NewCompiler().CompileValue(map[string]any{"properties": big})
	require.NoError(t, err)

	instance := map[string]any{"p01": int64(5), "p03": "not an integer"}
	assert.False(t, smallSchema.IsValid(instance))
	assert.False(t, bigSchema.IsValid(instance))
	assert.True(t, bigSchema.IsValid(map[string]any{"p01": int64(5)}))
}

func TestFusedPropertiesRequired(t *testing.T) {
	fused := mustCompile(t, `{
		"properties": {"a": {"type": "integer"}, "b": {"type": "string"}},
		"required": ["a"]
	}`)
	// The propertyNames sibling blocks fusion without changing semantics,
	// which makes it a reference for the unfused error stream.
	unfused := mustCompile(t, `{
		"properties": {"a": {"type": "integer"}, "b": {"type": "string"}},
		"required": ["a"],
		"propertyNames": true
	}`)

	for _, doc := range []string{
		`{"a": 1}`,
		`{"a": 1, "b": "s"}`,
		`{"b": "s"}`,
		`{"a": "wrong"}`,
		`{"a": 1, "b": 2}`,
	} {
		instance := mustInstance(t, doc)
		fusedErrs := collectErrors(fused, instance)
		plainErrs := collectErrors(unfused, instance)
		require.Equal(t, len(plainErrs), len(fusedErrs), "instance %s", doc)
		for i := range plainErrs {
			assert.Equal(t, plainErrs[i].Kind, fusedErrs[i].Kind)
			assert.Equal(t, plainErrs[i].InstanceLocation, fusedErrs[i].InstanceLocation)
		}
	}
}

func TestFusedAdditionalPropertiesFalse(t *testing.T) {
	schema := mustCompile(t, `{
		"properties": {"a": true},
		"required": ["a"],
		"additionalProperties": false
	}`)

	assert.True(t, schema.IsValid(mustInstance(t, `{"a": 1}`)))
	assert.False(t, schema.IsValid(mustInstance(t, `{"a": 1, "b": 2}`)))
	assert.False(t, schema.IsValid(mustInstance(t, `{}`)))

	errs := collectErrors(schema, mustInstance(t, `{"a": 1, "b": 2, "c": 3}`))
	require.Len(t, errs, 1)
	assert.Equal(t, KindAdditionalProperties, errs[0].Kind)
	assert.Equal(t, []string{"b", "c"}, errs[0].Params["unexpected"])
}
