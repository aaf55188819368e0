package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnevaluatedPropertiesCoverage(t *testing.T) {
	cases := []struct {
		name     string
		schema   string
		instance string
		valid    bool
	}{
		{
			name:     "properties evaluate",
			schema:   `{"properties": {"a": true}, "unevaluatedProperties": false}`,
			instance: `{"a": 1}`,
			valid:    true,
		},
		{
			name:     "patternProperties evaluate",
			schema:   `{"patternProperties": {"^x": true}, "unevaluatedProperties": false}`,
			instance: `{"x1": 1, "x2": 2}`,
			valid:    true,
		},
		{
			name:     "additionalProperties evaluates",
			schema:   `{"additionalProperties": {"type": "integer"}, "unevaluatedProperties": false}`,
			instance: `{"a": 1}`,
			valid:    true,
		},
		{
			name:     "nested ref evaluates",
			schema:   `{"$defs": {"p": {"properties": {"a": true}}}, "$ref": "#/$defs/p", "unevaluatedProperties": false}`,
			instance: `{"a": 1}`,
			valid:    true,
		},
		{
			name:     "satisfied anyOf branch evaluates",
			schema:   `{"anyOf": [{"properties": {"a": {"type": "integer"}}, "required": ["a"]}, {"properties": {"b": true}, "required": ["b"]}], "unevaluatedProperties": false}`,
			instance: `{"a": 1}`,
			valid:    true,
		},
		{
			name:     "every satisfied anyOf branch evaluates",
			schema:   `{"anyOf": [{"properties": {"a": true}, "required": ["a"]}, {"properties": {"b": true}, "required": ["b"]}], "unevaluatedProperties": false}`,
			instance: `{"a": 1, "b": 2}`,
			valid:    true,
		},
		{
			name:     "uncovered property fails",
			schema:   `{"properties": {"a": true}, "unevaluatedProperties": false}`,
			instance: `{"a": 1, "b": 2}`,
			valid:    false,
		},
		{
			name:     "then branch evaluates when if holds",
			schema:   `{"if": {"required": ["a"]}, "then": {"properties": {"a": true, "b": true}}, "unevaluatedProperties": false}`,
			instance: `{"a": 1, "b": 2}`,
			valid:    true,
		},
		{
			name:     "if annotations propagate",
			schema:   `{"if": {"properties": {"a": {"type": "integer"}}}, "unevaluatedProperties": false}`,
			instance: `{"a": 1}`,
			valid:    true,
		},
		{
			name:     "dependentSchemas evaluate",
			schema:   `{"dependentSchemas": {"a": {"properties": {"b": true}}}, "properties": {"a": true}, "unevaluatedProperties": false}`,
			instance: `{"a": 1, "b": 2}`,
			valid:    true,
		},
		{
			name:     "unevaluatedProperties with subschema",
			schema:   `{"properties": {"a": true}, "unevaluatedProperties": {"type": "integer"}}`,
			instance: `{"a": "anything", "extra": 3}`,
			valid:    true,
		},
		{
			name:     "unevaluatedProperties subschema rejects",
			schema:   `{"properties": {"a": true}, "unevaluatedProperties": {"type": "integer"}}`,
			instance: `{"a": 1, "extra": "nope"}`,
			valid:    false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			schema := mustCompile(t, tc.schema)
			instance := mustInstance(t, tc.instance)
			assertConsistent(t, schema, instance, tc.valid)
		})
	}
}

func TestUnevaluatedItemsCoverage(t *testing.T) {
	cases := []struct {
		name     string
		schema   string
		instance string
		valid    bool
	}{
		{
			name:     "prefixItems evaluate",
			schema:   `{"prefixItems": [true, true], "unevaluatedItems": false}`,
			instance: `[1, 2]`,
			valid:    true,
		},
		{
			name:     "tail beyond prefix fails",
			schema:   `{"prefixItems": [true], "unevaluatedItems": false}`,
			instance: `[1, 2]`,
			valid:    false,
		},
		{
			name:     "items evaluates everything",
			schema:   `{"items": {"type": "integer"}, "unevaluatedItems": false}`,
			instance: `[1, 2, 3]`,
			valid:    true,
		},
		{
			name:     "contains evaluates matches only",
			schema:   `{"contains": {"type": "integer"}, "unevaluatedItems": false}`,
			instance: `[1, "x"]`,
			valid:    false,
		},
		{
			name:     "contains plus unevaluated subschema",
			schema:   `{"contains": {"type": "integer"}, "unevaluatedItems": {"type": "string"}}`,
			instance: `[1, "x"]`,
			valid:    true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			schema := mustCompile(t, tc.schema)
			instance := mustInstance(t, tc.instance)
			assertConsistent(t, schema, instance, tc.valid)
		})
	}
}

func TestUnevaluatedItemsError(t *testing.T) {
	schema := mustCompile(t, `{"prefixItems": [true], "unevaluatedItems": false}`)
	errs := collectErrors(schema, mustInstance(t, `[1, 2, 3]`))
	require.Len(t, errs, 1)
	assert.Equal(t, KindUnevaluatedItems, errs[0].Kind)
	assert.Equal(t, []int{1, 2}, errs[0].Params["unexpected"])
}

func TestUnevaluatedDraft7Ignored(t *testing.T) {
	// unevaluatedProperties arrived in 2019-09; draft 7 treats it as an
	// unknown keyword.
	schema := mustCompile(t, `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"properties": {"a": true},
		"unevaluatedProperties": false
	}`)
	assert.True(t, schema.IsValid(mustInstance(t, `{"a": 1, "b": 2}`)))
}
