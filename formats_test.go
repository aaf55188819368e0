package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCheckers(t *testing.T) {
	cases := []struct {
		format string
		value  string
		ok     bool
	}{
		{"date-time", "2024-06-01T12:30:00Z", true},
		{"date-time", "2024-06-01t12:30:00+02:00", true},
		{"date-time", "2024-06-01 12:30:00Z", false},
		{"date-time", "2024-13-01T12:30:00Z", false},
		{"date", "2024-02-29", true},
		{"date", "2023-02-29", false},
		{"time", "23:59:60Z", true},
		{"time", "12:59:60Z", false},
		{"time", "12:30:00+01:00", true},
		{"time", "25:30:00Z", false},
		{"duration", "P1DT12H", true},
		{"duration", "P3W", true},
		{"duration", "P", false},
		{"duration", "P1DT", false},
		{"hostname", "example.com", true},
		{"hostname", "ex_ample.com", false},
		{"hostname", "-bad.com", false},
		{"email", "user@example.com", true},
		{"email", "not-an-email", false},
		{"ipv4", "192.168.0.1", true},
		{"ipv4", "192.168.0.256", false},
		{"ipv4", "01.2.3.4", false},
		{"ipv6", "::1", true},
		{"ipv6", "1.2.3.4", false},
		{"uri", "https://example.com/a?b=c", true},
		{"uri", "relative/path", false},
		{"uri-reference", "relative/path", true},
		{"uri-template", "/users/{id}", true},
		{"uri-template", "/users/{id", false},
		{"json-pointer", "/a/b~0c", true},
		{"json-pointer", "a/b", false},
		{"json-pointer", "/a~2b", false},
		{"relative-json-pointer", "0#", true},
		{"relative-json-pointer", "2/a", true},
		{"relative-json-pointer", "#", false},
		{"relative-json-pointer", "01", false},
		{"uuid", "3e4666bf-d5e5-4aa7-b8ce-cefe41c7568a", true},
		{"uuid", "3e4666bf-d5e5-4aa7-b8ce", false},
		{"regex", "^a+$", true},
		{"regex", "[unclosed", false},
	}

	for _, tc := range cases {
		check, ok := Formats[tc.format]
		if assert.True(t, ok, "format %q registered", tc.format) {
			assert.Equal(t, tc.ok, check(tc.value), "%s(%q)", tc.format, tc.value)
		}
	}
}

func TestFormatAssertionInSchema(t *testing.T) {
	compiler := NewCompiler().SetAssertFormat(FormatAssertionOn)
	schema, err := compiler.Compile([]byte(`{"format": "ipv4"}`))
	assert.NoError(t, err)

	assert.True(t, schema.IsValid(mustInstance(t, `"10.0.0.1"`)))
	assert.False(t, schema.IsValid(mustInstance(t, `"999.0.0.1"`)))

	errs := collectErrors(schema, mustInstance(t, `"999.0.0.1"`))
	if assert.Len(t, errs, 1) {
		assert.Equal(t, KindFormat, errs[0].Kind)
	}
}
