package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindNames(t *testing.T) {
	assert.Equal(t, "Type", KindType.String())
	assert.Equal(t, "OneOfMultipleValid", KindOneOfMultipleValid.String())
	assert.Equal(t, "BacktrackLimitExceeded", KindBacktrackLimitExceeded.String())
	assert.Equal(t, "Unknown", ErrorKind(999).String())
}

func TestReplaceTemplates(t *testing.T) {
	assert.Equal(t, "plain", replace("plain", nil))
	assert.Equal(t, "got 3", replace("got {n}", map[string]any{"n": 3}))
	assert.Equal(t, "a b a", replace("{x} b {x}", map[string]any{"x": "a"}))
	assert.Equal(t, "keep {missing}", replace("keep {missing}", map[string]any{"other": 1}))
	assert.Equal(t, "trailing {", replace("trailing {", map[string]any{"x": 1}))
}

func TestValidationErrorMessage(t *testing.T) {
	schema := mustCompile(t, `{"minimum": 10}`)
	verr := schema.Validate(mustInstance(t, `3`))
	require.Error(t, verr)

	var e *ValidationError
	require.ErrorAs(t, verr, &e)
	assert.Equal(t, KindMinimum, e.Kind)
	assert.Equal(t, "minimum", e.Keyword)
	assert.Contains(t, e.Error(), "3")
	assert.Contains(t, e.Error(), "10")
	assert.Contains(t, e.Verbose(), e.Error())
}

func TestVerboseIncludesInstance(t *testing.T) {
	schema := mustCompile(t, `{"type": "integer"}`)
	verr := schema.Validate(mustInstance(t, `{"leak": "value"}`))
	require.Error(t, verr)

	var e *ValidationError
	require.ErrorAs(t, verr, &e)
	assert.Contains(t, e.Verbose(), "leak")
}

func TestBranchErrorsAccessor(t *testing.T) {
	schema := mustCompile(t, `{"anyOf": [{"type": "string"}, {"type": "boolean"}]}`)
	errs := collectErrors(schema, mustInstance(t, `3`))
	require.Len(t, errs, 1)

	branches := errs[0].BranchErrors()
	require.Len(t, branches, 2)
	for _, b := range branches {
		require.NotEmpty(t, b.Causes)
		assert.Equal(t, KindType, b.Causes[0].Kind)
	}
}
