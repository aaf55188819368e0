package jsonschema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustResource(t *testing.T, uri, doc string) Resource {
	t.Helper()
	res, err := NewResource(uri, []byte(doc))
	require.NoError(t, err)
	return res
}

func TestRegistryDuplicateURI(t *testing.T) {
	_, err := NewRegistry([]Resource{
		mustResource(t, "https://example.com/a", `{"type": "integer"}`),
		mustResource(t, "https://example.com/a", `{"type": "string"}`),
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateResource)
}

func TestRegistryLookup(t *testing.T) {
	registry, err := NewRegistry([]Resource{
		mustResource(t, "https://example.com/s", `{
			"$defs": {"n": {"type": "integer", "$anchor": "num"}}
		}`),
	}, nil)
	require.NoError(t, err)

	root, err := registry.Lookup("https://example.com/s")
	require.NoError(t, err)
	assert.NotNil(t, root.Contents)
	assert.Equal(t, "https://example.com/s", root.Resolver.Base())

	byPointer, err := registry.Lookup("https://example.com/s#/$defs/n")
	require.NoError(t, err)
	sub, ok := byPointer.Contents.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", sub["type"])

	byAnchor, err := registry.Lookup("https://example.com/s#num")
	require.NoError(t, err)
	assert.Equal(t, byPointer.Contents, byAnchor.Contents)

	_, err = registry.Lookup("https://example.com/s#/$defs/missing")
	assert.ErrorIs(t, err, ErrReferenceNotFound)

	_, err = registry.Lookup("https://example.com/other")
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestRegistryResolve(t *testing.T) {
	registry, err := NewRegistry(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/dir/other", registry.Resolve("https://example.com/dir/base", "other"))
	assert.Equal(t, "https://other.org/x", registry.Resolve("https://example.com/dir/base", "https://other.org/x"))
}

func TestRetrieverClosure(t *testing.T) {
	retrieved := map[string]int{}
	retriever := func(uri string) (any, error) {
		retrieved[uri]++
		switch uri {
		case "https://example.com/a":
			return mustInstance(t, `{"$ref": "https://example.com/b"}`), nil
		case "https://example.com/b":
			return mustInstance(t, `{"type": "integer"}`), nil
		}
		return nil, errors.New("not found")
	}

	compiler := NewCompiler().SetRetriever(retriever)
	schema, err := compiler.Compile([]byte(`{"$ref": "https://example.com/a"}`), "https://example.com/root")
	require.NoError(t, err)

	assert.Equal(t, 1, retrieved["https://example.com/a"], "retriever called once per URI")
	assert.Equal(t, 1, retrieved["https://example.com/b"], "transitive closure is fetched")

	assert.True(t, schema.IsValid(mustInstance(t, `3`)))
	assert.False(t, schema.IsValid(mustInstance(t, `"3"`)))
}

func TestRetrieverFailureIsFatal(t *testing.T) {
	compiler := NewCompiler().SetRetriever(func(uri string) (any, error) {
		return nil, errors.New("boom")
	})
	_, err := compiler.Compile([]byte(`{"$ref": "https://example.com/missing"}`), "https://example.com/root")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriever)
	assert.Contains(t, err.Error(), "https://example.com/missing")
}

func TestMissingRetriever(t *testing.T) {
	_, err := NewCompiler().Compile([]byte(`{"$ref": "https://example.com/missing"}`), "https://example.com/root")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRetriever)
}

func TestReferenceNotFoundAtCompile(t *testing.T) {
	_, err := NewCompiler().Compile([]byte(`{"$ref": "#/$defs/nope"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestEmbeddedResource(t *testing.T) {
	schema := mustCompile(t, `{
		"$id": "https://example.com/root",
		"$defs": {
			"inner": {
				"$id": "https://example.com/inner",
				"type": "object",
				"properties": {"x": {"$ref": "leaf"}}
			},
			"leaf": {
				"$id": "https://example.com/leaf",
				"type": "integer"
			}
		},
		"$ref": "https://example.com/inner"
	}`)

	assert.True(t, schema.IsValid(mustInstance(t, `{"x": 3}`)))
	assert.False(t, schema.IsValid(mustInstance(t, `{"x": "3"}`)), "leaf resolves relative to the embedded inner resource")
}

func TestRegistryWithCompiler(t *testing.T) {
	registry, err := NewRegistry([]Resource{
		mustResource(t, "https://example.com/person", `{
			"type": "object",
			"properties": {"name": {"type": "string"}},
			"required": ["name"]
		}`),
	}, nil)
	require.NoError(t, err)

	schema, err := NewCompiler().SetRegistry(registry).
		Compile([]byte(`{"$ref": "https://example.com/person"}`))
	require.NoError(t, err)

	assert.True(t, schema.IsValid(mustInstance(t, `{"name": "ada"}`)))
	assert.False(t, schema.IsValid(mustInstance(t, `{}`)))
}
