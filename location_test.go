package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstanceLocationRendering(t *testing.T) {
	var root *InstanceLocation
	assert.Equal(t, "", root.String())

	a := root.prop("a")
	assert.Equal(t, "/a", a.String())

	idx := a.item(3)
	assert.Equal(t, "/a/3", idx.String())

	weird := idx.prop("x/y~z")
	assert.Equal(t, "/a/3/x~1y~0z", weird.String())
}

func TestEscapePointerToken(t *testing.T) {
	assert.Equal(t, "plain", escapePointerToken("plain"))
	assert.Equal(t, "a~1b", escapePointerToken("a/b"))
	assert.Equal(t, "a~0b", escapePointerToken("a~b"))
	assert.Equal(t, "~0~1", escapePointerToken("~/"))
}

func TestJoinPointer(t *testing.T) {
	assert.Equal(t, "/properties/a~1b", joinPointer("/properties", "a/b"))
	assert.Equal(t, "/a/b", joinPointer("", "a", "b"))
}

func TestCutPointerPrefix(t *testing.T) {
	rest, ok := cutPointerPrefix("/a/b/c", "/a/b")
	assert.True(t, ok)
	assert.Equal(t, "/c", rest)

	rest, ok = cutPointerPrefix("/a/b", "")
	assert.True(t, ok)
	assert.Equal(t, "/a/b", rest)

	_, ok = cutPointerPrefix("/ab/c", "/a")
	assert.False(t, ok, "prefix cuts only at segment boundaries")

	rest, ok = cutPointerPrefix("/a", "/a")
	assert.True(t, ok)
	assert.Equal(t, "", rest)
}

func TestRefTrackerEvaluationPath(t *testing.T) {
	var tracker refTracker
	assert.Equal(t, "/properties/x/type", tracker.evaluationPath("/properties/x/type"))

	tracker.push("/$defs/n", "/properties/name/$ref")
	assert.Equal(t, "/properties/name/$ref/minLength", tracker.evaluationPath("/$defs/n/minLength"))
	assert.Equal(t, "/properties/name/$ref", tracker.evaluationPath("/$defs/n"))

	// A nested reference shadows the outer frame for its own subtree.
	tracker.push("/$defs/inner", "/properties/name/$ref/items/$ref")
	assert.Equal(t, "/properties/name/$ref/items/$ref/type", tracker.evaluationPath("/$defs/inner/type"))

	tracker.pop()
	assert.Equal(t, "/properties/name/$ref/minLength", tracker.evaluationPath("/$defs/n/minLength"))

	tracker.pop()
	assert.Equal(t, "/$defs/n/minLength", tracker.evaluationPath("/$defs/n/minLength"))
}

func TestResolvePointer(t *testing.T) {
	doc := mustInstance(t, `{"a": {"b~c": [10, 20]}, "": 5}`)

	v, err := resolvePointer(doc, "/a/b~0c/1")
	assert.NoError(t, err)
	assert.True(t, deepEqual(v, mustInstance(t, `20`)))

	v, err = resolvePointer(doc, "")
	assert.NoError(t, err)
	assert.Equal(t, doc, v)

	_, err = resolvePointer(doc, "/missing")
	assert.Error(t, err)

	_, err = resolvePointer(doc, "/a/b~0c/9")
	assert.Error(t, err)
}
