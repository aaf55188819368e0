package jsonschema

import (
	"strconv"
	"strings"
)

// InstanceLocation is one frame of a lazy instance path. Frames live on the
// call stack of the validation walk and link to their parent, so tracking a
// location costs no heap allocation until an error or annotation forces
// materialization. A nil *InstanceLocation is the instance root.
type InstanceLocation struct {
	parent *InstanceLocation
	key    string
	index  int
	isKey  bool
}

// prop extends the location with an object property segment.
func (l *InstanceLocation) prop(name string) InstanceLocation {
	return InstanceLocation{parent: l, key: name, isKey: true}
}

// item extends the location with an array index segment.
func (l *InstanceLocation) item(index int) InstanceLocation {
	return InstanceLocation{parent: l, index: index}
}

// String materializes the location as an RFC 6901 JSON Pointer.
func (l *InstanceLocation) String() string {
	if l == nil {
		return ""
	}
	var sb strings.Builder
	l.write(&sb)
	return sb.String()
}

func (l *InstanceLocation) write(sb *strings.Builder) {
	if l == nil {
		return
	}
	l.parent.write(sb)
	sb.WriteByte('/')
	if l.isKey {
		sb.WriteString(escapePointerToken(l.key))
	} else {
		sb.WriteString(strconv.Itoa(l.index))
	}
}

// escapePointerToken applies JSON Pointer escaping: "~" becomes "~0" and "/"
// becomes "~1", in that order.
func escapePointerToken(token string) string {
	if !strings.ContainsAny(token, "~/") {
		return token
	}
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// joinPointer appends pointer tokens to a base pointer.
func joinPointer(base string, tokens ...string) string {
	var sb strings.Builder
	sb.WriteString(base)
	for _, t := range tokens {
		sb.WriteByte('/')
		sb.WriteString(escapePointerToken(t))
	}
	return sb.String()
}

// refFrame records one reference traversal during evaluation. schemaBase is
// the schema location of the referenced subschema; evalBase is the
// evaluation path that led through the reference keyword. Together they let
// an error deep inside a referenced schema report an evaluation path that
// begins with the traversal (".../$ref/...") while its schema location stays
// the keyword's position in the source document.
type refFrame struct {
	schemaBase string
	evalBase   string
}

// refTracker is the stack of reference traversals of one evaluation call.
// The zero value is ready to use: with no frames, evaluation paths equal
// schema locations.
type refTracker struct {
	frames []refFrame
}

func (t *refTracker) push(schemaBase, evalBase string) {
	t.frames = append(t.frames, refFrame{schemaBase: schemaBase, evalBase: evalBase})
}

func (t *refTracker) pop() {
	t.frames = t.frames[:len(t.frames)-1]
}

// evaluationPath rewrites a schema location into the evaluation path that
// reached it, substituting the most recent reference frame whose schema base
// prefixes the location.
func (t *refTracker) evaluationPath(schemaLocation string) string {
	for i := len(t.frames) - 1; i >= 0; i-- {
		f := t.frames[i]
		if rest, ok := cutPointerPrefix(schemaLocation, f.schemaBase); ok {
			return f.evalBase + rest
		}
	}
	return schemaLocation
}

// cutPointerPrefix removes a pointer prefix, requiring the cut to land on a
// segment boundary.
func cutPointerPrefix(pointer, prefix string) (string, bool) {
	if prefix == "" {
		return pointer, true
	}
	rest, ok := strings.CutPrefix(pointer, prefix)
	if !ok {
		return "", false
	}
	if rest != "" && rest[0] != '/' {
		return "", false
	}
	return rest, true
}
