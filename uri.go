package jsonschema

import (
	"net/url"
	"strings"
)

// splitRef separates a reference into its base URI and fragment. The base
// keeps its original form; the fragment is returned without the leading "#".
func splitRef(ref string) (base, fragment string) {
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}

// isAbsoluteURI reports whether ref carries a scheme.
func isAbsoluteURI(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && u.IsAbs()
}

// resolveURI resolves a possibly relative reference against a base URI per
// RFC 3986. An empty base leaves the reference untouched.
func resolveURI(base, ref string) string {
	if base == "" {
		return ref
	}
	bu, err := url.Parse(base)
	if err != nil {
		return ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return bu.ResolveReference(ru).String()
}

// normalizeURI strips an empty fragment so that "https://x/s#" and
// "https://x/s" index the same resource.
func normalizeURI(uri string) string {
	return strings.TrimSuffix(uri, "#")
}

// isJSONPointer reports whether a fragment is a JSON Pointer rather than a
// plain-name anchor.
func isJSONPointer(fragment string) bool {
	return fragment == "" || strings.HasPrefix(fragment, "/")
}

// decodePointerSegment undoes percent-encoding a fragment segment may carry
// on top of JSON Pointer escaping.
func decodePointerSegment(segment string) string {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return decoded
}
