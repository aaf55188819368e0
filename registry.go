package jsonschema

import (
	"fmt"
	"strconv"

	"github.com/kaptinlin/jsonpointer"
)

// Retriever fetches an external schema document by absolute URI. It is
// called synchronously during registry construction, never at evaluation
// time, and must be idempotent. Any error aborts the build.
type Retriever func(uri string) (any, error)

// Resource is one addressable schema document.
type Resource struct {
	URI      string
	Document any
	Draft    Draft
}

// NewResource decodes a JSON schema document into a Resource. The draft is
// taken from $schema when present, else left zero for the registry default.
func NewResource(uri string, data []byte) (Resource, error) {
	doc, err := UnmarshalInstance(data)
	if err != nil {
		return Resource{}, fmt.Errorf("%w: %s: %w", ErrSchemaCompilation, uri, err)
	}
	res := Resource{URI: uri, Document: doc}
	if obj, ok := doc.(map[string]any); ok {
		if meta, ok := obj["$schema"].(string); ok {
			draft, known := DraftFromURI(meta)
			if !known {
				return Resource{}, fmt.Errorf("%w: %s", ErrUnknownDraft, meta)
			}
			res.Draft = draft
		}
	}
	return res, nil
}

// RegistryConfig carries the options of a registry build.
type RegistryConfig struct {
	// DefaultDraft applies to resources whose documents carry no $schema.
	DefaultDraft Draft
	// Retriever resolves external references to documents not supplied up
	// front. Without one, any unresolved external reference fails the build.
	Retriever Retriever
}

// Registry is an immutable, indexed collection of schema resources. A
// compiled validator keeps a reference to the registry it was built with;
// the registry performs no I/O after construction.
type Registry struct {
	resources    map[string]*resource
	defaultDraft Draft
}

// resource is one registered document or embedded $id root, with its anchor
// index built at registry construction.
type resource struct {
	uri            string
	document       any
	draft          Draft
	embedded       bool // carved out of a parent document by an inner $id
	anchors        map[string]string // anchor name -> pointer within document
	dynamicAnchors map[string]string
}

// NewRegistry builds a registry from the given resources, eagerly resolving
// the transitive closure of external references through the configured
// retriever. Duplicate URIs are an error rather than last-wins.
func NewRegistry(resources []Resource, cfg *RegistryConfig) (*Registry, error) {
	if cfg == nil {
		cfg = &RegistryConfig{}
	}
	defaultDraft := cfg.DefaultDraft
	if defaultDraft == 0 {
		defaultDraft = DefaultDraft
	}

	r := &Registry{
		resources:    make(map[string]*resource),
		defaultDraft: defaultDraft,
	}
	for _, m := range metaResources() {
		// Meta-schemas are always addressable so $schema and meta-validation
		// never need the retriever.
		_ = r.add(m)
	}

	pending := make([]string, 0)
	for _, res := range resources {
		if isMetaSchemaURI(res.URI) {
			// The built-in meta-schemas win over user copies.
			continue
		}
		deps, err := r.register(res)
		if err != nil {
			return nil, err
		}
		pending = append(pending, deps...)
	}

	seen := make(map[string]bool)
	for len(pending) > 0 {
		uri := pending[0]
		pending = pending[1:]
		uri = normalizeURI(uri)
		if seen[uri] {
			continue
		}
		seen[uri] = true
		if _, ok := r.resources[uri]; ok {
			continue
		}
		if cfg.Retriever == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoRetriever, uri)
		}
		doc, err := cfg.Retriever(uri)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRetriever, uri, err)
		}
		deps, err := r.register(Resource{URI: uri, Document: doc})
		if err != nil {
			return nil, err
		}
		pending = append(pending, deps...)
	}

	return r, nil
}

// register indexes a resource and returns the external reference URIs its
// document mentions.
func (r *Registry) register(res Resource) ([]string, error) {
	draft := res.Draft
	if obj, ok := res.Document.(map[string]any); ok {
		if meta, ok := obj["$schema"].(string); ok {
			if d, known := DraftFromURI(meta); known {
				draft = d
			} else {
				return nil, fmt.Errorf("%w: %s", ErrUnknownDraft, meta)
			}
		}
	}
	if draft == 0 {
		draft = r.defaultDraft
	}

	root := &resource{
		uri:            normalizeURI(res.URI),
		document:       res.Document,
		draft:          draft,
		anchors:        make(map[string]string),
		dynamicAnchors: make(map[string]string),
	}
	if err := r.add(root); err != nil {
		return nil, err
	}

	s := &resourceScan{registry: r, draft: draft}
	s.walk(res.Document, root, root.uri, "")
	if s.err != nil {
		return nil, s.err
	}
	return s.external, nil
}

func (r *Registry) add(res *resource) error {
	if _, exists := r.resources[res.uri]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateResource, res.uri)
	}
	r.resources[res.uri] = res
	return nil
}

// resourceScan walks one document once, collecting anchors, embedded $id
// roots and external reference dependencies.
type resourceScan struct {
	registry *Registry
	draft    Draft
	external []string
	err      error
}

func (s *resourceScan) walk(v any, res *resource, baseURI, pointer string) {
	if s.err != nil {
		return
	}
	switch t := v.(type) {
	case map[string]any:
		idKey := s.draft.idKeyword()
		if id, ok := t[idKey].(string); ok && id != "" {
			base, fragment := splitRef(id)
			if base == "" && fragment != "" && s.draft <= Draft7 {
				// Fragment-form id is the pre-2019 anchor spelling.
				res.anchors[fragment] = pointer
			} else if base != "" {
				absolute := normalizeURI(resolveURI(baseURI, base))
				if absolute != res.uri {
					if pointer == "" {
						// A root-level $id makes the document addressable
						// under a second URI; anchors keep accumulating on
						// the same resource.
						if _, exists := s.registry.resources[absolute]; exists {
							s.err = fmt.Errorf("%w: %s", ErrDuplicateResource, absolute)
							return
						}
						s.registry.resources[absolute] = res
					} else {
						embedded := &resource{
							uri:            absolute,
							document:       t,
							draft:          s.draft,
							embedded:       true,
							anchors:        make(map[string]string),
							dynamicAnchors: make(map[string]string),
						}
						if err := s.registry.add(embedded); err != nil {
							s.err = err
							return
						}
						res = embedded
						pointer = ""
					}
				}
				baseURI = absolute
			}
		}
		if anchor, ok := t["$anchor"].(string); ok && s.draft >= Draft201909 {
			res.anchors[anchor] = pointer
		}
		if anchor, ok := t["$dynamicAnchor"].(string); ok && s.draft >= Draft202012 {
			res.dynamicAnchors[anchor] = pointer
			if _, taken := res.anchors[anchor]; !taken {
				res.anchors[anchor] = pointer
			}
		}
		if anchor, ok := t["$recursiveAnchor"].(bool); ok && anchor && s.draft == Draft201909 {
			res.dynamicAnchors[""] = pointer
		}
		for _, kw := range []string{"$ref", "$dynamicRef", "$recursiveRef"} {
			if ref, ok := t[kw].(string); ok {
				base, _ := splitRef(ref)
				if base != "" {
					s.external = append(s.external, resolveURI(baseURI, base))
				}
			}
		}
		for _, key := range sortedKeys(t) {
			s.walk(t[key], res, baseURI, joinPointer(pointer, key))
		}
	case []any:
		for i, e := range t {
			s.walk(e, res, baseURI, pointer+"/"+strconv.Itoa(i))
		}
	}
}

// Resolved is the result of a registry lookup: the referenced schema value
// plus a resolver whose scope ends at the owning resource.
type Resolved struct {
	Contents any
	Resolver *Resolver
}

// Lookup resolves an absolute URI, optionally carrying a JSON Pointer or
// anchor fragment, to a schema value.
func (r *Registry) Lookup(uri string) (Resolved, error) {
	base, fragment := splitRef(uri)
	res, ok := r.resources[normalizeURI(base)]
	if !ok {
		return Resolved{}, fmt.Errorf("%w: %s", ErrReferenceNotFound, uri)
	}

	pointer := fragment
	if !isJSONPointer(fragment) {
		p, ok := res.anchors[fragment]
		if !ok {
			return Resolved{}, fmt.Errorf("%w: %s", ErrReferenceNotFound, uri)
		}
		pointer = p
	}

	contents, err := resolvePointer(res.document, pointer)
	if err != nil {
		return Resolved{}, fmt.Errorf("%w: %s", ErrReferenceNotFound, uri)
	}
	return Resolved{
		Contents: contents,
		Resolver: &Resolver{registry: r, scope: []string{res.uri}},
	}, nil
}

// Resolve resolves a relative reference against a base URI.
func (r *Registry) Resolve(base, relative string) string {
	return resolveURI(base, relative)
}

func (r *Registry) resource(uri string) (*resource, bool) {
	res, ok := r.resources[normalizeURI(uri)]
	return res, ok
}

// resolvePointer walks a decoded document along an RFC 6901 pointer.
func resolvePointer(doc any, pointer string) (any, error) {
	if pointer == "" {
		return doc, nil
	}
	current := doc
	for _, segment := range jsonpointer.Parse(pointer) {
		segment = decodePointerSegment(segment)
		switch t := current.(type) {
		case map[string]any:
			next, ok := t[segment]
			if !ok {
				return nil, ErrReferenceNotFound
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(t) {
				return nil, ErrReferenceNotFound
			}
			current = t[idx]
		default:
			return nil, ErrReferenceNotFound
		}
	}
	return current, nil
}

// Resolver is a view over a registry carrying the scope stack of base URIs
// used to resolve relative references.
type Resolver struct {
	registry *Registry
	scope    []string
}

// Base returns the innermost base URI of the scope.
func (r *Resolver) Base() string {
	if len(r.scope) == 0 {
		return ""
	}
	return r.scope[len(r.scope)-1]
}

// push returns a resolver extended with a new base URI scope.
func (r *Resolver) push(baseURI string) *Resolver {
	scope := make([]string, len(r.scope), len(r.scope)+1)
	copy(scope, r.scope)
	return &Resolver{registry: r.registry, scope: append(scope, baseURI)}
}
