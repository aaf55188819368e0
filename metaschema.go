package jsonschema

import (
	"embed"
	"fmt"
	"sync"
)

//go:embed metaschemas/*.json
var metaSchemaFS embed.FS

var metaSchemaFiles = map[Draft]string{
	Draft4:      "metaschemas/draft4.json",
	Draft6:      "metaschemas/draft6.json",
	Draft7:      "metaschemas/draft7.json",
	Draft201909: "metaschemas/draft2019-09.json",
	Draft202012: "metaschemas/draft2020-12.json",
}

// isMetaSchemaURI reports whether a URI addresses one of the built-in
// meta-schemas.
func isMetaSchemaURI(uri string) bool {
	uri = normalizeURI(uri)
	for _, d := range []Draft{Draft4, Draft6, Draft7, Draft201909, Draft202012} {
		if uri == d.MetaSchemaURI() {
			return true
		}
	}
	return false
}

// metaResources parses the embedded meta-schemas once and returns them as
// pre-indexed resources. They are added to every registry, so $schema and
// meta-validation never need the retriever.
var metaResources = sync.OnceValue(func() []*resource {
	out := make([]*resource, 0, len(metaSchemaFiles))
	for draft, file := range metaSchemaFiles {
		data, err := metaSchemaFS.ReadFile(file)
		if err != nil {
			panic(fmt.Sprintf("jsonschema: embedded meta-schema %s: %v", file, err))
		}
		doc, err := UnmarshalInstance(data)
		if err != nil {
			panic(fmt.Sprintf("jsonschema: embedded meta-schema %s: %v", file, err))
		}
		res := &resource{
			uri:            draft.MetaSchemaURI(),
			document:       doc,
			draft:          draft,
			anchors:        map[string]string{},
			dynamicAnchors: map[string]string{},
		}
		switch draft {
		case Draft202012:
			res.anchors["meta"] = ""
			res.dynamicAnchors["meta"] = ""
		case Draft201909:
			res.dynamicAnchors[""] = ""
		}
		out = append(out, res)
	}
	return out
})

// metaValidators caches one compiled validator per draft meta-schema.
var metaValidators sync.Map // Draft -> *Schema

// metaValidator compiles (once) the validator for a draft's meta-schema.
func metaValidator(draft Draft) (*Schema, error) {
	if cached, ok := metaValidators.Load(draft); ok {
		return cached.(*Schema), nil
	}

	var doc any
	for _, res := range metaResources() {
		if res.draft == draft {
			doc = res.document
			break
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownDraft, draft)
	}

	c := NewCompiler().SetDefaultDraft(draft)
	c.skipMetaValidation = true
	s, err := c.CompileValue(doc, draft.MetaSchemaURI())
	if err != nil {
		return nil, err
	}
	metaValidators.Store(draft, s)
	return s, nil
}

// validateMetaDocument checks a schema document against its draft's
// meta-schema before compilation. Registry is accepted for interface
// symmetry with lookup-time validation but the built-in meta-schemas are
// self-contained.
func validateMetaDocument(doc any, draft Draft, _ *Registry) error {
	meta, err := metaValidator(draft)
	if err != nil {
		return err
	}
	if err := meta.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrMetaValidation, err)
	}
	return nil
}

// ValidateMeta validates a schema document against the meta-schema of the
// draft its $schema names, or of the given draft. The returned error wraps
// the same *ValidationError shape instance validation produces.
func ValidateMeta(doc any, drafts ...Draft) error {
	draft := DefaultDraft
	if len(drafts) > 0 {
		draft = drafts[0]
	} else if obj, ok := doc.(map[string]any); ok {
		if meta, ok := obj["$schema"].(string); ok {
			d, known := DraftFromURI(meta)
			if !known {
				return fmt.Errorf("%w: %s", ErrUnknownDraft, meta)
			}
			draft = d
		}
	}
	return validateMetaDocument(doc, draft, nil)
}
