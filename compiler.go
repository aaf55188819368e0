package jsonschema

import (
	"fmt"
)

// PatternEngine selects the regular-expression engine used for pattern and
// patternProperties.
type PatternEngine int

const (
	// PatternEngineRE2 is the default engine: patterns are translated from
	// ECMA-262 to Go RE2 syntax at compile time.
	PatternEngineRE2 PatternEngine = iota
	// PatternEngineBacktracking uses a backtracking engine with full
	// ECMA-262 semantics and a match-steps budget; exceeding the budget
	// yields a BacktrackLimitExceeded error.
	PatternEngineBacktracking
)

// FormatAssertion controls whether format failures are errors.
type FormatAssertion int

const (
	// FormatAssertionDraftDefault asserts formats for drafts up to 7 and
	// treats them as annotations from 2019-09 on.
	FormatAssertionDraftDefault FormatAssertion = iota
	// FormatAssertionOn always asserts.
	FormatAssertionOn
	// FormatAssertionOff never asserts.
	FormatAssertionOff
)

// CustomKeyword validates instances for a user-registered keyword.
type CustomKeyword interface {
	Validate(instance any) error
}

// KeywordFactory builds a CustomKeyword from the keyword's value in the
// schema document. Returning an error fails compilation.
type KeywordFactory func(value any) (CustomKeyword, error)

// Compiler turns schema documents into immutable validators. A zero-config
// compiler obtained from NewCompiler works out of the box; configuration
// uses chained setters.
type Compiler struct {
	defaultDraft         Draft
	registry             *Registry
	retriever            Retriever
	defaultBaseURI       string
	assertFormat         FormatAssertion
	ignoreUnknownFormats bool
	patternEngine        PatternEngine
	backtrackLimit       int
	maxRefDepth          int
	maskErrors           bool
	skipMetaValidation   bool
	customFormats        map[string]func(string) bool
	customKeywords       map[string]KeywordFactory
}

// NewCompiler creates a compiler with default settings: draft 2020-12 for
// schemas without $schema, RE2 patterns, draft-default format assertion,
// unknown formats accepted, reference depth bounded at 64.
func NewCompiler() *Compiler {
	return &Compiler{
		defaultDraft:         DefaultDraft,
		ignoreUnknownFormats: true,
		backtrackLimit:       defaultBacktrackLimit,
		maxRefDepth:          64,
		customFormats:        make(map[string]func(string) bool),
		customKeywords:       make(map[string]KeywordFactory),
	}
}

// SetDefaultDraft sets the draft assumed for schemas without $schema.
func (c *Compiler) SetDefaultDraft(draft Draft) *Compiler {
	c.defaultDraft = draft
	return c
}

// SetRegistry supplies pre-registered schema resources for reference
// resolution.
func (c *Compiler) SetRegistry(registry *Registry) *Compiler {
	c.registry = registry
	return c
}

// SetRetriever installs a callback for fetching external schema documents at
// build time. Evaluation never invokes it.
func (c *Compiler) SetRetriever(retriever Retriever) *Compiler {
	c.retriever = retriever
	return c
}

// SetDefaultBaseURI sets the base URI against which a root schema without
// $id is addressed.
func (c *Compiler) SetDefaultBaseURI(baseURI string) *Compiler {
	c.defaultBaseURI = baseURI
	return c
}

// SetAssertFormat controls whether format is an assertion.
func (c *Compiler) SetAssertFormat(mode FormatAssertion) *Compiler {
	c.assertFormat = mode
	return c
}

// SetIgnoreUnknownFormats controls whether unknown format names are
// accepted (the default) or fail compilation.
func (c *Compiler) SetIgnoreUnknownFormats(ignore bool) *Compiler {
	c.ignoreUnknownFormats = ignore
	return c
}

// SetPatternEngine selects the regex engine for pattern keywords.
func (c *Compiler) SetPatternEngine(engine PatternEngine) *Compiler {
	c.patternEngine = engine
	return c
}

// SetBacktrackLimit bounds the step budget of the backtracking engine.
func (c *Compiler) SetBacktrackLimit(limit int) *Compiler {
	c.backtrackLimit = limit
	return c
}

// SetMaxReferenceDepth bounds reference recursion during evaluation.
func (c *Compiler) SetMaxReferenceDepth(depth int) *Compiler {
	c.maxRefDepth = depth
	return c
}

// SetMaskErrors replaces instance values in verbose error messages with an
// opaque placeholder, keeping sensitive data out of logs.
func (c *Compiler) SetMaskErrors(mask bool) *Compiler {
	c.maskErrors = mask
	return c
}

// RegisterFormat registers a named format predicate over strings.
func (c *Compiler) RegisterFormat(name string, validate func(string) bool) *Compiler {
	c.customFormats[name] = validate
	return c
}

// RegisterKeyword registers a custom keyword. The factory runs once per
// occurrence during compilation; failures of the returned validator surface
// as errors of kind Custom.
func (c *Compiler) RegisterKeyword(name string, factory KeywordFactory) *Compiler {
	c.customKeywords[name] = factory
	return c
}

// Compile builds a validator from a JSON schema document. An optional URI
// addresses the document for reference resolution when it has no $id.
func (c *Compiler) Compile(data []byte, uris ...string) (*Schema, error) {
	doc, err := UnmarshalInstance(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaCompilation, err)
	}
	return c.CompileValue(doc, uris...)
}

// CompileValue builds a validator from an already-decoded schema document.
func (c *Compiler) CompileValue(doc any, uris ...string) (*Schema, error) {
	uri := c.defaultBaseURI
	if len(uris) > 0 && uris[0] != "" {
		uri = uris[0]
	}
	if uri == "" {
		uri = inlineSchemaURI
	}

	// The document may also be registered in the user registry under its
	// $id; the freshly supplied copy wins to avoid a duplicate-URI error.
	docID := ""
	if obj, ok := doc.(map[string]any); ok {
		for _, key := range []string{"$id", "id"} {
			if id, ok := obj[key].(string); ok && id != "" {
				if base, _ := splitRef(id); base != "" {
					docID = normalizeURI(resolveURI(uri, base))
				}
				break
			}
		}
	}

	resources := []Resource{{URI: uri, Document: doc}}
	if c.registry != nil {
		for _, res := range c.registry.userResources() {
			resURI := normalizeURI(res.URI)
			if resURI == normalizeURI(uri) || (docID != "" && resURI == docID) {
				continue
			}
			resources = append(resources, res)
		}
	}
	registry, err := NewRegistry(resources, &RegistryConfig{
		DefaultDraft: c.defaultDraft,
		Retriever:    c.retriever,
	})
	if err != nil {
		return nil, err
	}

	root, ok := registry.resource(uri)
	if !ok {
		// The document's own $id relocated it.
		if obj, isObj := doc.(map[string]any); isObj {
			if id, hasID := obj["$id"].(string); hasID {
				root, ok = registry.resource(resolveURI(uri, id))
			}
		}
		if !ok {
			return nil, fmt.Errorf("%w: root resource lost", ErrSchemaCompilation)
		}
	}

	if !c.skipMetaValidation {
		if err := validateMetaDocument(doc, root.draft, registry); err != nil {
			return nil, err
		}
	}

	s := &Schema{
		compiler: c,
		registry: registry,
		draft:    root.draft,
		nodes:    make(map[string]*schemaNode),
	}

	// When the document declares its own $id, compile under that identity so
	// relative references resolve against it rather than the supplied URI.
	compileURI := root.uri
	if obj, ok := doc.(map[string]any); ok {
		if id, hasID := obj[root.draft.idKeyword()].(string); hasID && id != "" {
			if base, _ := splitRef(id); base != "" {
				candidate := normalizeURI(resolveURI(root.uri, base))
				if _, registered := registry.resource(candidate); registered {
					compileURI = candidate
				}
			}
		}
	}
	node, err := s.ensureNode(compileURI, "")
	if err != nil {
		return nil, err
	}
	s.root = node
	return s, nil
}

// inlineSchemaURI addresses schema documents compiled without any URI.
const inlineSchemaURI = "urn:jsonschema:inline"

// userResources lists the resources a registry was built from, excluding the
// always-present meta-schemas.
func (r *Registry) userResources() []Resource {
	out := make([]Resource, 0, len(r.resources))
	for uri, res := range r.resources {
		if isMetaSchemaURI(uri) {
			continue
		}
		if uri != res.uri || res.embedded {
			// Alias or embedded $id root of another entry; re-registration
			// re-derives these from the parent document.
			continue
		}
		out = append(out, Resource{URI: uri, Document: res.document, Draft: res.draft})
	}
	return out
}
