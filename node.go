package jsonschema

import (
	"fmt"
	"sort"
	"sync"
)

// Schema is a compiled validator. It is immutable after compilation and safe
// for concurrent use; IsValid, Validate, IterErrors and Evaluate may run in
// parallel on the same Schema.
type Schema struct {
	compiler *Compiler
	registry *Registry
	draft    Draft
	root     *schemaNode

	mu    sync.Mutex
	nodes map[string]*schemaNode
}

// Draft returns the draft the schema was compiled under.
func (s *Schema) Draft() Draft { return s.draft }

// Registry returns the registry the schema resolves references against.
func (s *Schema) Registry() *Registry { return s.registry }

// ensureNode returns the compiled node for a (resource, pointer) pair,
// compiling it on first use. Nodes register themselves before their keywords
// compile, so cyclic references resolve to the in-progress node instead of
// recursing forever. Compilation is single-threaded; evaluation-time callers
// go through nodeAtRuntime.
func (s *Schema) ensureNode(resourceURI, pointer string) (*schemaNode, error) {
	key := resourceURI + "#" + pointer
	if node, ok := s.nodes[key]; ok {
		return node, nil
	}

	res, ok := s.registry.resource(resourceURI)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrReferenceNotFound, resourceURI)
	}
	value, err := resolvePointer(res.document, pointer)
	if err != nil {
		return nil, fmt.Errorf("%w: %s#%s", ErrReferenceNotFound, resourceURI, pointer)
	}

	// A subschema declaring its own $id is the root of an embedded resource
	// the registry indexed during its scan; compile it under that identity
	// so relative references below it resolve against the right base.
	if obj, isObj := value.(map[string]any); isObj && pointer != "" {
		if id, hasID := obj[res.draft.idKeyword()].(string); hasID && id != "" {
			if base, _ := splitRef(id); base != "" {
				embeddedURI := normalizeURI(resolveURI(resourceURI, base))
				if embeddedURI != normalizeURI(resourceURI) {
					if _, exists := s.registry.resource(embeddedURI); exists {
						node, err := s.ensureNode(embeddedURI, "")
						if err != nil {
							return nil, err
						}
						s.nodes[key] = node
						return node, nil
					}
				}
			}
		}
	}

	node := &schemaNode{
		schema:      s,
		resourceURI: resourceURI,
		location:    pointer,
		draft:       res.draft,
	}
	s.nodes[key] = node

	cc := &compileContext{
		schema:   s,
		res:      res,
		baseURI:  resourceURI,
		location: pointer,
		draft:    res.draft,
	}
	if err := node.compile(cc, value); err != nil {
		delete(s.nodes, key)
		return nil, err
	}
	return node, nil
}

// nodeAtRuntime is the evaluation-time entry to the node cache: dynamic
// references may reach subschemas nothing compiled eagerly. The mutex makes
// the first compilation publication-safe; later calls hit the cache.
func (s *Schema) nodeAtRuntime(resourceURI, pointer string) (*schemaNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureNode(resourceURI, pointer)
}

// compileContext threads resource, base URI, location and draft through
// keyword compilation.
type compileContext struct {
	schema   *Schema
	res      *resource
	baseURI  string
	location string
	draft    Draft
}

// sub extends the context location by pointer tokens.
func (cc *compileContext) sub(tokens ...string) *compileContext {
	next := *cc
	next.location = joinPointer(cc.location, tokens...)
	return &next
}

// compileSubschema compiles the subschema at the given tokens below the
// current location.
func (cc *compileContext) compileSubschema(tokens ...string) (*schemaNode, error) {
	sub := cc.sub(tokens...)
	return cc.schema.ensureNode(sub.baseURI, sub.location)
}

// annotations tracks which properties and items the applicators of one
// subschema evaluated. It exists only while an enclosing schema carries
// unevaluatedProperties or unevaluatedItems; a nil *annotations disables all
// bookkeeping so the plain validation path never pays for it.
type annotations struct {
	props map[string]bool
	items map[int]bool
}

func newAnnotations() *annotations {
	return &annotations{props: make(map[string]bool), items: make(map[int]bool)}
}

// branch returns a scratch annotation set for a combinator branch, or nil
// when bookkeeping is off.
func (a *annotations) branch() *annotations {
	if a == nil {
		return nil
	}
	return newAnnotations()
}

func (a *annotations) markProp(name string) {
	if a != nil {
		a.props[name] = true
	}
}

func (a *annotations) markItem(index int) {
	if a != nil {
		a.items[index] = true
	}
}

func (a *annotations) markAll(v any) {
	if a == nil {
		return
	}
	switch t := v.(type) {
	case map[string]any:
		for k := range t {
			a.props[k] = true
		}
	case []any:
		for i := range t {
			a.items[i] = true
		}
	}
}

// merge folds a satisfied branch's annotations into the parent set.
func (a *annotations) merge(b *annotations) {
	if a == nil || b == nil {
		return
	}
	for k := range b.props {
		a.props[k] = true
	}
	for i := range b.items {
		a.items[i] = true
	}
}

// errorYield receives errors during enumeration; returning false stops the
// walk.
type errorYield func(*ValidationError) bool

// keywordValidator is one compiled keyword. isValid is the hot path and must
// not allocate; appendErrors drives both Validate (stop after the first
// yield) and IterErrors (enumerate everything).
type keywordValidator interface {
	keyword() string
	isValid(st *validationState, v any, ann *annotations) bool
	appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool
}

// treeEvaluator is implemented by applicators that contribute subtree
// results and annotations to structured output.
type treeEvaluator interface {
	evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations)
}

// keywordBase carries the identity every keyword validator shares: its name
// and its schema location within the owning resource.
type keywordBase struct {
	name     string
	location string
}

func (kb *keywordBase) keyword() string { return kb.name }

// newError stamps a validation error with the three materialized paths and
// the failing sub-instance.
func (kb *keywordBase) newError(st *validationState, kind ErrorKind, code, message string, v any, loc *InstanceLocation, params map[string]any) *ValidationError {
	e := newValidationError(kind, kb.name, code, message)
	e.Params = params
	e.Instance = v
	e.InstanceLocation = loc.String()
	e.SchemaLocation = kb.location
	e.EvaluationPath = st.refs.evaluationPath(kb.location)
	e.masked = st.compiler.maskErrors
	return e
}

func newKeywordBase(cc *compileContext, name string, tokens ...string) keywordBase {
	if len(tokens) == 0 {
		tokens = []string{name}
	}
	return keywordBase{name: name, location: joinPointer(cc.location, tokens...)}
}

// validationState is the per-call scratch area: reference depth counter, the
// dynamic scope stack for $dynamicRef, and the reference tracker that
// rewrites evaluation paths. It lives for one top-level call and is never
// shared.
type validationState struct {
	schema   *Schema
	compiler *Compiler
	refDepth int
	refs     refTracker

	dynamicScope []*schemaNode
	activeRefs   []refCycleKey
	scopeBuf     [16]*schemaNode
	frameBuf     [8]refFrame
	activeBuf    [8]refCycleKey
}

// refCycleKey identifies one active reference traversal: the reference
// validator plus the identity of the instance it entered on.
type refCycleKey struct {
	ref      *refValidator
	instance uintptr
}

func newValidationState(s *Schema) validationState {
	st := validationState{schema: s, compiler: s.compiler}
	st.dynamicScope = st.scopeBuf[:0]
	st.refs.frames = st.frameBuf[:0]
	st.activeRefs = st.activeBuf[:0]
	return st
}

func (st *validationState) pushScope(n *schemaNode) {
	st.dynamicScope = append(st.dynamicScope, n)
}

func (st *validationState) popScope() {
	st.dynamicScope = st.dynamicScope[:len(st.dynamicScope)-1]
}

// lookupDynamicAnchor finds, outermost first, a dynamic-scope resource
// declaring the anchor and returns its compiled node.
func (st *validationState) lookupDynamicAnchor(anchor string) *schemaNode {
	seen := make(map[string]bool, len(st.dynamicScope))
	for _, scoped := range st.dynamicScope {
		if seen[scoped.resourceURI] {
			continue
		}
		seen[scoped.resourceURI] = true
		res, ok := st.schema.registry.resource(scoped.resourceURI)
		if !ok {
			continue
		}
		pointer, ok := res.dynamicAnchors[anchor]
		if !ok {
			continue
		}
		node, err := st.schema.nodeAtRuntime(scoped.resourceURI, pointer)
		if err != nil {
			continue
		}
		return node
	}
	return nil
}

// schemaNode is the compiled form of one subschema: an ordered list of
// keyword validators plus the bookkeeping flags structured evaluation needs.
type schemaNode struct {
	schema          *Schema
	resourceURI     string
	location        string
	draft           Draft
	boolean         *bool
	keywords        []keywordValidator
	hasUneval       bool
	metaAnnotations map[string]any
}

// metaAnnotationKeywords are the annotation-only keywords captured for
// structured output.
var metaAnnotationKeywords = []string{"title", "description", "default", "deprecated", "readOnly", "writeOnly", "examples"}

// compile fills the node from its schema value.
func (n *schemaNode) compile(cc *compileContext, value any) error {
	switch v := value.(type) {
	case bool:
		n.boolean = &v
		if !v {
			n.keywords = append(n.keywords, &falseSchemaValidator{
				keywordBase: keywordBase{name: "schema", location: cc.location},
			})
		}
		return nil
	case map[string]any:
		return n.compileObject(cc, v)
	default:
		return fmt.Errorf("%w: schema must be an object or a boolean at %q", ErrInvalidSchemaValue, cc.location)
	}
}

func (n *schemaNode) compileObject(cc *compileContext, obj map[string]any) error {
	for _, kw := range metaAnnotationKeywords {
		if v, ok := obj[kw]; ok {
			if n.metaAnnotations == nil {
				n.metaAnnotations = make(map[string]any)
			}
			n.metaAnnotations[kw] = v
		}
	}

	_, hasRef := obj["$ref"]
	refExclusive := hasRef && cc.draft.refExclusive()

	_, hasUnevalProps := obj["unevaluatedProperties"]
	_, hasUnevalItems := obj["unevaluatedItems"]
	n.hasUneval = (hasUnevalProps || hasUnevalItems) && cc.draft >= Draft201909

	// Fused fast-path selection for the properties cluster. The fused
	// validator is appended at required's position in the table, where its
	// component error stream starts in the unfused compilation too.
	skip := map[string]bool{}
	var fused keywordValidator
	if !refExclusive && cc.draft.supports("properties") {
		var err error
		fused, err = compileFusedProperties(cc, obj, skip)
		if err != nil {
			return err
		}
	}

	for _, kw := range keywordOrder {
		value, present := obj[kw]
		if !present || skip[kw] || !cc.draft.supports(kw) {
			continue
		}
		if refExclusive && kw != "$ref" {
			continue
		}
		if kw == "required" && fused != nil {
			n.keywords = append(n.keywords, fused)
			continue
		}
		validator, err := compileKeyword(cc, kw, value, obj)
		if err != nil {
			return err
		}
		if validator != nil {
			n.keywords = append(n.keywords, validator)
		}
	}

	customNames := make([]string, 0, len(cc.schema.compiler.customKeywords))
	for name := range cc.schema.compiler.customKeywords {
		customNames = append(customNames, name)
	}
	sort.Strings(customNames)
	for _, name := range customNames {
		factory := cc.schema.compiler.customKeywords[name]
		value, present := obj[name]
		if !present || refExclusive {
			continue
		}
		custom, err := factory(value)
		if err != nil {
			return fmt.Errorf("%w: keyword %q at %q: %w", ErrSchemaCompilation, name, cc.location, err)
		}
		n.keywords = append(n.keywords, &customValidator{
			keywordBase: newKeywordBase(cc, name),
			impl:        custom,
		})
	}

	return nil
}

// isValid reports whether the instance satisfies the subschema. No
// allocation happens here unless the subschema carries unevaluated keywords.
func (n *schemaNode) isValid(st *validationState, v any, ann *annotations) bool {
	if n.boolean != nil {
		if *n.boolean {
			ann.markAll(v)
			return true
		}
		return false
	}

	if n.hasUneval && ann == nil {
		ann = newAnnotations()
	}

	st.pushScope(n)
	defer st.popScope()
	for _, kw := range n.keywords {
		if !kw.isValid(st, v, ann) {
			return false
		}
	}
	return true
}

// appendErrors enumerates every error of the subschema in keyword-table
// order. Returns false once the consumer stops the walk.
func (n *schemaNode) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if n.boolean != nil && *n.boolean {
		ann.markAll(v)
		return true
	}

	if n.hasUneval && ann == nil {
		ann = newAnnotations()
	}

	st.pushScope(n)
	defer st.popScope()
	for _, kw := range n.keywords {
		if !kw.appendErrors(st, v, loc, ann, yield) {
			return false
		}
	}
	return true
}

// evaluate produces the structured result tree for the subschema and the
// annotation set its applicators produced, which combinator parents merge
// for satisfied branches.
func (n *schemaNode) evaluate(st *validationState, v any, loc *InstanceLocation) (*EvaluationResult, *annotations) {
	res := &EvaluationResult{
		Valid:            true,
		SchemaLocation:   n.location,
		EvaluationPath:   st.refs.evaluationPath(n.location),
		InstanceLocation: loc.String(),
	}
	for kw, value := range n.metaAnnotations {
		res.addAnnotation(kw, value)
	}

	ann := newAnnotations()
	if n.boolean != nil {
		if *n.boolean {
			ann.markAll(v)
		} else {
			for _, kw := range n.keywords {
				kw.appendErrors(st, v, loc, ann, res.collectError)
			}
		}
		return res, ann
	}

	st.pushScope(n)
	defer st.popScope()
	for _, kw := range n.keywords {
		if tree, ok := kw.(treeEvaluator); ok {
			tree.evaluateTree(st, v, loc, res, ann)
			continue
		}
		kw.appendErrors(st, v, loc, ann, res.collectError)
	}
	return res, ann
}

// falseSchemaValidator rejects every instance; it is the compiled form of
// the boolean schema false.
type falseSchemaValidator struct {
	keywordBase
}

func (k *falseSchemaValidator) isValid(*validationState, any, *annotations) bool { return false }

func (k *falseSchemaValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	return yield(k.newError(st, KindFalseSchema, "false_schema_mismatch", "No values are allowed because the schema is set to 'false'", v, loc, nil))
}

// customValidator adapts a user-registered keyword.
type customValidator struct {
	keywordBase
	impl CustomKeyword
}

func (k *customValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	return k.impl.Validate(v) == nil
}

func (k *customValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	if err := k.impl.Validate(v); err != nil {
		return yield(k.newError(st, KindCustom, "custom_keyword_mismatch", err.Error(), v, loc, nil))
	}
	return true
}
