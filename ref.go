package jsonschema

import (
	"fmt"
	"reflect"
)

// compileRef builds the $ref validator. The target compiles eagerly; cyclic
// references resolve to the in-progress node registered by ensureNode, so a
// schema like {"$ref": "#"} compiles without recursing.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-direct-references-with-ref
func compileRef(cc *compileContext, value any) (keywordValidator, error) {
	ref, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: \"$ref\" must be a string at %q", ErrInvalidSchemaValue, cc.location)
	}
	target, _, err := resolveRefNode(cc, ref)
	if err != nil {
		return nil, err
	}
	return &refValidator{
		keywordBase: newKeywordBase(cc, "$ref"),
		target:      target,
	}, nil
}

// compileDynamicRef builds the $dynamicRef validator of draft 2020-12. The
// static target is bound at compile time; when it carries a matching
// $dynamicAnchor the reference re-resolves against the live dynamic scope at
// evaluation time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-dynamic-references-with-dyn
func compileDynamicRef(cc *compileContext, value any) (keywordValidator, error) {
	ref, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: \"$dynamicRef\" must be a string at %q", ErrInvalidSchemaValue, cc.location)
	}
	target, fragment, err := resolveRefNode(cc, ref)
	if err != nil {
		return nil, err
	}

	anchor := ""
	if !isJSONPointer(fragment) {
		if res, ok := cc.schema.registry.resource(target.resourceURI); ok {
			if _, dynamic := res.dynamicAnchors[fragment]; dynamic {
				anchor = fragment
			}
		}
	}
	return &refValidator{
		keywordBase: newKeywordBase(cc, "$dynamicRef"),
		target:      target,
		anchor:      anchor,
		dynamic:     anchor != "",
	}, nil
}

// compileRecursiveRef builds the $recursiveRef validator of draft 2019-09.
// Only the "#" form exists; it targets the current resource root, re-bound
// through the outermost $recursiveAnchor in the dynamic scope.
func compileRecursiveRef(cc *compileContext, value any) (keywordValidator, error) {
	ref, ok := value.(string)
	if !ok || ref != "#" {
		return nil, fmt.Errorf("%w: \"$recursiveRef\" must be \"#\" at %q", ErrInvalidSchemaValue, cc.location)
	}
	target, err := cc.schema.ensureNode(cc.baseURI, "")
	if err != nil {
		return nil, err
	}

	dynamic := false
	if res, ok := cc.schema.registry.resource(cc.baseURI); ok {
		if _, anchored := res.dynamicAnchors[""]; anchored {
			dynamic = true
		}
	}
	return &refValidator{
		keywordBase: newKeywordBase(cc, "$recursiveRef"),
		target:      target,
		dynamic:     dynamic,
	}, nil
}

// resolveRefNode resolves a reference string against the compile context and
// compiles the target node. It also returns the fragment for dynamic-anchor
// detection.
func resolveRefNode(cc *compileContext, ref string) (*schemaNode, string, error) {
	base, fragment := splitRef(ref)

	resourceURI := cc.baseURI
	if base != "" {
		resourceURI = normalizeURI(resolveURI(cc.baseURI, base))
	}
	res, ok := cc.schema.registry.resource(resourceURI)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrReferenceNotFound, ref)
	}

	pointer := fragment
	if !isJSONPointer(fragment) {
		p, ok := res.anchors[fragment]
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrReferenceNotFound, ref)
		}
		pointer = p
	}

	node, err := cc.schema.ensureNode(res.uri, pointer)
	if err != nil {
		return nil, "", err
	}
	return node, fragment, nil
}

// refValidator delegates to a referenced subschema. On entry it pushes a
// reference frame so that errors produced below report evaluation paths
// through the reference, and bumps the depth counter that bounds reference
// recursion at evaluation time.
type refValidator struct {
	keywordBase
	target  *schemaNode
	anchor  string
	dynamic bool
}

// resolveTarget picks the evaluation-time target: the static one, or the
// outermost dynamic-scope anchor for dynamic references.
func (k *refValidator) resolveTarget(st *validationState) *schemaNode {
	if !k.dynamic {
		return k.target
	}
	if found := st.lookupDynamicAnchor(k.anchor); found != nil {
		return found
	}
	return k.target
}

// instanceFingerprint identifies container instances by allocation, which
// lets a re-entry of the same reference on the same value be recognized as a
// cycle. Scalars share fingerprint zero: they have no children, so a
// re-entry on any scalar without descent is a cycle too.
func instanceFingerprint(v any) uintptr {
	switch v.(type) {
	case map[string]any, []any:
		return reflect.ValueOf(v).Pointer()
	}
	return 0
}

// enter pushes the tracker frame and depth; the returned function undoes
// both. cycle means the same reference is already active on the same
// instance: validation has made no progress and the subschema is vacuously
// satisfied. A nil leave with no cycle means the depth budget is exhausted.
func (k *refValidator) enter(st *validationState, target *schemaNode, v any) (leave func(), cycle bool) {
	key := refCycleKey{ref: k, instance: instanceFingerprint(v)}
	for _, active := range st.activeRefs {
		if active == key {
			return nil, true
		}
	}
	st.refDepth++
	if st.refDepth > st.compiler.maxRefDepth {
		st.refDepth--
		return nil, false
	}
	st.activeRefs = append(st.activeRefs, key)
	st.refs.push(target.location, st.refs.evaluationPath(k.location))
	return func() {
		st.refs.pop()
		st.activeRefs = st.activeRefs[:len(st.activeRefs)-1]
		st.refDepth--
	}, false
}

func (k *refValidator) isValid(st *validationState, v any, ann *annotations) bool {
	target := k.resolveTarget(st)
	leave, cycle := k.enter(st, target, v)
	if cycle {
		return true
	}
	if leave == nil {
		return false
	}
	defer leave()
	return target.isValid(st, v, ann)
}

func (k *refValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	target := k.resolveTarget(st)
	leave, cycle := k.enter(st, target, v)
	if cycle {
		return true
	}
	if leave == nil {
		return yield(k.newError(st, KindReferencing, "reference_depth_exceeded", "Reference recursion exceeded the configured depth", v, loc, map[string]any{
			"max_depth": st.compiler.maxRefDepth,
		}))
	}
	defer leave()
	return target.appendErrors(st, v, loc, ann, yield)
}

func (k *refValidator) evaluateTree(st *validationState, v any, loc *InstanceLocation, res *EvaluationResult, ann *annotations) {
	target := k.resolveTarget(st)
	leave, cycle := k.enter(st, target, v)
	if cycle {
		return
	}
	if leave == nil {
		res.collectError(k.newError(st, KindReferencing, "reference_depth_exceeded", "Reference recursion exceeded the configured depth", v, loc, map[string]any{
			"max_depth": st.compiler.maxRefDepth,
		}))
		return
	}
	defer leave()

	childRes, childAnn := target.evaluate(st, v, loc)
	res.addDetail(childRes)
	if childRes.Valid {
		ann.merge(childAnn)
		return
	}
	res.collectError(k.newError(st, kindAggregate, "ref_mismatch", "Value does not match the referenced schema", v, loc, nil))
}
