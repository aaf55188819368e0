package jsonschema

import (
	"sort"

	"github.com/kaptinlin/go-i18n"
)

// Flag is the minimal output form: just the verdict.
type Flag struct {
	Valid bool `json:"valid"`
}

// OutputUnit is one node of the list or hierarchical output form, as
// defined by the JSON Schema output specification (version 1). Annotations
// of failed nodes appear under droppedAnnotations.
type OutputUnit struct {
	Valid              bool              `json:"valid"`
	EvaluationPath     string            `json:"evaluationPath"`
	SchemaLocation     string            `json:"schemaLocation"`
	InstanceLocation   string            `json:"instanceLocation"`
	Annotations        map[string]any    `json:"annotations,omitempty"`
	Errors             map[string]string `json:"errors,omitempty"`
	DroppedAnnotations map[string]any    `json:"droppedAnnotations,omitempty"`
	Details            []*OutputUnit     `json:"details,omitempty"`
}

// EvaluationResult is the structured result of one evaluation: a tree
// mirroring the subschemas that applied, each node carrying its verdict,
// annotations and errors.
type EvaluationResult struct {
	Valid            bool                `json:"valid"`
	EvaluationPath   string              `json:"evaluationPath"`
	SchemaLocation   string              `json:"schemaLocation"`
	InstanceLocation string              `json:"instanceLocation"`
	Annotations      map[string]any      `json:"annotations,omitempty"`
	Errors           []*ValidationError  `json:"errors,omitempty"`
	Details          []*EvaluationResult `json:"details,omitempty"`
}

func (e *EvaluationResult) addDetail(detail *EvaluationResult) {
	e.Details = append(e.Details, detail)
}

func (e *EvaluationResult) addAnnotation(keyword string, value any) {
	if e.Annotations == nil {
		e.Annotations = make(map[string]any)
	}
	e.Annotations[keyword] = value
}

// collectError is an errorYield that accumulates into the node and marks it
// invalid.
func (e *EvaluationResult) collectError(err *ValidationError) bool {
	e.Errors = append(e.Errors, err)
	e.Valid = false
	return true
}

// IsValid reports the node's verdict.
func (e *EvaluationResult) IsValid() bool { return e.Valid }

// ToFlag reduces the result to its verdict.
func (e *EvaluationResult) ToFlag() *Flag {
	return &Flag{Valid: e.Valid}
}

// IterErrors walks the tree and returns every error, depth-first.
func (e *EvaluationResult) IterErrors() []*ValidationError {
	var out []*ValidationError
	e.walkErrors(&out)
	return out
}

func (e *EvaluationResult) walkErrors(out *[]*ValidationError) {
	*out = append(*out, e.Errors...)
	for _, d := range e.Details {
		d.walkErrors(out)
	}
}

// Annotation is one annotation paired with the node that produced it.
type Annotation struct {
	Keyword          string
	Value            any
	EvaluationPath   string
	SchemaLocation   string
	InstanceLocation string
}

// IterAnnotations walks the tree and returns every annotation of satisfied
// nodes, depth-first.
func (e *EvaluationResult) IterAnnotations() []Annotation {
	var out []Annotation
	e.walkAnnotations(&out)
	return out
}

func (e *EvaluationResult) walkAnnotations(out *[]Annotation) {
	if e.Valid {
		for keyword, value := range e.Annotations {
			*out = append(*out, Annotation{
				Keyword:          keyword,
				Value:            value,
				EvaluationPath:   e.EvaluationPath,
				SchemaLocation:   e.SchemaLocation,
				InstanceLocation: e.InstanceLocation,
			})
		}
	}
	for _, d := range e.Details {
		d.walkAnnotations(out)
	}
}

// ToHierarchical renders the result tree in the hierarchical output form.
func (e *EvaluationResult) ToHierarchical() *OutputUnit {
	return e.toHierarchical(nil)
}

// ToLocalizeHierarchical renders the hierarchical form with localized error
// messages.
func (e *EvaluationResult) ToLocalizeHierarchical(localizer *i18n.Localizer) *OutputUnit {
	return e.toHierarchical(localizer)
}

func (e *EvaluationResult) toHierarchical(localizer *i18n.Localizer) *OutputUnit {
	unit := e.toUnit(localizer)
	for _, d := range e.Details {
		unit.Details = append(unit.Details, d.toHierarchical(localizer))
	}
	return unit
}

// ToList renders the result in the list output form: the root unit plus a
// flat, stably ordered sequence of every applied node. Ordering is by
// (evaluationPath, schemaLocation, instanceLocation) over a pre-order
// traversal; nodes that neither erred nor annotated nor nested anything are
// omitted.
func (e *EvaluationResult) ToList() *OutputUnit {
	return e.toListLocalized(nil)
}

// ToLocalizeList renders the list form with localized error messages.
func (e *EvaluationResult) ToLocalizeList(localizer *i18n.Localizer) *OutputUnit {
	return e.toListLocalized(localizer)
}

func (e *EvaluationResult) toListLocalized(localizer *i18n.Localizer) *OutputUnit {
	root := e.toUnit(localizer)
	var flat []*OutputUnit
	for _, d := range e.Details {
		d.flatten(localizer, &flat)
	}
	sort.SliceStable(flat, func(i, j int) bool {
		a, b := flat[i], flat[j]
		if a.EvaluationPath != b.EvaluationPath {
			return a.EvaluationPath < b.EvaluationPath
		}
		if a.SchemaLocation != b.SchemaLocation {
			return a.SchemaLocation < b.SchemaLocation
		}
		return a.InstanceLocation < b.InstanceLocation
	})
	root.Details = flat
	return root
}

func (e *EvaluationResult) flatten(localizer *i18n.Localizer, out *[]*OutputUnit) {
	if e.applied() {
		*out = append(*out, e.toUnit(localizer))
	}
	for _, d := range e.Details {
		d.flatten(localizer, out)
	}
}

// applied reports whether the node did anything worth listing.
func (e *EvaluationResult) applied() bool {
	return len(e.Errors) > 0 || len(e.Annotations) > 0 || len(e.Details) > 0
}

func (e *EvaluationResult) toUnit(localizer *i18n.Localizer) *OutputUnit {
	unit := &OutputUnit{
		Valid:            e.Valid,
		EvaluationPath:   e.EvaluationPath,
		SchemaLocation:   e.SchemaLocation,
		InstanceLocation: e.InstanceLocation,
	}
	if len(e.Annotations) > 0 {
		if e.Valid {
			unit.Annotations = e.Annotations
		} else {
			unit.DroppedAnnotations = e.Annotations
		}
	}
	if len(e.Errors) > 0 {
		unit.Errors = make(map[string]string, len(e.Errors))
		for _, err := range e.Errors {
			msg := err.Error()
			if localizer != nil {
				msg = err.Localize(localizer)
			}
			if existing, ok := unit.Errors[err.Keyword]; ok {
				msg = existing + "; " + msg
			}
			unit.Errors[err.Keyword] = msg
		}
	}
	return unit
}
