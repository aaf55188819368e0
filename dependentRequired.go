package jsonschema

import (
	"fmt"
	"sort"
)

// compileDependentRequired builds the dependentRequired validator: when a
// trigger property is present, its dependent property names must be too.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-dependentrequired
func compileDependentRequired(cc *compileContext, value any) (keywordValidator, error) {
	return compileDependentRequiredAt(cc, "dependentRequired", value)
}

func compileDependentRequiredAt(cc *compileContext, keyword string, value any) (keywordValidator, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an object at %q", ErrInvalidSchemaValue, keyword, cc.location)
	}
	triggers := make([]string, 0, len(obj))
	for name := range obj {
		triggers = append(triggers, name)
	}
	sort.Strings(triggers)

	deps := make([][]string, len(triggers))
	for i, trigger := range triggers {
		names, err := schemaStringList(cc, keyword, obj[trigger])
		if err != nil {
			return nil, err
		}
		deps[i] = names
	}
	return &dependentRequiredValidator{
		keywordBase: newKeywordBase(cc, keyword),
		triggers:    triggers,
		deps:        deps,
	}, nil
}

type dependentRequiredValidator struct {
	keywordBase
	triggers []string
	deps     [][]string
}

func (k *dependentRequiredValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for i, trigger := range k.triggers {
		if _, present := obj[trigger]; !present {
			continue
		}
		for _, dep := range k.deps[i] {
			if _, present := obj[dep]; !present {
				return false
			}
		}
	}
	return true
}

func (k *dependentRequiredValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for i, trigger := range k.triggers {
		if _, present := obj[trigger]; !present {
			continue
		}
		for _, dep := range k.deps[i] {
			if _, present := obj[dep]; present {
				continue
			}
			if !yield(k.newError(st, KindRequired, "dependent_required_missing", "Property {property} is required when {trigger} is present", v, loc, map[string]any{
				"property": dep,
				"trigger":  trigger,
			})) {
				return false
			}
		}
	}
	return true
}

// compileDependencies handles the pre-2019 dependencies keyword, whose
// values mix dependent-required name lists with dependent schemas.
func compileDependencies(cc *compileContext, value any) (keywordValidator, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: \"dependencies\" must be an object at %q", ErrInvalidSchemaValue, cc.location)
	}

	names := map[string]any{}
	schemas := map[string]any{}
	for trigger, dep := range obj {
		if _, isList := dep.([]any); isList {
			names[trigger] = dep
		} else {
			schemas[trigger] = dep
		}
	}

	var parts []keywordValidator
	if len(names) > 0 {
		required, err := compileDependentRequiredAt(cc, "dependencies", names)
		if err != nil {
			return nil, err
		}
		parts = append(parts, required)
	}
	if len(schemas) > 0 {
		applied, err := compileDependentSchemasAt(cc, "dependencies", schemas)
		if err != nil {
			return nil, err
		}
		parts = append(parts, applied)
	}
	switch len(parts) {
	case 0:
		return nil, nil
	case 1:
		return parts[0], nil
	}
	return &dependenciesValidator{parts: parts}, nil
}

// dependenciesValidator runs the required-style and schema-style halves of a
// mixed dependencies object.
type dependenciesValidator struct {
	parts []keywordValidator
}

func (k *dependenciesValidator) keyword() string { return "dependencies" }

func (k *dependenciesValidator) isValid(st *validationState, v any, ann *annotations) bool {
	for _, part := range k.parts {
		if !part.isValid(st, v, ann) {
			return false
		}
	}
	return true
}

func (k *dependenciesValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	for _, part := range k.parts {
		if !part.appendErrors(st, v, loc, ann, yield) {
			return false
		}
	}
	return true
}
