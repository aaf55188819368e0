package jsonschema

// compileRequired builds the required validator. Most schemas require only a
// handful of properties, so one, two and three names get dedicated variants
// that avoid the slice loop.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-required
func compileRequired(cc *compileContext, value any) (keywordValidator, error) {
	names, err := schemaStringList(cc, "required", value)
	if err != nil {
		return nil, err
	}
	kb := newKeywordBase(cc, "required")
	switch len(names) {
	case 0:
		// Nothing is required of the instance.
		return nil, nil
	case 1:
		return &required1Validator{keywordBase: kb, name: names[0]}, nil
	case 2:
		return &required2Validator{keywordBase: kb, first: names[0], second: names[1]}, nil
	case 3:
		return &required3Validator{keywordBase: kb, first: names[0], second: names[1], third: names[2]}, nil
	}
	return &requiredValidator{keywordBase: kb, names: names}, nil
}

func requiredError(kb *keywordBase, st *validationState, v any, loc *InstanceLocation, name string) *ValidationError {
	return kb.newError(st, KindRequired, "required_property_missing", "Required property {property} is missing", v, loc, map[string]any{
		"property": name,
	})
}

type required1Validator struct {
	keywordBase
	name string
}

func (k *required1Validator) isValid(_ *validationState, v any, _ *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	_, present := obj[k.name]
	return present
}

func (k *required1Validator) appendErrors(st *validationState, v any, loc *InstanceLocation, ann *annotations, yield errorYield) bool {
	if k.isValid(st, v, ann) {
		return true
	}
	return yield(requiredError(&k.keywordBase, st, v, loc, k.name))
}

type required2Validator struct {
	keywordBase
	first, second string
}

func (k *required2Validator) isValid(_ *validationState, v any, _ *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	_, a := obj[k.first]
	_, b := obj[k.second]
	return a && b
}

func (k *required2Validator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for _, name := range [2]string{k.first, k.second} {
		if _, present := obj[name]; !present {
			if !yield(requiredError(&k.keywordBase, st, v, loc, name)) {
				return false
			}
		}
	}
	return true
}

type required3Validator struct {
	keywordBase
	first, second, third string
}

func (k *required3Validator) isValid(_ *validationState, v any, _ *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	_, a := obj[k.first]
	_, b := obj[k.second]
	_, c := obj[k.third]
	return a && b && c
}

func (k *required3Validator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for _, name := range [3]string{k.first, k.second, k.third} {
		if _, present := obj[name]; !present {
			if !yield(requiredError(&k.keywordBase, st, v, loc, name)) {
				return false
			}
		}
	}
	return true
}

type requiredValidator struct {
	keywordBase
	names []string
}

func (k *requiredValidator) isValid(_ *validationState, v any, _ *annotations) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for _, name := range k.names {
		if _, present := obj[name]; !present {
			return false
		}
	}
	return true
}

func (k *requiredValidator) appendErrors(st *validationState, v any, loc *InstanceLocation, _ *annotations, yield errorYield) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}
	for _, name := range k.names {
		if _, present := obj[name]; !present {
			if !yield(requiredError(&k.keywordBase, st, v, loc, name)) {
				return false
			}
		}
	}
	return true
}
