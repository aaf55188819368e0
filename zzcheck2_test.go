package jsonschema

import (
	"fmt"
	"testing"

	"github.com/goccy/go-json"
)

func TestGoccyMinimalRepro(t *testing.T) {
	schemas := []string{
		`{"type": "integer"}`,
		`{"properties": {"a": {"minimum": 2}}, "required": ["b"]}`,
		`{"allOf": [{"properties": {"a": true}}], "unevaluatedProperties": false}`,
		`{"oneOf": [{"type": "number"}, {"type": "integer"}]}`,
		`{"$defs": {"n": {"minLength": 3}}, "properties": {"name": {"$ref": "#/$defs/n"}}}`,
	}
	instances := []string{`42`, `{"a": 1}`, `{"a": 1, "b": 2}`, `"x"`, `{"name": "ab"}`}

	for si, schemaJSON := range schemas {
		schema := mustCompile(t, schemaJSON)
		for ii, instanceJSON := range instances {
			result := schema.Evaluate(mustInstance(t, instanceJSON))
			for _, kind := range []string{"list", "hier", "flag"} {
				func() {
					defer func() {
						if r := recover(); r != nil {
							t.Logf("PANIC at schema=%d instance=%d kind=%s: %v", si, ii, kind, r)
						}
					}()
					var v any
					switch kind {
					case "list":
						v = result.ToList()
					case "hier":
						v = result.ToHierarchical()
					case "flag":
						v = result.ToFlag()
					}
					data, err := json.Marshal(v)
					if err != nil {
						t.Fatal(err)
					}
					fmt.Println(si, ii, kind, string(data))
				}()
			}
		}
	}
}
