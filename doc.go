// Package jsonschema is a JSON Schema validator supporting drafts 4, 6, 7,
// 2019-09 and 2020-12.
//
// A schema document is compiled once into an immutable validator and can then
// be evaluated against any number of instances, concurrently:
//
//	compiler := jsonschema.NewCompiler()
//	schema, err := compiler.Compile([]byte(`{"type": "integer"}`))
//	if err != nil { ... }
//
//	schema.IsValid(int64(42))             // true
//	err = schema.Validate("42")           // first error, kind Type
//	for e := range schema.IterErrors(v) { // every error, deterministic order
//		fmt.Println(e)
//	}
//	result := schema.Evaluate(v)          // structured result tree
//	result.ToList()                       // JSON Schema output format, list
//
// External schema documents are resolved through a Registry built eagerly at
// compile time; evaluation never performs I/O.
package jsonschema
