// Package main provides the jschema CLI, which validates JSON or YAML
// instance documents against a JSON Schema. By default it prints one line of
// text per error (or "valid"); with --output flag, list or hierarchical it
// prints one newline-delimited JSON record per instance.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/log/v2"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/schemakit/jsonschema"
)

type options struct {
	output       string
	draft        int
	assertFormat bool
	baseURI      string
	maskErrors   bool
	verbose      bool
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "jschema <schema.json> [instance.json ...]",
		Short: "Validate JSON instances against a JSON Schema",
		Long: `jschema compiles a JSON Schema (drafts 4, 6, 7, 2019-09 and 2020-12) and
validates instance documents against it. Instances may be YAML when the file
extension is .yaml or .yml. With --output flag, list or hierarchical, one
NDJSON record is printed per instance.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(opts, args[0], args[1:])
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "text", "output mode: text, flag, list or hierarchical")
	flags.IntVar(&opts.draft, "draft", 0, "default draft for schemas without $schema (4, 6, 7, 2019, 2020)")
	flags.BoolVar(&opts.assertFormat, "assert-format", false, "treat format as an assertion regardless of draft")
	flags.StringVar(&opts.baseURI, "base-uri", "", "base URI for the schema document")
	flags.BoolVar(&opts.maskErrors, "mask-errors", false, "hide instance values in error messages")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log compilation details")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *options, schemaPath string, instancePaths []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	schema, err := compileSchema(opts, schemaPath, logger)
	if err != nil {
		return err
	}

	if len(instancePaths) == 0 {
		logger.Info("schema compiled", "schema", schemaPath, "draft", schema.Draft().String())
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	failed := false
	for _, path := range instancePaths {
		instance, err := readInstance(path)
		if err != nil {
			return err
		}
		valid, err := report(enc, opts, schema, schemaPath, path, instance)
		if err != nil {
			return err
		}
		if !valid {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
	return nil
}

func compileSchema(opts *options, path string, logger *log.Logger) (*jsonschema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler().
		SetMaskErrors(opts.maskErrors).
		SetRetriever(fileRetriever)
	if opts.assertFormat {
		compiler.SetAssertFormat(jsonschema.FormatAssertionOn)
	}
	switch opts.draft {
	case 0:
	case 4:
		compiler.SetDefaultDraft(jsonschema.Draft4)
	case 6:
		compiler.SetDefaultDraft(jsonschema.Draft6)
	case 7:
		compiler.SetDefaultDraft(jsonschema.Draft7)
	case 2019:
		compiler.SetDefaultDraft(jsonschema.Draft201909)
	case 2020:
		compiler.SetDefaultDraft(jsonschema.Draft202012)
	default:
		return nil, fmt.Errorf("unsupported draft: %d", opts.draft)
	}

	baseURI := opts.baseURI
	if baseURI == "" {
		if abs, err := filepath.Abs(path); err == nil {
			baseURI = "file://" + filepath.ToSlash(abs)
		}
	}
	logger.Debug("compiling schema", "path", path, "base_uri", baseURI)
	return compiler.Compile(data, baseURI)
}

// fileRetriever resolves file: references relative to the schema location.
// Retrieval happens at build time only.
func fileRetriever(uri string) (any, error) {
	path, ok := strings.CutPrefix(uri, "file://")
	if !ok {
		return nil, fmt.Errorf("unsupported scheme in %q", uri)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalInstance(data)
}

func readInstance(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return jsonschema.UnmarshalYAMLInstance(data)
	default:
		return jsonschema.UnmarshalInstance(data)
	}
}

// record is one NDJSON output line.
type record struct {
	Output   string `json:"output"`
	Schema   string `json:"schema"`
	Instance string `json:"instance"`
	Payload  any    `json:"payload"`
}

func report(enc *json.Encoder, opts *options, schema *jsonschema.Schema, schemaPath, instancePath string, instance any) (bool, error) {
	switch opts.output {
	case "text":
		valid := true
		for err := range schema.IterErrors(instance) {
			valid = false
			fmt.Printf("%s: %s at %q\n", instancePath, err.Error(), err.InstanceLocation)
		}
		if valid {
			fmt.Printf("%s: valid\n", instancePath)
		}
		return valid, nil
	case "flag":
		result := schema.Evaluate(instance)
		return result.IsValid(), enc.Encode(record{Output: opts.output, Schema: schemaPath, Instance: instancePath, Payload: result.ToFlag()})
	case "list":
		result := schema.Evaluate(instance)
		return result.IsValid(), enc.Encode(record{Output: opts.output, Schema: schemaPath, Instance: instancePath, Payload: result.ToList()})
	case "hierarchical":
		result := schema.Evaluate(instance)
		return result.IsValid(), enc.Encode(record{Output: opts.output, Schema: schemaPath, Instance: instancePath, Payload: result.ToHierarchical()})
	}
	return false, fmt.Errorf("unknown output mode: %s", opts.output)
}
