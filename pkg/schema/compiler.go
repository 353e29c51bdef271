// Package schema implements the Schema Validator: validating the combined
// document (and, separately, each file's imports list) against a fixed
// JSON schema, and turning jsonschema/v6's validation errors into the
// "<message>; Path to error: <dot-path>" FormatError form spec §4.6 requires.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/logger"
)

var log = logger.New("schema:compiler")

//go:embed schemas/blueprint_schema.json
var blueprintSchemaJSON string

//go:embed schemas/imports_schema.json
var importsSchemaJSON string

var (
	blueprintSchemaOnce sync.Once
	importsSchemaOnce   sync.Once

	compiledBlueprintSchema *jsonschema.Schema
	compiledImportsSchema   *jsonschema.Schema

	blueprintSchemaErr error
	importsSchemaErr    error
)

func getCompiledBlueprintSchema() (*jsonschema.Schema, error) {
	blueprintSchemaOnce.Do(func() {
		compiledBlueprintSchema, blueprintSchemaErr = compile(blueprintSchemaJSON, "mem://blueprint-schema.json")
	})
	return compiledBlueprintSchema, blueprintSchemaErr
}

func getCompiledImportsSchema() (*jsonschema.Schema, error) {
	importsSchemaOnce.Do(func() {
		compiledImportsSchema, importsSchemaErr = compile(importsSchemaJSON, "mem://imports-schema.json")
	})
	return compiledImportsSchema, importsSchemaErr
}

func compile(schemaJSON, schemaURL string) (*jsonschema.Schema, error) {
	log.Printf("compiling schema %s", schemaURL)

	var doc any
	if err := json.Unmarshal([]byte(schemaJSON), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
}

// ValidateDocument validates the combined blueprint document (§4.6, main
// pass). On failure returns a FormatError with code 1.
func ValidateDocument(doc map[string]any) error {
	schema, err := getCompiledBlueprintSchema()
	if err != nil {
		return fmt.Errorf("schema compile error: %w", err)
	}
	if err := schema.Validate(normalize(doc)); err != nil {
		return toFormatError(1, err)
	}
	return nil
}

// ValidateImportsSection validates one file's "imports" list in isolation,
// before the files are combined (§4.6). On failure returns a FormatError
// with code 2.
func ValidateImportsSection(importsList any) error {
	schema, err := getCompiledImportsSchema()
	if err != nil {
		return fmt.Errorf("schema compile error: %w", err)
	}
	if err := schema.Validate(normalize(importsList)); err != nil {
		return toFormatError(2, err)
	}
	return nil
}

// normalize round-trips through JSON so numeric/map types match what
// jsonschema/v6 expects regardless of how the YAML decoder represented them.
func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func toFormatError(code int, err error) error {
	msg := cleanJSONSchemaErrorMessage(err.Error())
	path := extractPath(err.Error())
	return &errdef.FormatError{Code: code, Message: msg, Path: path}
}

// extractPath pulls the first "at '/a/b'" occurrence out of a jsonschema/v6
// validation error and converts it to the dot-path form spec §4.6 specifies.
func extractPath(errorMsg string) string {
	const marker = "at '"
	idx := strings.Index(errorMsg, marker)
	if idx < 0 {
		return ""
	}
	rest := errorMsg[idx+len(marker):]
	end := strings.Index(rest, "'")
	if end < 0 {
		return ""
	}
	slashPath := rest[:end]
	slashPath = strings.Trim(slashPath, "/")
	if slashPath == "" {
		return ""
	}
	return strings.ReplaceAll(slashPath, "/", ".")
}
