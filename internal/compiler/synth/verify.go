package synth

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/edfi-tools/apischema/internal/compiler/apischema"
)

// Verify compiles a generated document as a 2020-12 schema, which checks it
// against the dialect's meta-schema
func Verify(name string, s *jsonschema.Schema) error {
	_, err := compile(name, s)
	return err
}

// VerifyResource verifies the three documents of a resource schema
func VerifyResource(rs *apischema.ResourceSchema) error {
	docs := []struct {
		variant Variant
		schema  *jsonschema.Schema
	}{
		{Insert, rs.JSONSchemaForInsert},
		{Update, rs.JSONSchemaForUpdate},
		{Query, rs.JSONSchemaForQuery},
	}
	for _, d := range docs {
		if d.schema == nil {
			return fmt.Errorf("%s: %s schema missing", rs.ResourceName, d.variant)
		}
		if err := Verify(rs.ResourceName+"."+d.variant.String(), d.schema); err != nil {
			return err
		}
	}
	return nil
}

// compile builds a validator for s, which also checks s against the
// 2020-12 meta-schema
func compile(name string, s *jsonschema.Schema) (*validator.Schema, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to serialize schema: %w", name, err)
	}

	url := name + ".json"
	compiler := validator.NewCompiler()
	compiler.Draft = validator.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return compiled, nil
}
