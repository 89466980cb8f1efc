package utils

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// NewSchemaReflector returns the reflector used for config schemas: property
// names follow the yaml tags, definitions are inlined and nothing is required
// unless a jsonschema tag says so.
func NewSchemaReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		FieldNameTag:               "yaml",
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
}

// GetSchemaFromConfig returns the JSON schema of config as a string.
func GetSchemaFromConfig(config any) (string, error) {
	schema := NewSchemaReflector().Reflect(config)

	jsonSchemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
