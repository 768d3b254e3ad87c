package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/v1/profile.schema.json
var profileSchemaJSON []byte

var profileSchema *gojsonschema.Schema

func init() {
	var err error
	profileSchema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(profileSchemaJSON))
	if err != nil {
		panic("failed to load embedded profile schema: " + err.Error())
	}
}

func validateProfile(data []byte) error {
	// Convert YAML to JSON for schema validation
	var yamlData interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	if yamlData == nil {
		// An empty document is an empty profile.
		yamlData = map[string]interface{}{}
	}

	jsonData, err := json.Marshal(yamlData)
	if err != nil {
		return fmt.Errorf("failed to convert YAML to JSON: %w", err)
	}

	result, err := profileSchema.Validate(gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
