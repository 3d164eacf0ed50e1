package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildDayJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is sent to the completion service as the schema description
// and used locally to validate repaired output.
func BuildDayJSONSchema() map[string]any {
	sceneProps := map[string]any{
		"scene_number":   map[string]any{"type": "string", "minLength": 1, "pattern": `^\d{1,4}[A-Z]{0,2}$`},
		"pages":          map[string]any{"type": "string"},
		"int_ext":        map[string]any{"type": "string", "enum": []string{"INT", "EXT"}},
		"day_night":      map[string]any{"type": "string"},
		"set_location":   map[string]any{"type": "string"},
		"description":    map[string]any{"type": "string"},
		"cast_numbers":   map[string]any{"type": "array", "items": map[string]any{"type": "integer", "minimum": 1}},
		"estimated_time": map[string]any{"type": "string"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"scenes"},
		"properties": map[string]any{
			"scenes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"scene_number", "int_ext"},
					"properties":           sceneProps,
				},
			},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
