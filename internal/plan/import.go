package plan

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// curriculumSchema defines the JSON schema for imported curriculum files.
var curriculumSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"topic": map[string]any{
			"type":        "string",
			"description": "Topic this curriculum covers",
		},
		"objectives": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":          map[string]any{"type": "string", "minLength": 1},
					"title":       map[string]any{"type": "string", "minLength": 1},
					"description": map[string]any{"type": "string"},
					"type": map[string]any{
						"type": "string",
						"enum": []any{"concept", "procedure", "fact", "principle"},
					},
					"statement": map[string]any{"type": "string"},
					"citations": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"prerequisites": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required":             []any{"id", "title", "type"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"topic", "objectives"},
	"additionalProperties": false,
}

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

// Curriculum is the on-disk shape of an importable curriculum file.
type Curriculum struct {
	Topic      string          `json:"topic"`
	Objectives []ObjectiveNode `json:"objectives"`
}

// ParseCurriculum validates raw curriculum JSON against the schema and
// builds a plan graph from it. Objectives with no prerequisites start
// available; the rest start locked.
func ParseCurriculum(raw []byte) (string, *Graph, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := getCompiledSchema()
	if err != nil {
		return "", nil, fmt.Errorf("compile curriculum schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return "", nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var cur Curriculum
	if err := json.Unmarshal(raw, &cur); err != nil {
		return "", nil, fmt.Errorf("decode curriculum: %w", err)
	}

	for i := range cur.Objectives {
		if len(cur.Objectives[i].Prerequisites) == 0 {
			cur.Objectives[i].Status = StatusAvailable
		} else {
			cur.Objectives[i].Status = StatusLocked
		}
	}

	g, err := NewGraph(cur.Objectives)
	if err != nil {
		return "", nil, err
	}
	return cur.Topic, g, nil
}

// getCompiledSchema compiles the curriculum schema once and caches it.
func getCompiledSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not raw
		// bytes. Marshal then unmarshal to get a clean any representation.
		defBytes, err := json.Marshal(curriculumSchema)
		if err != nil {
			compileSchemaError = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileSchemaError = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://curriculum.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileSchemaError = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileSchemaError = c.Compile(schemaURL)
	})
	return compiledSchema, compileSchemaError
}
