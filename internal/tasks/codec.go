package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"tasklist-cli/internal/model"
)

const schemaURL = "tasklist://tasks.schema.json"

// Stored records must carry every required field; notified/completed default to false
// so collections written before those flags existed still load.
const tasksSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "category", "expiryDate"],
    "properties": {
      "id":         {"type": "string", "minLength": 1},
      "title":      {"type": "string", "minLength": 1},
      "category":   {"type": "string", "minLength": 1},
      "expiryDate": {"type": "string", "format": "date"},
      "notified":   {"type": "boolean"},
      "completed":  {"type": "boolean"}
    }
  }
}`

var recordsSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(tasksSchema)); err != nil {
		panic(fmt.Sprintf("tasks schema: %v", err))
	}
	return compiler.MustCompile(schemaURL)
}

// DecodeTasks parses a stored (or exported) collection. Anything that is not a JSON
// array of well-formed task records with unique ids is an error. A JSON null is an
// empty collection.
func DecodeTasks(b []byte) ([]model.Task, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, fmt.Errorf("parse tasks: empty payload")
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if doc == nil {
		return []model.Task{}, nil
	}
	if err := recordsSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("tasks do not match schema: %w", err)
	}

	var out []model.Task
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	seen := make(map[string]struct{}, len(out))
	for _, t := range out {
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("duplicate task id: %s", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	if out == nil {
		out = []model.Task{}
	}
	return out, nil
}

// EncodeTasks serializes the collection in order as a JSON array.
func EncodeTasks(ts []model.Task) ([]byte, error) {
	if ts == nil {
		ts = []model.Task{}
	}
	return json.Marshal(ts)
}
