// Package schemas validates destination configurations against a JSON schema per destination type.
package schemas

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// destination type -> JSON schema.
// Types without an entry accept any JSON object.
var destinationSchemas = map[string]string{
	"webhook": `{
		"type": "object",
		"required": ["url"],
		"properties": {
			"url": {"type": "string", "pattern": "^https?://"},
			"secret": {"type": "string"},
			"headers": {"type": "object", "additionalProperties": {"type": "string"}}
		}
	}`,
	"crm_contacts": `{
		"type": "object",
		"required": ["base_url"],
		"properties": {
			"base_url": {"type": "string", "pattern": "^https?://"},
			"api_key": {"type": "string"},
			"list_id": {"type": ["string", "integer"]}
		}
	}`,
	"internal_notification_email": `{
		"type": "object",
		"required": ["to"],
		"properties": {
			"to": {"type": "array", "minItems": 1, "items": {"type": "string", "pattern": "^[^@\\s]+@[^@\\s]+$"}},
			"subject": {"type": "string"}
		}
	}`,
	"client_email": `{
		"type": "object",
		"properties": {
			"from": {"type": "string"},
			"template": {"type": "string"}
		}
	}`,
}

const anyObjectSchema = `{"type": "object"}`

var (
	compiled   map[string]*jsonschema.Schema
	compileErr error
	compileMu  sync.Once
)

func compileAll() {
	compiled = make(map[string]*jsonschema.Schema, len(destinationSchemas)+1)

	sources := make(map[string]string, len(destinationSchemas)+1)
	for k, v := range destinationSchemas {
		sources[k] = v
	}
	sources[""] = anyObjectSchema

	for destinationType, source := range sources {
		sch, err := compileSchema(schemaURL(destinationType), source)
		if err != nil {
			compileErr = fmt.Errorf("compiling %q schema: %w", destinationType, err)
			return
		}
		compiled[destinationType] = sch
	}
}

func schemaURL(destinationType string) string {
	if destinationType == "" {
		destinationType = "default"
	}
	return "https://leadadmin.local/schemas/destinations/" + destinationType + ".json"
}

func compileSchema(url, source string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("schema content is not valid JSON: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	return c.Compile(url)
}

// ValidateDestinationConfig checks config against the schema for destinationType.
// Unknown destination types only need a JSON object.
func ValidateDestinationConfig(destinationType string, config json.RawMessage) error {
	compileMu.Do(compileAll)
	if compileErr != nil {
		return compileErr
	}

	sch, ok := compiled[destinationType]
	if !ok {
		sch = compiled[""]
	}

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(string(config)))
	if err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("config does not match the %s schema: %w", destinationType, err)
	}
	return nil
}
