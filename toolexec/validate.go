package toolexec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrSchemaViolation is returned by ValidateArguments when arguments do not
// conform to a tool's declared schema.
var ErrSchemaViolation = errors.New("toolexec: arguments do not conform to tool schema")

// ValidateArguments validates arguments against the tool's declared JSON
// Schema, the same compile-and-validate approach the registry service uses
// for tool-call payloads. A tool with no declared schema always validates.
func ValidateArguments(spec ToolSpec, arguments json.RawMessage) error {
	if len(spec.Schema) == 0 {
		return nil
	}

	var schemaDoc any
	if err := json.Unmarshal(spec.Schema, &schemaDoc); err != nil {
		return fmt.Errorf("toolexec: unmarshal schema for %q: %w", spec.Name, err)
	}

	var argsDoc any
	if len(arguments) == 0 {
		argsDoc = map[string]any{}
	} else if err := json.Unmarshal(arguments, &argsDoc); err != nil {
		return fmt.Errorf("toolexec: unmarshal arguments for %q: %w", spec.Name, err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(spec.Name+".json", schemaDoc); err != nil {
		return fmt.Errorf("toolexec: add schema resource for %q: %w", spec.Name, err)
	}
	schema, err := c.Compile(spec.Name + ".json")
	if err != nil {
		return fmt.Errorf("toolexec: compile schema for %q: %w", spec.Name, err)
	}

	if err := schema.Validate(argsDoc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchemaViolation, spec.Name, err)
	}
	return nil
}

// FindSpec looks up a tool's spec by name, used by callers that hold only a
// tool name (a Task's Tool field, a ToolCallRequest's ToolName) and need the
// declared schema before dispatch.
func FindSpec(specs []ToolSpec, name string) (ToolSpec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return ToolSpec{}, false
}
