package directive

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// taskToolArgs models the arguments of the set_agent_task function tool.
type taskToolArgs struct {
	Task            string `json:"task" jsonschema:"title=Task,description=Canonical task identifier for the agent"`
	TaskDescription string `json:"task_description,omitempty" jsonschema:"title=Task description,description=Optional short elaboration of the chosen task"`
}

// taskToolParameters reflects the tool argument struct into a JSON-schema
// parameter document, constraining task to the catalog for the agent type.
func taskToolParameters(agentType string) (map[string]any, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}

	schema := reflector.Reflect(&taskToolArgs{})
	schema.Version = ""
	schema.ID = ""

	if schema.Properties != nil {
		if prop, ok := schema.Properties.Get("task"); ok {
			tasks := TasksForType(agentType)
			enum := make([]any, 0, len(tasks))
			for _, task := range tasks {
				enum = append(enum, task)
			}
			prop.Enum = enum
		}
	}
	schema.Required = []string{"task"}

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal tool schema: %w", err)
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("decode tool schema: %w", err)
	}
	return params, nil
}
