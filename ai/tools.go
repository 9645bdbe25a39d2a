// tools.go binds the SQL tools to the agent.
//
// A Tool always answers with a JSON string. Validation failures, unknown
// tool names and tool errors come back as {"error": "..."} so the agent
// can read them and react; they never abort the invocation.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Tool is a named function the hosted agent may call.
type Tool interface {
	Name() string
	Description() string
	// InputSchema is a JSON Schema object describing the input.
	InputSchema() map[string]any
	Call(ctx context.Context, input map[string]any) string
}

// SQLBackend is what the SQL tool bindings need from the database layer.
type SQLBackend interface {
	GetSchema(ctx context.Context, schemaName string) (string, error)
	ExecuteSQL(ctx context.Context, query string) string
}

// Tool names as the agent sees them.
const (
	ToolGetSchema  = "get_schema"
	ToolExecuteSQL = "execute_sql"
)

type funcTool struct {
	name        string
	description string
	schema      map[string]any
	fn          func(ctx context.Context, input map[string]any) string
}

func (t *funcTool) Name() string                                          { return t.name }
func (t *funcTool) Description() string                                   { return t.description }
func (t *funcTool) InputSchema() map[string]any                           { return t.schema }
func (t *funcTool) Call(ctx context.Context, input map[string]any) string { return t.fn(ctx, input) }

// SQLTools returns the get_schema and execute_sql bindings over backend.
func SQLTools(backend SQLBackend) []Tool {
	return []Tool{
		&funcTool{
			name: ToolGetSchema,
			description: "Fetches the schema of all tables and columns within a database schema, " +
				"including table and column descriptions. Returns a JSON list of tables.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"schema_name": map[string]any{
						"type":        "string",
						"description": "The name of the database schema to inspect. Defaults to ReportingWithAIAgent.",
					},
				},
				"additionalProperties": false,
			},
			fn: func(ctx context.Context, input map[string]any) string {
				name, _ := input["schema_name"].(string)
				out, err := backend.GetSchema(ctx, name)
				if err != nil {
					return errorJSON(fmt.Sprintf("Schema retrieval failed: %v", err))
				}
				return out
			},
		},
		&funcTool{
			name: ToolExecuteSQL,
			description: "Executes a read-only SQL SELECT query against the database and returns " +
				"the rows as a JSON list, or {\"error\": ...}.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The SELECT SQL query to execute.",
					},
				},
				"required":             []any{"query"},
				"additionalProperties": false,
			},
			fn: func(ctx context.Context, input map[string]any) string {
				query, _ := input["query"].(string)
				return backend.ExecuteSQL(ctx, query)
			},
		},
	}
}

// CallTool runs the named tool from tools with input validated against
// its schema. It never panics and always returns JSON.
func CallTool(ctx context.Context, tools []Tool, name string, input map[string]any) (out string) {
	var tool Tool
	for _, t := range tools {
		if t.Name() == name {
			tool = t
			break
		}
	}
	if tool == nil {
		return errorJSON(fmt.Sprintf("Unknown tool: %s", name))
	}

	if input == nil {
		input = map[string]any{}
	}
	if err := validateInput(tool.InputSchema(), input); err != nil {
		return errorJSON(fmt.Sprintf("Invalid input for %s: %v", name, err))
	}

	defer func() {
		if r := recover(); r != nil {
			out = errorJSON(fmt.Sprintf("Tool %s failed: %v", name, r))
		}
	}()
	return tool.Call(ctx, input)
}

func validateInput(schema, input map[string]any) error {
	if schema == nil {
		return nil
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(input))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func errorJSON(msg string) string {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return string(out)
}
