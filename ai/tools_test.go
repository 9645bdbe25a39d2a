package ai

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorOf(t *testing.T, out string) string {
	t.Helper()
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v["error"]
}

func TestSQLTools_Names(t *testing.T) {
	tools := SQLTools(&fakeBackend{})
	require.Len(t, tools, 2)
	assert.Equal(t, ToolGetSchema, tools[0].Name())
	assert.Equal(t, ToolExecuteSQL, tools[1].Name())
	for _, tool := range tools {
		assert.NotEmpty(t, tool.Description())
		assert.Equal(t, "object", tool.InputSchema()["type"])
	}
}

func TestCallTool_GetSchema(t *testing.T) {
	backend := &fakeBackend{}
	tools := SQLTools(backend)
	ctx := context.Background()

	out := CallTool(ctx, tools, ToolGetSchema, nil)
	assert.Contains(t, out, `"table_name":"sales"`)

	CallTool(ctx, tools, ToolGetSchema, map[string]any{"schema_name": "analytics"})
	assert.Equal(t, []string{"", "analytics"}, backend.schemas)
}

func TestCallTool_GetSchemaError(t *testing.T) {
	tools := SQLTools(&fakeBackend{schemaErr: errBoom})

	out := CallTool(context.Background(), tools, ToolGetSchema, map[string]any{})
	assert.Equal(t, "Schema retrieval failed: boom", errorOf(t, out))
}

func TestCallTool_ExecuteSQL(t *testing.T) {
	backend := &fakeBackend{}
	tools := SQLTools(backend)

	out := CallTool(context.Background(), tools, ToolExecuteSQL, map[string]any{"query": "SELECT 1"})
	assert.JSONEq(t, `[{"region":"EU","total":42}]`, out)
	assert.Equal(t, []string{"SELECT 1"}, backend.queries)
}

func TestCallTool_InvalidInput(t *testing.T) {
	backend := &fakeBackend{}
	tools := SQLTools(backend)
	ctx := context.Background()

	tests := []struct {
		name  string
		tool  string
		input map[string]any
	}{
		{"missing query", ToolExecuteSQL, map[string]any{}},
		{"query wrong type", ToolExecuteSQL, map[string]any{"query": 12}},
		{"unexpected field", ToolExecuteSQL, map[string]any{"query": "SELECT 1", "limit": 5}},
		{"schema wrong type", ToolGetSchema, map[string]any{"schema_name": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := errorOf(t, CallTool(ctx, tools, tt.tool, tt.input))
			assert.Contains(t, msg, "Invalid input for "+tt.tool)
		})
	}
	assert.Empty(t, backend.queries)
	assert.Empty(t, backend.schemas)
}

func TestCallTool_Unknown(t *testing.T) {
	out := CallTool(context.Background(), SQLTools(&fakeBackend{}), "drop_table", nil)
	assert.Equal(t, "Unknown tool: drop_table", errorOf(t, out))
}

func TestCallTool_RecoversPanic(t *testing.T) {
	tools := []Tool{&funcTool{
		name:   "explode",
		schema: map[string]any{"type": "object"},
		fn:     func(context.Context, map[string]any) string { panic("kaboom") },
	}}

	out := CallTool(context.Background(), tools, "explode", nil)
	assert.Equal(t, "Tool explode failed: kaboom", errorOf(t, out))
}
