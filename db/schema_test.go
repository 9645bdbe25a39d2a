package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogConn() *fakeConn {
	return &fakeConn{rows: &fakeRows{
		fields: fields("table_name", "table_description", "column_name", "data_type", "column_description"),
		data: [][]any{
			{"orders", "Customer orders", "id", "integer", "Primary key"},
			{"orders", "Customer orders", "amount", "numeric", nil},
			{"orders", "Customer orders", "placed_at", "date", ""},
			{"customers", nil, "id", "integer", nil},
			{"customers", nil, "name", "text", "Full name"},
		},
	}}
}

func TestSchema_GroupsByTable(t *testing.T) {
	conn := catalogConn()
	tools := NewTools(&countingConnector{conn: conn}, nil)

	tables, err := tools.Schema(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, tables, 2)

	assert.Equal(t, "orders", tables[0].TableName)
	assert.Equal(t, "Customer orders", tables[0].Description)
	assert.Equal(t, []Column{
		{Name: "id", DataType: "integer", Description: "Primary key"},
		{Name: "amount", DataType: "numeric", Description: NoDescription},
		{Name: "placed_at", DataType: "date", Description: NoDescription},
	}, tables[0].Columns)

	assert.Equal(t, "customers", tables[1].TableName)
	assert.Equal(t, NoDescription, tables[1].Description)
	assert.Len(t, tables[1].Columns, 2)

	for _, tbl := range tables {
		assert.NotEmpty(t, tbl.Columns)
	}

	require.Len(t, conn.args, 1)
	assert.Equal(t, []any{DefaultSchema}, conn.args[0])
	assert.Equal(t, 1, conn.closed)
}

func TestGetSchema_JSON(t *testing.T) {
	tools := NewTools(&countingConnector{conn: catalogConn()}, nil)

	out, err := tools.GetSchema(context.Background(), "sales")
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "orders", decoded[0]["table_name"])
	cols := decoded[0]["columns"].([]any)
	assert.Contains(t, cols[0].(map[string]any), "data_type")
	assert.Contains(t, out, "\n    {")
}

func TestGetSchema_Empty(t *testing.T) {
	tools := NewTools(&countingConnector{conn: &fakeConn{rows: &fakeRows{}}}, nil)

	out, err := tools.GetSchema(context.Background(), "empty")
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestSchema_QueryErrorClosesConnection(t *testing.T) {
	conn := &fakeConn{queryErr: errors.New("permission denied for schema secret")}
	tools := NewTools(&countingConnector{conn: conn}, nil)

	_, err := tools.GetSchema(context.Background(), "secret")
	assert.ErrorContains(t, err, "permission denied")
	assert.Equal(t, 1, conn.closed)
}
