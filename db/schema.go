// schema.go implements the get_schema tool.
//
// One catalog query lists every column of every base table in a schema
// together with the table and column comments. The flat row set is
// grouped by table in first-seen order, columns stay in ordinal order.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// DefaultSchema is the schema inspected when the agent names none.
const DefaultSchema = "ReportingWithAIAgent"

// NoDescription replaces missing table and column comments.
const NoDescription = "No description provided."

// Column describes a single column in a table.
type Column struct {
	Name        string `json:"name"`
	DataType    string `json:"data_type"`
	Description string `json:"description"`
}

// Table describes a base table and its columns.
type Table struct {
	TableName   string   `json:"table_name"`
	Description string   `json:"description"`
	Columns     []Column `json:"columns"`
}

const schemaQuery = `
	SELECT
		c.table_name::text,
		obj_description(('"' || c.table_schema || '"."' || c.table_name || '"')::regclass) AS table_description,
		c.column_name::text,
		c.data_type::text,
		col_description(('"' || c.table_schema || '"."' || c.table_name || '"')::regclass, c.ordinal_position) AS column_description
	FROM information_schema.columns AS c
	INNER JOIN information_schema.tables AS t
		ON c.table_name = t.table_name AND c.table_schema = t.table_schema
	WHERE c.table_schema = $1 AND t.table_type = 'BASE TABLE'
	ORDER BY c.table_name, c.ordinal_position`

// Tools runs the two SQL tools against connections from a Connector.
type Tools struct {
	connector Connector
	log       *zap.Logger
}

// NewTools creates the SQL tools.
func NewTools(connector Connector, log *zap.Logger) *Tools {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tools{connector: connector, log: log}
}

// Schema returns the tables of schemaName. An empty name means DefaultSchema.
func (t *Tools) Schema(ctx context.Context, schemaName string) ([]Table, error) {
	if schemaName == "" {
		schemaName = DefaultSchema
	}

	tables := []Table{}
	err := withConn(ctx, t.connector, func(conn Conn) error {
		rows, err := conn.Query(ctx, schemaQuery, schemaName)
		if err != nil {
			return err
		}
		defer rows.Close()

		index := make(map[string]int)
		for rows.Next() {
			var (
				tableName, colName, colType string
				tableDesc, colDesc          *string
			)
			if err := rows.Scan(&tableName, &tableDesc, &colName, &colType, &colDesc); err != nil {
				return err
			}

			i, ok := index[tableName]
			if !ok {
				i = len(tables)
				index[tableName] = i
				tables = append(tables, Table{
					TableName:   tableName,
					Description: orPlaceholder(tableDesc),
					Columns:     []Column{},
				})
			}
			tables[i].Columns = append(tables[i].Columns, Column{
				Name:        colName,
				DataType:    colType,
				Description: orPlaceholder(colDesc),
			})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("get schema %s: %w", schemaName, err)
	}

	t.log.Debug("schema fetched", zap.String("schema", schemaName), zap.Int("tables", len(tables)))
	return tables, nil
}

// GetSchema is the get_schema tool: the schema as an indented JSON string.
func (t *Tools) GetSchema(ctx context.Context, schemaName string) (string, error) {
	tables, err := t.Schema(ctx, schemaName)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(tables, "", "    ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func orPlaceholder(s *string) string {
	if s == nil || *s == "" {
		return NoDescription
	}
	return *s
}
