// query.go implements the execute_sql tool.
//
// Only statements starting with SELECT are run. Results are returned as
// a JSON list of row objects whose keys keep the statement's column
// order. Failures never escape as Go errors: they come back to the agent
// as {"error": "..."} so it can correct itself.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
)

// ErrNotSelect rejects any statement that is not a retrieval.
var ErrNotSelect = errors.New("Invalid query. Only SELECT queries are allowed.") //nolint:staticcheck

// Row is one result row keyed by column name, in column order.
type Row = *orderedmap.OrderedMap[string, any]

// IsSelect reports whether query lexically starts with SELECT,
// ignoring case and surrounding whitespace.
func IsSelect(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT")
}

// Query runs a read-only statement and returns its rows.
// Non-SELECT input returns ErrNotSelect without opening a connection.
func (t *Tools) Query(ctx context.Context, query string) ([]Row, error) {
	if !IsSelect(query) {
		return nil, ErrNotSelect
	}

	result := []Row{}
	err := withConn(ctx, t.connector, func(conn Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		var columns []string
		var oids []uint32
		describe := func() {
			for _, fd := range rows.FieldDescriptions() {
				columns = append(columns, fd.Name)
				oids = append(oids, fd.DataTypeOID)
			}
		}

		for rows.Next() {
			if columns == nil {
				describe()
			}
			values, err := rows.Values()
			if err != nil {
				return err
			}
			row := orderedmap.New[string, any](len(columns))
			for i, col := range columns {
				if i < len(values) {
					row.Set(col, normalizeValue(values[i], oids[i]))
				}
			}
			result = append(result, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	t.log.Debug("query executed", zap.Int("rows", len(result)))
	return result, nil
}

// ExecuteSQL is the execute_sql tool. It always returns a JSON string.
func (t *Tools) ExecuteSQL(ctx context.Context, query string) string {
	rows, err := t.Query(ctx, query)
	if errors.Is(err, ErrNotSelect) {
		t.log.Warn("rejected non-select statement", zap.String("query", truncate(query, 120)))
		return ErrorJSON(err.Error())
	}
	if err != nil {
		t.log.Warn("query failed", zap.Error(err))
		return ErrorJSON(fmt.Sprintf("Query execution failed: %v", err))
	}

	out, err := json.MarshalIndent(rows, "", "    ")
	if err != nil {
		return ErrorJSON(fmt.Sprintf("Query execution failed: %v", err))
	}
	return string(out)
}

// ErrorJSON renders {"error": msg}.
func ErrorJSON(msg string) string {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return string(out)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
