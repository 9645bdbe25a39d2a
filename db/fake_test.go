package db

import (
	"context"
	"errors"
	"reflect"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRows struct {
	fields []pgconn.FieldDescription
	data   [][]any
	i      int
	err    error
	closed bool
}

var _ pgx.Rows = (*fakeRows)(nil)

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.i < len(r.data) {
		r.i++
		return true
	}
	return false
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.i-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	if len(dest) != len(row) {
		return errors.New("scan: column count mismatch")
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		rv := reflect.ValueOf(row[i])
		if dv.Kind() == reflect.Ptr && rv.Kind() != reflect.Ptr {
			p := reflect.New(dv.Type().Elem())
			p.Elem().Set(rv)
			dv.Set(p)
			continue
		}
		dv.Set(rv)
	}
	return nil
}

type fakeConn struct {
	rows     *fakeRows
	queryErr error
	queries  []string
	args     [][]any
	closed   int
}

func (c *fakeConn) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.queries = append(c.queries, sql)
	c.args = append(c.args, args)
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	c.rows.i = 0
	return c.rows, nil
}

func (c *fakeConn) Close(context.Context) error {
	c.closed++
	return nil
}

// countingConnector hands out the same fake connection and counts opens.
type countingConnector struct {
	conn       *fakeConn
	connectErr error
	opens      int
}

func (c *countingConnector) Connect(context.Context) (Conn, error) {
	c.opens++
	if c.connectErr != nil {
		return nil, c.connectErr
	}
	return c.conn, nil
}

func fields(names ...string) []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(names))
	for i, n := range names {
		fds[i] = pgconn.FieldDescription{Name: n}
	}
	return fds
}
