// Package mcp provides the tool-invocation session to the database. The
// pipeline never opens a database driver directly; every schema lookup and
// query runs through the named remote operations of an MCP server.
package mcp

import (
	"context"
	"encoding/json"
)

// TableRef identifies one table as returned by the list_tables operation.
// Servers disagree on the key, so both spellings are accepted.
type TableRef struct {
	TableName string `json:"table_name"`
	Name      string `json:"name"`
}

// Label returns whichever name field the server populated.
func (t TableRef) Label() string {
	if t.TableName != "" {
		return t.TableName
	}

	return t.Name
}

// ColumnInfo describes one column as returned by the describe_table operation
type ColumnInfo struct {
	ColumnName string `json:"column_name"`
	Name       string `json:"name"`
	DataType   string `json:"data_type"`
	Type       string `json:"type"`
	IsNullable string `json:"is_nullable"`
}

// Label returns whichever column-name field the server populated.
func (c ColumnInfo) Label() string {
	if c.ColumnName != "" {
		return c.ColumnName
	}

	return c.Name
}

// DeclaredType returns whichever type field the server populated.
func (c ColumnInfo) DeclaredType() string {
	if c.DataType != "" {
		return c.DataType
	}

	return c.Type
}

// Nullable reports whether the column accepts NULL
func (c ColumnInfo) Nullable() bool {
	return c.IsNullable == "YES"
}

// Session exposes the named remote operations the pipeline depends on. The
// session must be established before any operation is callable and torn down
// via Close when the pipeline shuts down.
type Session interface {
	// ListTables enumerates the tables visible to the session.
	ListTables(ctx context.Context) ([]TableRef, error)

	// DescribeTable returns the column descriptors for one table.
	DescribeTable(ctx context.Context, table string) ([]ColumnInfo, error)

	// Query runs a SQL statement and returns the raw JSON payload: either an
	// array of row objects or a single object, possibly carrying an error field.
	Query(ctx context.Context, sql string) (json.RawMessage, error)

	// Close releases the session and any underlying process.
	Close() error
}
