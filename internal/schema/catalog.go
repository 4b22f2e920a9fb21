// Package schema acquires and caches the textual description of the database
// structure that grounds every generation request.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wasii25/askdb/internal/errors"
	"github.com/wasii25/askdb/internal/mcp"
)

// Column describes one column of a table
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// Table describes one table and its columns, in declaration order
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Description is the catalog's product: the ordered structured form plus the
// rendered text consumed by prompting. Built once per session, never mutated.
type Description struct {
	Tables   []Table
	Text     string
	Fallback bool
}

// Catalog loads the schema description through the tool-invocation session
type Catalog struct {
	session   mcp.Session
	minTables int
	logger    *logrus.Logger
}

// NewCatalog creates a catalog. minTables is the minimum number of
// successfully described tables below which live introspection is discarded
// in favor of the fallback description.
func NewCatalog(session mcp.Session, minTables int, logger *logrus.Logger) *Catalog {
	return &Catalog{
		session:   session,
		minTables: minTables,
		logger:    logger,
	}
}

// Load enumerates and describes tables via the session. Per-table describe
// failures are swallowed and the table omitted. If fewer than minTables
// tables survive, or the enumeration itself fails, the fallback description
// is returned instead. Load never fails the session.
func (c *Catalog) Load(ctx context.Context) Description {
	tables, err := c.introspect(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("schema introspection failed, using fallback schema")
		return fallbackDescription()
	}

	if len(tables) < c.minTables {
		c.logger.WithFields(logrus.Fields{
			"described": len(tables),
			"minimum":   c.minTables,
		}).Warn("too few tables described, using fallback schema")

		return fallbackDescription()
	}

	c.logger.WithField("tables", len(tables)).Info("schema loaded")

	return Description{
		Tables: tables,
		Text:   Render(tables),
	}
}

func (c *Catalog) introspect(ctx context.Context) ([]Table, error) {
	refs, err := c.session.ListTables(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeSchemaLoad, "failed to list tables")
	}

	tables := make([]Table, 0, len(refs))
	seen := make(map[string]bool, len(refs))

	for _, ref := range refs {
		name := ref.Label()
		if name == "" || seen[name] {
			continue
		}

		columns, err := c.session.DescribeTable(ctx, name)
		if err != nil {
			// Partial success is acceptable; drop just this table.
			wrapped := errors.Wrapf(
				err, errors.ErrTypeSchemaLoad, "failed to describe table %s", name,
			)
			c.logger.WithError(wrapped).Debug("omitting table")

			continue
		}

		table := Table{Name: name, Columns: make([]Column, 0, len(columns))}
		for _, col := range columns {
			table.Columns = append(table.Columns, Column{
				Name:     col.Label(),
				Type:     col.DeclaredType(),
				Nullable: col.Nullable(),
			})
		}

		seen[name] = true
		tables = append(tables, table)
	}

	return tables, nil
}

// Render produces the textual form of a schema: per table, the name followed
// by a comma-joined column list with type and nullability.
func Render(tables []Table) string {
	var sb strings.Builder

	sb.WriteString("Database Schema:\n")

	for _, table := range tables {
		sb.WriteString(fmt.Sprintf("\nTable: %s\n", table.Name))

		columns := make([]string, 0, len(table.Columns))
		for _, col := range table.Columns {
			nullable := "NOT NULL"
			if col.Nullable {
				nullable = "NULL"
			}

			columns = append(columns, fmt.Sprintf("%s %s %s", col.Name, col.Type, nullable))
		}

		sb.WriteString("  Columns: " + strings.Join(columns, ", ") + "\n")
	}

	return sb.String()
}
