// Package executor sends extracted statements through the tool-invocation
// session and normalizes the response payload into a uniform result record.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wasii25/askdb/internal/errors"
	"github.com/wasii25/askdb/internal/mcp"
)

// Row is one result row: column-name to value pairs with the column order
// preserved as returned by the query.
type Row struct {
	Columns []string
	Values  map[string]any
}

// Get returns the value for a column
func (r Row) Get(column string) any {
	return r.Values[column]
}

// Has reports whether the row contains a column
func (r Row) Has(column string) bool {
	_, ok := r.Values[column]
	return ok
}

// UnmarshalJSON decodes a JSON object while recording key order. Standard
// map decoding would lose the column order the formatter depends on.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row is not a JSON object")
	}

	r.Columns = nil
	r.Values = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}

		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("row has non-string key")
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}

		if _, dup := r.Values[key]; !dup {
			r.Columns = append(r.Columns, key)
		}

		r.Values[key] = value
	}

	// closing brace
	_, err = dec.Token()

	return err
}

// errorMessage extracts a truthy error indicator from a single-object payload
func (r Row) errorMessage() (string, bool) {
	value, ok := r.Values["error"]
	if !ok || value == nil {
		return "", false
	}

	if s, ok := value.(string); ok {
		if s == "" {
			return "", false
		}

		return s, true
	}

	return fmt.Sprintf("%v", value), true
}

// Result is the tagged outcome of one execution: either rows with a count,
// or a failure message.
type Result struct {
	Rows  []Row
	Count int
	Err   string
}

// Success reports whether the execution produced rows (possibly zero)
func (r Result) Success() bool {
	return r.Err == ""
}

// Executor runs statements through the tool-invocation session
type Executor struct {
	session mcp.Session
	logger  *logrus.Logger
}

// NewExecutor creates an executor bound to a session
func NewExecutor(session mcp.Session, logger *logrus.Logger) *Executor {
	return &Executor{
		session: session,
		logger:  logger,
	}
}

// Execute sends the statement to the session's query operation and
// classifies the payload. A single failed attempt is reported upward; a
// malformed statement will not be fixed by re-sending the same bytes, so
// there are no retries here.
func (e *Executor) Execute(ctx context.Context, sql string) Result {
	e.logger.WithField("sql", sql).Debug("executing query")

	payload, err := e.session.Query(ctx, sql)
	if err != nil {
		e.logger.WithError(errors.Wrap(err, errors.ErrTypeExecution, "query failed")).
			Debug("query failed")

		// The answer surface shows the cause alone; the type prefix is a
		// logging concern.
		return Result{Err: err.Error()}
	}

	result := Classify(payload)
	if result.Success() {
		e.logger.WithField("rows", result.Count).Debug("query succeeded")
	} else {
		e.logger.WithField("error", result.Err).Debug("query returned error payload")
	}

	return result
}

// Classify maps a raw JSON payload onto the result record: an array of
// objects is a row set; a single object is an error when it carries a truthy
// error field, an empty success when empty, and a one-row success otherwise.
func Classify(payload json.RawMessage) Result {
	trimmed := bytes.TrimSpace(payload)

	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Result{Rows: []Row{}, Count: 0}
	}

	switch trimmed[0] {
	case '[':
		var rows []Row
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return Result{Err: fmt.Sprintf("malformed result payload: %v", err)}
		}

		return Result{Rows: rows, Count: len(rows)}

	case '{':
		var row Row
		if err := json.Unmarshal(trimmed, &row); err != nil {
			return Result{Err: fmt.Sprintf("malformed result payload: %v", err)}
		}

		if msg, ok := row.errorMessage(); ok {
			return Result{Err: msg}
		}

		if len(row.Columns) == 0 {
			return Result{Rows: []Row{}, Count: 0}
		}

		return Result{Rows: []Row{row}, Count: 1}

	default:
		return Result{Err: fmt.Sprintf("malformed result payload: %s", string(trimmed))}
	}
}
