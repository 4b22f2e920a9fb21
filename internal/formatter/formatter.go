// Package formatter renders execution results into natural-language answers.
// Formatting is purely deterministic: the rendering case is chosen from the
// shape of the result (column names, column count, row count) and no model
// call is ever made here.
package formatter

import (
	"fmt"
	"strings"

	"github.com/wasii25/askdb/internal/executor"
)

const (
	noResultsMessage    = "I couldn't find any results for your question."
	genericErrorMessage = "Unknown error"
	previewSize         = 5
	inlineListMax       = 10
	fullDetailMax       = 3
)

// handler is one guarded rendering case. Handlers are evaluated in order and
// the first match wins, making precedence explicit.
type handler struct {
	name    string
	matches func(result executor.Result) bool
	render  func(result executor.Result) string
}

// Formatter maps result records onto answers
type Formatter struct {
	handlers []handler
}

// New creates a formatter with the standard case ordering: single value,
// name pair, single column, two columns, small wide result, wide summary.
func New() *Formatter {
	return &Formatter{
		handlers: []handler{
			{
				name: "single_value",
				matches: func(r executor.Result) bool {
					return r.Count == 1 && len(r.Rows[0].Columns) == 1
				},
				render: renderSingleValue,
			},
			{
				name: "name_pair",
				matches: func(r executor.Result) bool {
					return r.Rows[0].Has("first_name") && r.Rows[0].Has("last_name")
				},
				render: renderNamePair,
			},
			{
				name: "single_column",
				matches: func(r executor.Result) bool {
					return len(r.Rows[0].Columns) == 1
				},
				render: renderSingleColumn,
			},
			{
				name: "two_columns",
				matches: func(r executor.Result) bool {
					return len(r.Rows[0].Columns) == 2
				},
				render: renderTwoColumns,
			},
			{
				name: "wide_detail",
				matches: func(r executor.Result) bool {
					return r.Count <= fullDetailMax
				},
				render: renderWideDetail,
			},
			{
				name:    "wide_summary",
				matches: func(_ executor.Result) bool { return true },
				render:  renderWideSummary,
			},
		},
	}
}

// Format converts a result record into the final user-facing answer
func (f *Formatter) Format(result executor.Result) string {
	if !result.Success() {
		msg := result.Err
		if msg == "" {
			msg = genericErrorMessage
		}

		return "I encountered an error: " + msg
	}

	if result.Count == 0 || len(result.Rows) == 0 {
		return noResultsMessage
	}

	for _, h := range f.handlers {
		if h.matches(result) {
			return h.render(result)
		}
	}

	// The last handler matches everything; this is unreachable.
	return noResultsMessage
}

func renderSingleValue(result executor.Result) string {
	row := result.Rows[0]
	return "Result: " + formatValue(row.Get(row.Columns[0]))
}

func renderNamePair(result executor.Result) string {
	names := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		names = append(names, fmt.Sprintf("%s %s",
			formatValue(row.Get("first_name")), formatValue(row.Get("last_name"))))
	}

	if result.Count == 1 {
		return "Found 1 student: " + names[0]
	}

	return fmt.Sprintf("Found %d students: %s", result.Count, strings.Join(names, ", "))
}

func renderSingleColumn(result executor.Result) string {
	column := result.Rows[0].Columns[0]

	values := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		values = append(values, formatValue(row.Get(column)))
	}

	if result.Count == 1 {
		return fmt.Sprintf("Found 1 %s: %s", singularLabel(column), values[0])
	}

	return fmt.Sprintf("Found %d %s: %s",
		result.Count, pluralLabel(column), strings.Join(values, ", "))
}

func renderTwoColumns(result executor.Result) string {
	columns := result.Rows[0].Columns

	entries := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		entries = append(entries, fmt.Sprintf("%s - %s",
			formatValue(row.Get(columns[0])), formatValue(row.Get(columns[1]))))
	}

	switch {
	case result.Count == 1:
		return "Found 1 result: " + entries[0]
	case result.Count <= inlineListMax:
		return fmt.Sprintf("Found %d results: %s", result.Count, strings.Join(entries, ", "))
	default:
		preview := strings.Join(entries[:previewSize], ", ")
		return fmt.Sprintf("Found %d results: %s, and %d more",
			result.Count, preview, result.Count-previewSize)
	}
}

func renderWideDetail(result executor.Result) string {
	lines := make([]string, 0, len(result.Rows))
	for i, row := range result.Rows {
		lines = append(lines, fmt.Sprintf("Result %d: %s", i+1, rowPairs(row)))
	}

	return strings.Join(lines, "\n")
}

func renderWideSummary(result executor.Result) string {
	return fmt.Sprintf("Found %d results. Example: %s", result.Count, rowPairs(result.Rows[0]))
}

// rowPairs renders a row's non-null values as comma-joined key: value pairs,
// in column order.
func rowPairs(row executor.Row) string {
	parts := make([]string, 0, len(row.Columns))

	for _, column := range row.Columns {
		value := row.Get(column)
		if value == nil {
			continue
		}

		parts = append(parts, fmt.Sprintf("%s: %s", column, formatValue(value)))
	}

	return strings.Join(parts, ", ")
}

// singularLabel turns a column name into a singular natural label
func singularLabel(column string) string {
	return strings.ReplaceAll(column, "_", " ")
}

// pluralLabel turns a column name into a plural natural label. Columns
// already containing "name" get the final "name" segment pluralized instead
// of a trailing "s".
func pluralLabel(column string) string {
	spaced := strings.ReplaceAll(column, "_", " ")

	if idx := strings.LastIndex(spaced, "name"); idx >= 0 {
		return spaced[:idx] + "names" + spaced[idx+len("name"):]
	}

	return spaced + "s"
}

// formatValue stringifies a cell value; nil renders as empty
func formatValue(value any) string {
	if value == nil {
		return ""
	}

	if f, ok := value.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}

	return fmt.Sprintf("%v", value)
}
