package formatter

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasii25/askdb/internal/executor"
)

// resultFromJSON builds a result via the executor's own classification so
// column order matches what the pipeline sees.
func resultFromJSON(t *testing.T, payload string) executor.Result {
	t.Helper()

	result := executor.Classify(json.RawMessage(payload))
	require.True(t, result.Success(), "payload classified as failure: %s", result.Err)

	return result
}

func TestFormat_Failure(t *testing.T) {
	f := New()

	answer := f.Format(executor.Result{Err: "relation does not exist"})
	assert.Equal(t, "I encountered an error: relation does not exist", answer)

	answer = f.Format(executor.Result{Err: ""})
	// An empty result with no rows is "no results", not an error.
	assert.Equal(t, noResultsMessage, answer)
}

func TestFormat_NoResults(t *testing.T) {
	f := New()

	assert.Equal(t, noResultsMessage, f.Format(resultFromJSON(t, `[]`)))
	assert.Equal(t, noResultsMessage, f.Format(resultFromJSON(t, `null`)))
}

func TestFormat_SingleValue(t *testing.T) {
	f := New()

	answer := f.Format(resultFromJSON(t, `[{"count":7}]`))
	assert.Equal(t, "Result: 7", answer)
}

func TestFormat_SingleValueString(t *testing.T) {
	f := New()

	answer := f.Format(resultFromJSON(t, `[{"title":"Algorithms"}]`))
	assert.Equal(t, "Result: Algorithms", answer)
}

func TestFormat_NamePair(t *testing.T) {
	f := New()

	answer := f.Format(resultFromJSON(t,
		`[{"first_name":"A","last_name":"B"},{"first_name":"C","last_name":"D"}]`))
	assert.Equal(t, "Found 2 students: A B, C D", answer)
}

func TestFormat_NamePairSingular(t *testing.T) {
	f := New()

	answer := f.Format(resultFromJSON(t,
		`[{"first_name":"Ada","last_name":"Lovelace","grade":"A"}]`))
	// Name pair wins over wide cases whenever both name columns are present.
	assert.Equal(t, "Found 1 student: Ada Lovelace", answer)
}

func TestFormat_SingleColumn(t *testing.T) {
	f := New()

	tests := []struct {
		name     string
		payload  string
		expected string
	}{
		{
			name:     "plural with derived label",
			payload:  `[{"code":"CS201"},{"code":"MATH101"}]`,
			expected: "Found 2 codes: CS201, MATH101",
		},
		{
			name:     "underscored column",
			payload:  `[{"course_title":"Algorithms"},{"course_title":"Calculus I"}]`,
			expected: "Found 2 course titles: Algorithms, Calculus I",
		},
		{
			name:     "name column pluralizes the name segment",
			payload:  `[{"table_name":"students"},{"table_name":"courses"}]`,
			expected: "Found 2 table names: students, courses",
		},
		{
			name:     "singular keeps the plain label",
			payload:  `[{"email":"a@example.edu"},{"email":"b@example.edu"}]`,
			expected: "Found 2 emails: a@example.edu, b@example.edu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Format(resultFromJSON(t, tt.payload)))
		})
	}
}

func TestFormat_TwoColumns(t *testing.T) {
	f := New()

	answer := f.Format(resultFromJSON(t,
		`[{"code":"CS201","title":"Algorithms"},{"code":"MATH101","title":"Calculus I"}]`))
	assert.Equal(t, "Found 2 results: CS201 - Algorithms, MATH101 - Calculus I", answer)
}

func TestFormat_TwoColumnsSingle(t *testing.T) {
	f := New()

	answer := f.Format(resultFromJSON(t, `[{"code":"CS201","title":"Algorithms"}]`))
	// Two columns in one row is still the pair rendering, not "Result: ...".
	assert.Equal(t, "Found 1 result: CS201 - Algorithms", answer)
}

func TestFormat_TwoColumnsTruncated(t *testing.T) {
	f := New()

	rows := make([]string, 0, 12)
	for i := 1; i <= 12; i++ {
		rows = append(rows, fmt.Sprintf(`{"code":"C%02d","title":"T%02d"}`, i, i))
	}

	answer := f.Format(resultFromJSON(t, "["+strings.Join(rows, ",")+"]"))

	assert.True(t, strings.HasPrefix(answer, "Found 12 results: "))
	assert.Equal(t, 5, strings.Count(answer, " - "))
	assert.True(t, strings.HasSuffix(answer, "and 7 more"))
	assert.NotContains(t, answer, "C06")
}

func TestFormat_WideDetail(t *testing.T) {
	f := New()

	answer := f.Format(resultFromJSON(t,
		`[{"id":1,"code":"CS201","title":"Algorithms","credits":null},
		  {"id":2,"code":"MATH101","title":"Calculus I","credits":4}]`))

	lines := strings.Split(answer, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Result 1: id: 1, code: CS201, title: Algorithms", lines[0])
	assert.Equal(t, "Result 2: id: 2, code: MATH101, title: Calculus I, credits: 4", lines[1])
}

func TestFormat_WideSummary(t *testing.T) {
	f := New()

	rows := make([]string, 0, 4)
	for i := 1; i <= 4; i++ {
		rows = append(rows, fmt.Sprintf(`{"id":%d,"code":"C%d","title":"T%d"}`, i, i, i))
	}

	answer := f.Format(resultFromJSON(t, "["+strings.Join(rows, ",")+"]"))

	assert.Equal(t, "Found 4 results. Example: id: 1, code: C1, title: T1", answer)
}

func TestFormat_SingleValueBeatsNamePair(t *testing.T) {
	f := New()

	// A one-row, one-column result is always "Result: ..." even when the
	// column is a name column.
	answer := f.Format(resultFromJSON(t, `[{"first_name":"Ada"}]`))
	assert.Equal(t, "Result: Ada", answer)
}

func TestPluralLabel(t *testing.T) {
	tests := []struct {
		column   string
		expected string
	}{
		{"code", "codes"},
		{"course_title", "course titles"},
		{"table_name", "table names"},
		{"name", "names"},
		{"nickname", "nicknames"},
		{"email", "emails"},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.expected, pluralLabel(tt.column))
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "7", formatValue(float64(7)))
	assert.Equal(t, "3.5", formatValue(3.5))
	assert.Equal(t, "A", formatValue("A"))
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "true", formatValue(true))
}
