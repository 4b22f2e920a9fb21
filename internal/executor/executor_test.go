package executor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasii25/askdb/internal/mcp"
)

// fakeSession scripts the query operation for executor tests
type fakeSession struct {
	payload json.RawMessage
	err     error
	lastSQL string
}

func (f *fakeSession) ListTables(_ context.Context) ([]mcp.TableRef, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSession) DescribeTable(_ context.Context, _ string) ([]mcp.ColumnInfo, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSession) Query(_ context.Context, sql string) (json.RawMessage, error) {
	f.lastSQL = sql
	return f.payload, f.err
}

func (f *fakeSession) Close() error { return nil }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}

func TestRow_UnmarshalPreservesColumnOrder(t *testing.T) {
	var row Row
	require.NoError(t, json.Unmarshal(
		[]byte(`{"zeta":1,"alpha":2,"mid":{"nested":true}}`), &row))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, row.Columns)
	assert.Equal(t, float64(1), row.Get("zeta"))
	assert.True(t, row.Has("mid"))
}

func TestRow_UnmarshalRejectsNonObject(t *testing.T) {
	var row Row

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &row))
	assert.Error(t, json.Unmarshal([]byte(`"text"`), &row))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantRows  int
		wantCount int
		wantErr   string
	}{
		{
			name:      "array of rows",
			payload:   `[{"first_name":"A","last_name":"B"},{"first_name":"C","last_name":"D"}]`,
			wantRows:  2,
			wantCount: 2,
		},
		{
			name:      "empty array",
			payload:   `[]`,
			wantRows:  0,
			wantCount: 0,
		},
		{
			name:    "object with error indicator",
			payload: `{"error":"relation does not exist"}`,
			wantErr: "relation does not exist",
		},
		{
			name:      "object without error indicator",
			payload:   `{"count":7}`,
			wantRows:  1,
			wantCount: 1,
		},
		{
			name:      "object with empty error string is a row",
			payload:   `{"error":"","count":3}`,
			wantRows:  1,
			wantCount: 1,
		},
		{
			name:      "empty object",
			payload:   `{}`,
			wantRows:  0,
			wantCount: 0,
		},
		{
			name:      "null payload",
			payload:   `null`,
			wantRows:  0,
			wantCount: 0,
		},
		{
			name:    "scalar payload is malformed",
			payload: `42`,
			wantErr: "malformed result payload",
		},
		{
			name:    "array of scalars is malformed",
			payload: `[1,2,3]`,
			wantErr: "malformed result payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(json.RawMessage(tt.payload))

			if tt.wantErr != "" {
				assert.False(t, result.Success())
				assert.Contains(t, result.Err, tt.wantErr)

				return
			}

			require.True(t, result.Success())
			assert.Len(t, result.Rows, tt.wantRows)
			assert.Equal(t, tt.wantCount, result.Count)
		})
	}
}

func TestExecutor_ExecuteSuccess(t *testing.T) {
	session := &fakeSession{payload: json.RawMessage(`[{"code":"CS201","title":"Algorithms"}]`)}
	exec := NewExecutor(session, quietLogger())

	result := exec.Execute(context.Background(), "SELECT code, title FROM courses")

	require.True(t, result.Success())
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "SELECT code, title FROM courses", session.lastSQL)
	assert.Equal(t, []string{"code", "title"}, result.Rows[0].Columns)
}

func TestExecutor_ExecuteErrorPayload(t *testing.T) {
	session := &fakeSession{payload: json.RawMessage(`{"error":"relation does not exist"}`)}
	exec := NewExecutor(session, quietLogger())

	result := exec.Execute(context.Background(), "SELECT * FROM nowhere")

	assert.False(t, result.Success())
	assert.Equal(t, "relation does not exist", result.Err)
}

func TestExecutor_ExecuteTransportFailure(t *testing.T) {
	session := &fakeSession{err: errors.New("broken pipe")}
	exec := NewExecutor(session, quietLogger())

	result := exec.Execute(context.Background(), "SELECT 1")

	assert.False(t, result.Success())
	assert.Contains(t, result.Err, "broken pipe")
}
