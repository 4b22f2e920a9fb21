package mcp

import (
	"context"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedServer mimics an MCP server on in-memory pipes. Tool payloads are
// returned verbatim as the text content block of a tools/call result.
type scriptedServer struct {
	toolPayloads map[string]string
	toolErrors   map[string]string
	// emits a stray notification before each response when set
	notifyFirst bool
}

func startSession(t *testing.T, server *scriptedServer) *StdioSession {
	t.Helper()

	clientReads, serverWrites := io.Pipe()
	serverReads, clientWrites := io.Pipe()

	go server.serve(serverReads, serverWrites)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return newPipeSession(clientReads, clientWrites, logger)
}

func (s *scriptedServer) serve(in io.Reader, out io.WriteCloser) {
	dec := json.NewDecoder(in)
	enc := json.NewEncoder(out)

	for {
		var req rpcRequest
		if err := dec.Decode(&req); err != nil {
			_ = out.Close()
			return
		}

		if req.ID == "" {
			// notifications need no reply
			continue
		}

		if s.notifyFirst {
			_ = enc.Encode(rpcRequest{JSONRPC: "2.0", Method: "notifications/progress"})
		}

		switch req.Method {
		case "initialize":
			_ = enc.Encode(map[string]any{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  map[string]any{"protocolVersion": protocolVersion},
			})
		case "tools/call":
			params := req.Params.(map[string]any)
			name := params["name"].(string)

			if msg, ok := s.toolErrors[name]; ok {
				_ = enc.Encode(map[string]any{
					"jsonrpc": "2.0",
					"id":      req.ID,
					"error":   map[string]any{"code": -32000, "message": msg},
				})

				continue
			}

			_ = enc.Encode(map[string]any{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result": map[string]any{
					"content": []map[string]any{
						{"type": "text", "text": s.toolPayloads[name]},
					},
				},
			})
		}
	}
}

func TestStdioSession_ListTables(t *testing.T) {
	session := startSession(t, &scriptedServer{
		toolPayloads: map[string]string{
			"list_tables": `[{"table_name":"students"},{"table_name":"courses"}]`,
		},
	})

	tables, err := session.ListTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "students", tables[0].Label())
	assert.Equal(t, "courses", tables[1].Label())
}

func TestStdioSession_ListTablesAlternateKey(t *testing.T) {
	session := startSession(t, &scriptedServer{
		toolPayloads: map[string]string{
			"list_tables": `[{"name":"enrollments"}]`,
		},
	})

	tables, err := session.ListTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "enrollments", tables[0].Label())
}

func TestStdioSession_DescribeTable(t *testing.T) {
	session := startSession(t, &scriptedServer{
		toolPayloads: map[string]string{
			"describe_table": `[
				{"column_name":"id","data_type":"integer","is_nullable":"NO"},
				{"column_name":"first_name","data_type":"text","is_nullable":"YES"}
			]`,
		},
	})

	columns, err := session.DescribeTable(context.Background(), "students")
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, "id", columns[0].Label())
	assert.Equal(t, "integer", columns[0].DeclaredType())
	assert.False(t, columns[0].Nullable())
	assert.True(t, columns[1].Nullable())
}

func TestStdioSession_QueryPassesPayloadThrough(t *testing.T) {
	session := startSession(t, &scriptedServer{
		toolPayloads: map[string]string{
			"query": `[{"count":7}]`,
		},
	})

	payload, err := session.Query(context.Background(), "SELECT COUNT(*) AS count FROM students")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"count":7}]`, string(payload))
}

func TestStdioSession_RPCError(t *testing.T) {
	session := startSession(t, &scriptedServer{
		toolErrors: map[string]string{
			"query": "relation does not exist",
		},
	})

	_, err := session.Query(context.Background(), "SELECT * FROM nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relation does not exist")
}

func TestStdioSession_SkipsNotifications(t *testing.T) {
	session := startSession(t, &scriptedServer{
		notifyFirst: true,
		toolPayloads: map[string]string{
			"list_tables": `[{"table_name":"students"}]`,
		},
	})

	tables, err := session.ListTables(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestStdioSession_ContextCancelled(t *testing.T) {
	session := startSession(t, &scriptedServer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := session.Query(ctx, "SELECT 1")
	assert.Error(t, err)
}

func TestStdioSession_CloseKillsServerIgnoringClosedStdin(t *testing.T) {
	// sleep never reads stdin, standing in for a server that does not exit
	// when its input closes.
	cmd := exec.Command("sleep", "30")
	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	session := &StdioSession{
		cmd:        cmd,
		stdin:      stdin,
		enc:        json.NewEncoder(stdin),
		dec:        json.NewDecoder(strings.NewReader("")),
		logger:     logger,
		closeGrace: 100 * time.Millisecond,
	}

	start := time.Now()
	require.NoError(t, session.Close())
	assert.Less(t, time.Since(start), 5*time.Second)
}
