package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wasii25/askdb/internal/config"
	apperrors "github.com/wasii25/askdb/internal/errors"
)

const protocolVersion = "2024-11-05"

// closeGracePeriod bounds how long Close waits for the server to exit on its
// own after stdin is closed before killing it.
const closeGracePeriod = 3 * time.Second

// rpcRequest is a JSON-RPC 2.0 request or notification (no ID)
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// toolResult is the result payload of a tools/call response. The useful data
// is JSON serialized again inside the first text content block.
type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

// StdioSession speaks JSON-RPC 2.0 to an MCP server subprocess over its
// standard streams. Calls are serialized; the pipeline is single-flow and the
// session is treated as a non-reentrant resource.
type StdioSession struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *json.Encoder
	dec    *json.Decoder
	logger *logrus.Logger

	// closeGrace is how long Close waits before killing the server.
	closeGrace time.Duration

	mu sync.Mutex
}

// Connect launches the configured MCP server and performs the initialize
// handshake. A failure here is the only fatal startup condition of the
// pipeline.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *logrus.Logger) (*StdioSession, error) {
	cmd := exec.Command(cfg.ServerCommand, cfg.URL)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, apperrors.NewSessionError("failed to open server stdin", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, apperrors.NewSessionError("failed to open server stdout", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, apperrors.NewSessionError(
			fmt.Sprintf("failed to start %s", cfg.ServerCommand), err)
	}

	s := &StdioSession{
		cmd:        cmd,
		stdin:      stdin,
		enc:        json.NewEncoder(stdin),
		dec:        json.NewDecoder(stdout),
		logger:     logger,
		closeGrace: closeGracePeriod,
	}

	if err := s.initialize(ctx); err != nil {
		_ = s.Close()
		return nil, apperrors.NewSessionError("failed to initialize MCP session", err)
	}

	logger.WithField("server", cfg.ServerCommand).Info("MCP session established")

	return s, nil
}

// newPipeSession wires a session over raw streams, bypassing process startup.
// Used by tests with scripted peers.
func newPipeSession(in io.Reader, out io.WriteCloser, logger *logrus.Logger) *StdioSession {
	return &StdioSession{
		stdin:  out,
		enc:    json.NewEncoder(out),
		dec:    json.NewDecoder(in),
		logger: logger,
	}
}

func (s *StdioSession) initialize(ctx context.Context) error {
	params := map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "askdb",
			"version": "0.1.0",
		},
	}

	if _, err := s.call(ctx, "initialize", params); err != nil {
		return err
	}

	// Per protocol, the client confirms readiness with a notification.
	return s.enc.Encode(rpcRequest{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	})
}

// call performs one request/response exchange, skipping any server-initiated
// notifications interleaved on the stream.
func (s *StdioSession) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()

	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	}

	if err := s.enc.Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send %s request: %w", method, err)
	}

	for {
		var resp rpcResponse
		if err := s.dec.Decode(&resp); err != nil {
			return nil, fmt.Errorf("failed to read %s response: %w", method, err)
		}

		if resp.ID == "" {
			// Notification from the server; not ours.
			continue
		}

		if resp.ID != id {
			s.logger.WithFields(logrus.Fields{
				"expected": id,
				"got":      resp.ID,
			}).Warn("discarding response for unknown request")

			continue
		}

		if resp.Error != nil {
			return nil, fmt.Errorf("%s failed: %s (code %d)", method, resp.Error.Message, resp.Error.Code)
		}

		return resp.Result, nil
	}
}

// callTool runs a named tool and returns the JSON payload embedded in the
// first text content block of the result.
func (s *StdioSession) callTool(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	result, err := s.call(ctx, "tools/call", map[string]any{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		return nil, err
	}

	var tr toolResult
	if err := json.Unmarshal(result, &tr); err != nil {
		return nil, fmt.Errorf("malformed tool result for %s: %w", name, err)
	}

	if len(tr.Content) == 0 {
		return nil, fmt.Errorf("tool %s returned no content", name)
	}

	if tr.IsError {
		return nil, fmt.Errorf("tool %s failed: %s", name, tr.Content[0].Text)
	}

	return json.RawMessage(tr.Content[0].Text), nil
}

// ListTables enumerates the tables visible to the session
func (s *StdioSession) ListTables(ctx context.Context) ([]TableRef, error) {
	payload, err := s.callTool(ctx, "list_tables", map[string]any{})
	if err != nil {
		return nil, err
	}

	var tables []TableRef
	if err := json.Unmarshal(payload, &tables); err != nil {
		return nil, fmt.Errorf("malformed list_tables payload: %w", err)
	}

	return tables, nil
}

// DescribeTable returns the column descriptors for one table
func (s *StdioSession) DescribeTable(ctx context.Context, table string) ([]ColumnInfo, error) {
	payload, err := s.callTool(ctx, "describe_table", map[string]any{
		"table_name": table,
	})
	if err != nil {
		return nil, err
	}

	var columns []ColumnInfo
	if err := json.Unmarshal(payload, &columns); err != nil {
		return nil, fmt.Errorf("malformed describe_table payload: %w", err)
	}

	return columns, nil
}

// Query runs a SQL statement and returns the raw JSON payload
func (s *StdioSession) Query(ctx context.Context, sql string) (json.RawMessage, error) {
	return s.callTool(ctx, "query", map[string]any{
		"sql": sql,
	})
}

// Close tears the session down, releasing the server process on every exit
// path. A server that does not exit on closed stdin is killed after the
// grace period. Safe to call after a failed connect.
func (s *StdioSession) Close() error {
	if s.stdin != nil {
		_ = s.stdin.Close()
	}

	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- s.cmd.Wait()
	}()

	var err error
	select {
	case err = <-done:
	case <-time.After(s.closeGrace):
		s.logger.Warn("MCP server did not exit on closed stdin, killing it")

		_ = s.cmd.Process.Kill()
		err = <-done
	}

	if err != nil {
		// The server exiting on closed stdin or on the kill above is
		// expected; only report genuinely abnormal terminations.
		if _, ok := err.(*exec.ExitError); !ok {
			return fmt.Errorf("failed to release MCP server: %w", err)
		}
	}

	return nil
}
