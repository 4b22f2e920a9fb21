package cmd

import (
	"context"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/wasii25/askdb/internal/agent"
	"github.com/wasii25/askdb/internal/llm"
	"github.com/wasii25/askdb/internal/mcp"
)

// connectAgent starts the MCP database server, introspects the schema, and
// returns a ready agent. The caller owns the session and must Close it.
func connectAgent(ctx context.Context) (*agent.Agent, *mcp.StdioSession, error) {
	spin := newSpinner("Connecting to database...")
	spin.Start()

	session, err := mcp.Connect(ctx, cfg.Database, logger)

	spin.Stop()

	if err != nil {
		return nil, nil, err
	}

	spin = newSpinner("Loading schema...")
	spin.Start()

	service := llm.NewOllamaClient(cfg.LLM)
	a := agent.New(ctx, session, service, agent.Options{
		MinSchemaTables: cfg.Pipeline.MinSchemaTables,
		RowLimit:        cfg.Pipeline.RowLimit,
	}, logger)

	spin.Stop()

	return a, session, nil
}

func newSpinner(suffix string) *spinner.Spinner {
	spin := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithWriter(os.Stderr),
	)
	spin.Suffix = " " + suffix

	return spin
}
