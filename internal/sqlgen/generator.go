// Package sqlgen turns a natural-language question into a single executable
// SELECT statement: a prompt-driven generator in front of the LLM, and a
// deterministic extractor that recovers the statement from the raw completion.
package sqlgen

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wasii25/askdb/internal/errors"
	"github.com/wasii25/askdb/internal/llm"
)

const promptTemplate = `%s

User Question: %s

Task: Generate a valid PostgreSQL SELECT query to answer this question.

Rules:
- Only SELECT statements (no INSERT, UPDATE, DELETE)
- Use proper PostgreSQL syntax
- Join tables when needed
- Limit to %d rows max
- Return ONLY the SQL query, no explanation

SQL Query:`

// Generator builds prompts and requests completions from the LLM service
type Generator struct {
	service  llm.Service
	rowLimit int
	logger   *logrus.Logger
}

// NewGenerator creates a generator. rowLimit is the cap embedded in the
// prompt's instruction block.
func NewGenerator(service llm.Service, rowLimit int, logger *logrus.Logger) *Generator {
	return &Generator{
		service:  service,
		rowLimit: rowLimit,
		logger:   logger,
	}
}

// BuildPrompt embeds the schema text and question verbatim into the fixed
// instruction template.
func (g *Generator) BuildPrompt(schemaText, question string) string {
	return fmt.Sprintf(promptTemplate, schemaText, question, g.rowLimit)
}

// Generate invokes the text-generation capability exactly once and returns
// its raw output unmodified. A capability failure is surfaced as a
// generation error, never a crash.
func (g *Generator) Generate(ctx context.Context, schemaText, question string) (string, error) {
	prompt := g.BuildPrompt(schemaText, question)

	g.logger.WithField("question", question).Debug("generating SQL")

	raw, err := g.service.Complete(ctx, prompt)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrTypeGeneration, "no text produced")
	}

	return raw, nil
}
