// Package agent wires the question-answering pipeline end to end: schema
// description, SQL generation, extraction, execution, and answer formatting.
package agent

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wasii25/askdb/internal/errors"
	"github.com/wasii25/askdb/internal/executor"
	"github.com/wasii25/askdb/internal/formatter"
	"github.com/wasii25/askdb/internal/llm"
	"github.com/wasii25/askdb/internal/mcp"
	"github.com/wasii25/askdb/internal/schema"
	"github.com/wasii25/askdb/internal/sqlgen"
)

// rephraseMessage is the answer given when no usable SQL came out of the
// generation step. The user hears a request to rephrase, never a stack trace.
const rephraseMessage = "I'm having trouble understanding your question. Could you rephrase it?"

// Outcome is the result of answering a single question.
type Outcome struct {
	// Answer is the natural-language answer, always non-empty.
	Answer string

	// SQL is the query that was executed, or empty when none was extracted.
	SQL string

	// Elapsed is the wall-clock time spent answering.
	Elapsed time.Duration
}

// Agent answers natural-language questions about the connected database.
// The schema description is loaded once at construction and reused for
// every question.
type Agent struct {
	generator *sqlgen.Generator
	executor  *executor.Executor
	formatter *formatter.Formatter
	schema    schema.Description
	logger    *logrus.Logger
}

// Options carries the pipeline tunables for New.
type Options struct {
	MinSchemaTables int
	RowLimit        int
}

// New builds an agent over an established database session. The schema is
// introspected immediately; introspection failures fall back to the built-in
// description, so New itself never fails.
func New(
	ctx context.Context,
	session mcp.Session,
	service llm.Service,
	opts Options,
	logger *logrus.Logger,
) *Agent {
	catalog := schema.NewCatalog(session, opts.MinSchemaTables, logger)
	description := catalog.Load(ctx)

	logger.WithFields(logrus.Fields{
		"tables":   len(description.Tables),
		"fallback": description.Fallback,
	}).Info("Schema description ready")

	return &Agent{
		generator: sqlgen.NewGenerator(service, opts.RowLimit, logger),
		executor:  executor.NewExecutor(session, logger),
		formatter: formatter.New(),
		schema:    description,
		logger:    logger,
	}
}

// Schema returns the loaded schema description.
func (a *Agent) Schema() schema.Description {
	return a.schema
}

// Process answers a single question. It always produces an answer string;
// model failures and unextractable output yield a rephrase request, and
// database errors surface through the formatted answer.
func (a *Agent) Process(ctx context.Context, question string) Outcome {
	start := time.Now()

	a.logger.WithField("question", question).Debug("Processing question")

	raw, err := a.generator.Generate(ctx, a.schema.Text, question)
	if err != nil {
		a.logger.WithError(err).
			WithField("error_type", string(errors.GetType(err))).
			Warn("SQL generation failed")

		return Outcome{Answer: rephraseMessage, Elapsed: time.Since(start)}
	}

	sql, ok := sqlgen.Extract(raw)
	if !ok {
		extractErr := errors.New(
			errors.ErrTypeExtraction, "no SELECT statement found in model output",
		)
		a.logger.WithError(extractErr).WithField("raw", raw).Warn("Skipping question")

		return Outcome{Answer: rephraseMessage, Elapsed: time.Since(start)}
	}

	a.logger.WithField("sql", sql).Info("Executing query")

	result := a.executor.Execute(ctx, sql)
	answer := a.formatter.Format(result)

	return Outcome{
		Answer:  answer,
		SQL:     sql,
		Elapsed: time.Since(start),
	}
}
