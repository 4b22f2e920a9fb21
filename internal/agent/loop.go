package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wasii25/askdb/internal/voice"
)

// goodbyeMessage is rendered when the user ends the conversation.
const goodbyeMessage = "Goodbye!"

// terminationPhrases end the loop when an utterance matches one exactly
// after lowercasing and trimming.
var terminationPhrases = map[string]bool{
	"exit":    true,
	"quit":    true,
	"bye":     true,
	"goodbye": true,
	"stop":    true,
}

// LoopOptions configures RunLoop.
type LoopOptions struct {
	// ListenTimeout bounds each Source.Next call.
	ListenTimeout time.Duration

	// RetryOnSilence keeps listening after an empty utterance instead of
	// treating silence as the end of the conversation.
	RetryOnSilence bool

	// Verbose renders the executed SQL and timing alongside each answer.
	Verbose bool
}

// RunLoop answers questions from source until the user says a termination
// phrase, the source is exhausted, or the context is cancelled.
func RunLoop(
	ctx context.Context,
	a *Agent,
	source voice.Source,
	sink voice.Sink,
	opts LoopOptions,
	logger *logrus.Logger,
) error {
	defer func() {
		if err := source.Shutdown(); err != nil {
			logger.WithError(err).Warn("Input source shutdown failed")
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		utterance, err := source.Next(opts.ListenTimeout)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		question := strings.TrimSpace(utterance)
		if question == "" {
			if opts.RetryOnSilence {
				logger.Debug("Nothing heard, listening again")
				continue
			}

			return nil
		}

		if terminationPhrases[strings.ToLower(question)] {
			if err := sink.Render(goodbyeMessage); err != nil {
				logger.WithError(err).Warn("Failed to render goodbye")
			}

			return nil
		}

		outcome := a.Process(ctx, question)

		if opts.Verbose && outcome.SQL != "" {
			detail := fmt.Sprintf(
				"[%s in %s]",
				outcome.SQL,
				outcome.Elapsed.Round(time.Millisecond),
			)
			if err := sink.Render(detail); err != nil {
				logger.WithError(err).Warn("Failed to render query detail")
			}
		}

		if err := sink.Render(outcome.Answer); err != nil {
			logger.WithError(err).Warn("Failed to render answer")
		}
	}
}
