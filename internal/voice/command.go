package voice

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CommandSource captures one utterance per call by running an external
// speech-to-text helper (e.g. a Vosk transcriber) and reading its stdout.
// The helper owns the microphone; the timeout fences each invocation.
type CommandSource struct {
	command string
	logger  *logrus.Logger
}

// NewCommandSource creates a speech source backed by a helper command
func NewCommandSource(command string, logger *logrus.Logger) *CommandSource {
	return &CommandSource{
		command: command,
		logger:  logger,
	}
}

// Next runs the helper once and returns its trimmed stdout. A helper that
// hears nothing exits empty, which is reported as an empty utterance rather
// than an error. Exceeding the timeout kills the helper.
func (s *CommandSource) Next(timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(
		ctx, s.command, fmt.Sprintf("--timeout=%d", int(timeout.Seconds())),
	)

	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		s.logger.Debug("listening timed out")
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("speech capture failed: %w", err)
	}

	text := strings.TrimSpace(string(out))
	if text != "" {
		s.logger.WithField("utterance", text).Debug("heard utterance")
	}

	return text, nil
}

// Shutdown is a no-op; the helper is spawned per utterance.
func (s *CommandSource) Shutdown() error {
	return nil
}

// CommandSink speaks answers by piping them to an external text-to-speech
// helper (e.g. espeak or festival). Rendering degrades to a log
// line when the helper fails; a lost utterance must not fail the pipeline.
type CommandSink struct {
	command string
	logger  *logrus.Logger
}

// NewCommandSink creates a speech sink backed by a helper command
func NewCommandSink(command string, logger *logrus.Logger) *CommandSink {
	return &CommandSink{
		command: command,
		logger:  logger,
	}
}

// Render speaks the text, blocking until the helper finishes
func (s *CommandSink) Render(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	cmd := exec.Command(s.command)
	cmd.Stdin = strings.NewReader(text)

	if err := cmd.Run(); err != nil {
		s.logger.WithError(err).WithField("text", text).Warn("speech synthesis failed")
		return fmt.Errorf("speech synthesis failed: %w", err)
	}

	return nil
}
