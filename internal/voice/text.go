package voice

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// ReaderSource reads utterances as lines from an io.Reader, typically stdin.
// The timeout is ignored; a terminal read blocks until the user answers.
type ReaderSource struct {
	scanner *bufio.Scanner
	prompt  string
	out     io.Writer
}

// NewReaderSource creates a line-based source. When out is non-nil the prompt
// is printed before each read.
func NewReaderSource(in io.Reader, out io.Writer, prompt string) *ReaderSource {
	return &ReaderSource{
		scanner: bufio.NewScanner(in),
		prompt:  prompt,
		out:     out,
	}
}

// Next returns the next line, trimmed. io.EOF ends the loop.
func (s *ReaderSource) Next(_ time.Duration) (string, error) {
	if s.out != nil && s.prompt != "" {
		fmt.Fprint(s.out, s.prompt)
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return strings.TrimSpace(s.scanner.Text()), nil
}

// Shutdown is a no-op; the caller owns the reader.
func (s *ReaderSource) Shutdown() error {
	return nil
}

// WriterSink prints answers to an io.Writer, typically stdout.
type WriterSink struct {
	out io.Writer
}

// NewWriterSink creates a sink over out
func NewWriterSink(out io.Writer) *WriterSink {
	return &WriterSink{out: out}
}

// Render writes the text followed by a newline
func (s *WriterSink) Render(text string) error {
	_, err := fmt.Fprintln(s.out, text)
	return err
}

// MultiSink fans one answer out to several sinks, e.g. console plus speech.
// Render failures in one sink do not stop the others; the first error wins.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines sinks
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Render forwards the text to every sink
func (s *MultiSink) Render(text string) error {
	var firstErr error

	for _, sink := range s.sinks {
		if err := sink.Render(text); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
