// Package voice provides the input-source and output-sink capabilities of the
// interactive loop. The pipeline consumes both through small interfaces so
// speech and plain text are interchangeable; speech is delegated to external
// helper commands that own their timeout and cleanup semantics.
package voice

import (
	"time"
)

// Source yields one utterance at a time.
type Source interface {
	// Next returns the next utterance as text. It returns io.EOF when the
	// source is exhausted, and an empty string (with nil error) when nothing
	// was heard within the timeout.
	Next(timeout time.Duration) (string, error)

	// Shutdown releases any resources held by the source.
	Shutdown() error
}

// Sink renders answer text to the user.
type Sink interface {
	Render(text string) error
}
