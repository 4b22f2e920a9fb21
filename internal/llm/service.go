package llm

import (
	"context"
)

// Service defines the interface for the text-generation capability.
// The pipeline consumes it as a single synchronous "complete this prompt"
// operation; no streaming is exposed.
type Service interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
