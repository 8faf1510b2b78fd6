package driven

import (
	"context"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// CompletionService produces text from a system instruction, prior turns and a prompt.
//
// Failures are reported with domain.ErrRateLimited, domain.ErrTimeout or
// domain.ErrInvalidResponse in the error chain.
//
// Implementations may include:
//   - OpenAI (GPT-4o)
//   - Anthropic (Claude)
//   - Google (Gemini)
//   - Ollama (local models)
type CompletionService interface {
	// Complete runs one completion. History is oldest first.
	Complete(ctx context.Context, system string, history []domain.ConversationTurn, prompt string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
