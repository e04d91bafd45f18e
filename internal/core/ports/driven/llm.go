package driven

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// LLMService provides chat completion for the retrieval-grounded
// answerer.
//
// Implementations may include:
//   - OpenAI (gpt-4o, gpt-4o-mini)
//   - Compatible inference servers behind the same REST surface
//
// Transient failures (rate limiting, timeouts) surface as errors
// wrapping domain.ErrRateLimited so callers can apply their own retry
// policy; everything else is permanent.
type LLMService interface {
	// Chat conducts a multi-turn conversation and returns the
	// assistant's reply.
	Chat(ctx context.Context, turns []domain.ChatTurn, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
