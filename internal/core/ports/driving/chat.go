package driving

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// ChatService answers questions grounded in retrieved corpus passages.
type ChatService interface {
	// Answer retrieves supporting chunks for the question, asks the
	// language model for a reply that cites them, and returns both.
	// history carries prior turns of the conversation; topK <= 0
	// selects the configured retrieval default.
	Answer(ctx context.Context, question string, history []domain.ChatTurn, topK int) (string, []domain.RetrievedChunk, error)
}
