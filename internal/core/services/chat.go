package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

const (
	// chatMaxRetries bounds retries of rate-limited completion calls.
	chatMaxRetries = 5

	// chatMaxBackoff caps the exponential backoff between retries.
	chatMaxBackoff = 30 * time.Second

	// contextPreviewChars caps how much of each retrieved chunk is
	// quoted into the prompt. Truncation lands on a word boundary.
	contextPreviewChars = 550
)

const systemPrompt = `You are a careful research assistant answering questions about a document corpus.
Ground every answer in the context passages provided. Cite the source document and page for claims you take from a passage, like (source, p. 3).
If the passages do not contain the answer, say so plainly instead of guessing.`

// ChatService answers questions grounded in retrieved corpus passages.
type ChatService struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService
	opts      driven.ChatOptions

	// sleep is a seam for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewChatService creates a new chat service.
func NewChatService(retrieval driving.RetrievalService, llm driven.LLMService, opts driven.ChatOptions) *ChatService {
	return &ChatService{
		retrieval: retrieval,
		llm:       llm,
		opts:      opts,
		sleep:     sleepContext,
	}
}

// Answer retrieves supporting chunks for the question, asks the
// language model for a grounded reply, and returns both.
func (s *ChatService) Answer(ctx context.Context, question string, history []domain.ChatTurn, topK int) (string, []domain.RetrievedChunk, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	chunks, err := s.retrieval.Search(ctx, question, topK)
	if err != nil {
		return "", nil, fmt.Errorf("retrieving context: %w", err)
	}
	logger.Debug("retrieved %d context chunks for question", len(chunks))

	turns := make([]domain.ChatTurn, 0, len(history)+2)
	turns = append(turns, domain.ChatTurn{
		Role:    domain.RoleSystem,
		Content: systemPrompt + "\n\nContext passages:\n" + formatContext(chunks),
	})
	turns = append(turns, history...)
	turns = append(turns, domain.ChatTurn{Role: domain.RoleUser, Content: question})

	reply, err := s.chatWithRetry(ctx, turns)
	if err != nil {
		return "", nil, err
	}
	return reply, chunks, nil
}

// chatWithRetry absorbs transient rate limiting with exponential
// backoff; all other failures surface immediately.
func (s *ChatService) chatWithRetry(ctx context.Context, turns []domain.ChatTurn) (string, error) {
	for attempt := 0; ; attempt++ {
		reply, err := s.llm.Chat(ctx, turns, s.opts)
		if err == nil {
			return reply, nil
		}
		if !errors.Is(err, domain.ErrRateLimited) {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if attempt >= chatMaxRetries {
			return "", fmt.Errorf("chat completion: %w", domain.ErrRateLimitExceeded)
		}

		delay := backoffDelay(attempt)
		logger.Warn("chat rate limited, retrying in %s (attempt %d/%d)",
			delay, attempt+1, chatMaxRetries)
		if err := s.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
}

// backoffDelay returns min(2^attempt, 30) seconds.
func backoffDelay(attempt int) time.Duration {
	delay := time.Duration(1<<attempt) * time.Second
	if delay > chatMaxBackoff {
		delay = chatMaxBackoff
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// formatContext renders retrieved chunks as numbered, attributed
// passages for the system prompt.
func formatContext(chunks []domain.RetrievedChunk) string {
	if len(chunks) == 0 {
		return "(no supporting passages retrieved)"
	}

	var b strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s, p. %d (relevance %.2f):\n%s",
			i+1, chunk.Source, chunk.Page, chunk.Score, preview(chunk.Content))
	}
	return b.String()
}

// preview truncates text to contextPreviewChars on a word boundary,
// marking the cut with an ellipsis.
func preview(text string) string {
	if len(text) <= contextPreviewChars {
		return text
	}
	cut := text[:contextPreviewChars]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + " …"
}
