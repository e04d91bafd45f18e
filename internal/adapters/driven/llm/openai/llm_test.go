package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
)

func newTestLLM(t *testing.T, url string) *LLMService {
	t.Helper()
	svc, err := NewLLMService(Config{APIKey: "test-key", BaseURL: url})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)
}

func TestChat_Success(t *testing.T) {
	var gotReq chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "grounded answer"}},
			},
		})
	}))
	defer srv.Close()

	svc := newTestLLM(t, srv.URL)
	answer, err := svc.Chat(context.Background(), []domain.ChatTurn{
		{Role: domain.RoleSystem, Content: "persona"},
		{Role: domain.RoleUser, Content: "question"},
	}, driven.ChatOptions{Temperature: 0.6})
	require.NoError(t, err)

	assert.Equal(t, "grounded answer", answer)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "question", gotReq.Messages[1].Content)
	assert.InDelta(t, 0.6, gotReq.Temperature, 1e-9)
}

func TestChat_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := newTestLLM(t, srv.URL)
	_, err := svc.Chat(context.Background(), []domain.ChatTurn{{Role: domain.RoleUser, Content: "q"}}, driven.ChatOptions{})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestChat_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model not found", "type": "invalid_request_error"},
		})
	}))
	defer srv.Close()

	svc := newTestLLM(t, srv.URL)
	_, err := svc.Chat(context.Background(), []domain.ChatTurn{{Role: domain.RoleUser, Content: "q"}}, driven.ChatOptions{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRateLimited)
	assert.Contains(t, err.Error(), "model not found")
}

func TestChat_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	svc := newTestLLM(t, srv.URL)
	_, err := svc.Chat(context.Background(), []domain.ChatTurn{{Role: domain.RoleUser, Content: "q"}}, driven.ChatOptions{})
	assert.Error(t, err)
}
