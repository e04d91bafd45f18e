// Package openai provides an embedding service adapter using the
// OpenAI embeddings API, with batching and bounded retry on transient
// failures.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultModel     = "text-embedding-3-small"
	DefaultTimeout   = 60 * time.Second
	DefaultBatchSize = 32

	// DefaultMaxRetries caps how often a rate-limited or timed-out
	// batch is retried before the whole operation fails.
	DefaultMaxRetries = 5

	// maxBackoff caps the exponential backoff between retries.
	maxBackoff = 30 * time.Second
)

// Model dimensions for OpenAI embedding models.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-3-small).
	Model string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// BatchSize is how many texts travel in one request (default: 32).
	BatchSize int

	// MaxRetries bounds retries of a rate-limited or timed-out batch
	// (default: 5).
	MaxRetries int

	// RequestsPerSecond adds a client-side token bucket in front of
	// every request. Zero disables it.
	RequestsPerSecond float64
}

// outcome classifies one embedding round trip. The retry loop switches
// on this closed set rather than sniffing third-party error types.
type outcome int

const (
	outcomeOK outcome = iota
	outcomeRateLimited
	outcomeTimeout
	outcomeFailed
)

// EmbeddingService generates embeddings using the OpenAI API.
type EmbeddingService struct {
	client     *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	model      string
	batchSize  int
	maxRetries int
	dimensions int

	// sleep is swappable in tests so retry backoff can be observed
	// without waiting for it.
	sleep func(ctx context.Context, d time.Duration) error
}

// embeddingRequest is the OpenAI API request format.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the OpenAI API response format.
type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewEmbeddingService creates a new OpenAI embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}

	dimensions, ok := modelDimensions[cfg.Model]
	if !ok {
		// Unknown model; learned from the first response instead.
		dimensions = 0
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    limiter,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		batchSize:  cfg.BatchSize,
		maxRetries: cfg.MaxRetries,
		dimensions: dimensions,
		sleep:      sleepContext,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", domain.ErrEmbeddingService)
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts, one vector per
// input in input order. Inputs are partitioned into fixed-size batches;
// a rate-limited or timed-out batch is retried with exponential backoff
// before the whole call fails.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := s.embedBatchWithRetry(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, batch...)
	}

	if s.dimensions == 0 && len(embeddings) > 0 {
		s.dimensions = len(embeddings[0])
	}
	return embeddings, nil
}

// embedBatchWithRetry submits one batch, retrying the same batch on
// transient outcomes with delay = min(2^attempt, 30) seconds.
func (s *EmbeddingService) embedBatchWithRetry(ctx context.Context, batch []string) ([][]float32, error) {
	for attempt := 0; ; attempt++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		vectors, oc, err := s.embedOnce(ctx, batch)
		switch oc {
		case outcomeOK:
			return vectors, nil
		case outcomeRateLimited, outcomeTimeout:
			if attempt >= s.maxRetries {
				return nil, fmt.Errorf("embedding batch after %d retries: %w", s.maxRetries, domain.ErrRateLimitExceeded)
			}
			delay := backoffDelay(attempt)
			logger.Warn("embedding batch %s; retrying in %s", describeOutcome(oc), delay)
			if err := s.sleep(ctx, delay); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingService, err)
		}
	}
}

// embedOnce performs a single round trip for one batch.
func (s *EmbeddingService) embedOnce(ctx context.Context, batch []string) ([][]float32, outcome, error) {
	jsonBody, err := json.Marshal(embeddingRequest{
		Model: s.model,
		Input: batch,
	})
	if err != nil {
		return nil, outcomeFailed, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/embeddings",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, outcomeFailed, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, outcomeTimeout, err
		}
		return nil, outcomeFailed, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, outcomeRateLimited, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, outcomeFailed, fmt.Errorf("read response: %w", err)
	}

	var embedResp embeddingResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, outcomeFailed, fmt.Errorf("decode response: %w", err)
	}

	if embedResp.Error != nil {
		return nil, outcomeFailed, fmt.Errorf("openai error: %s", embedResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, outcomeFailed, fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(embedResp.Data) != len(batch) {
		return nil, outcomeFailed, fmt.Errorf("openai returned %d embeddings for %d inputs", len(embedResp.Data), len(batch))
	}

	// Convert float64 to float32 and restore input order by index.
	vectors := make([][]float32, len(batch))
	for _, data := range embedResp.Data {
		if data.Index < 0 || data.Index >= len(batch) {
			return nil, outcomeFailed, fmt.Errorf("openai returned embedding index %d out of range", data.Index)
		}
		vector := make([]float32, len(data.Embedding))
		for i, v := range data.Embedding {
			vector[i] = float32(v)
		}
		vectors[data.Index] = vector
	}
	return vectors, outcomeOK, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// backoffDelay returns min(2^attempt, 30) seconds.
func backoffDelay(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	delay := time.Duration(1<<attempt) * time.Second
	if delay > maxBackoff {
		delay = maxBackoff
	}
	return delay
}

func describeOutcome(oc outcome) string {
	if oc == outcomeTimeout {
		return "timed out"
	}
	return "rate limited"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
