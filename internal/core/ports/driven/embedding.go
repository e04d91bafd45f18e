package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorIndex which stores and searches
// vectors. EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations batch large inputs and absorb transient rate limiting
// internally with bounded retries. Permanent service failures surface
// immediately as errors wrapping domain.ErrEmbeddingService; an
// exhausted retry budget surfaces as domain.ErrRateLimitExceeded.
type EmbeddingService interface {
	// Embed generates a vector embedding for a single text. It fails
	// with an error wrapping domain.ErrEmbeddingService when the
	// service returns no vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, one vector
	// per input in input order. The ordering is load-bearing: callers
	// zip the result back onto the inputs by position. An empty input
	// returns nil without any network call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 1536, 3072).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
