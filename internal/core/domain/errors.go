package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrArtifactsMissing indicates one or more of the three persisted
	// artifacts (index, metadata, manifest) is absent at load time.
	// Fatal to vector store construction; nothing is partially loaded.
	ErrArtifactsMissing = errors.New("vector store artifacts missing")

	// ErrEmptyCorpus indicates ingestion found zero chunks: no source
	// documents, or no extractable text. The build aborts without
	// writing any artifacts.
	ErrEmptyCorpus = errors.New("no chunks extracted from corpus")

	// ErrDimensionMismatch indicates embedded vectors do not all share
	// the same length. Fatal, aborts the build.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrRateLimited indicates a single request was rejected by the
	// upstream service's rate limiter. Transient; retried internally.
	ErrRateLimited = errors.New("rate limited")

	// ErrRateLimitExceeded indicates the bounded retry budget for
	// rate-limited requests was exhausted. Fatal to the calling
	// operation; not retried further.
	ErrRateLimitExceeded = errors.New("rate limit retries exhausted")

	// ErrEmbeddingService indicates a non-transient embedding service
	// failure (auth, quota, malformed response). Never retried;
	// retrying would mask real errors.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrCorruptStore indicates the persisted artifacts disagree with
	// each other (dimension, metric, or record count). The generation
	// must not be loaded.
	ErrCorruptStore = errors.New("vector store artifacts corrupt")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
