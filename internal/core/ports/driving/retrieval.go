package driving

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// RetrievalService serves similarity queries over a loaded vector
// store generation.
type RetrievalService interface {
	// Open loads and cross-checks the persisted generation. It fails
	// with domain.ErrArtifactsMissing when any artifact is absent and
	// domain.ErrCorruptStore when the artifacts disagree with each
	// other; in both cases nothing is partially loaded.
	Open(ctx context.Context) error

	// Search embeds the query and returns the topK most relevant
	// chunks, highest score first. topK <= 0 selects the configured
	// default. An empty index yields an empty result, not an error,
	// and a failed query leaves the store usable.
	Search(ctx context.Context, query string, topK int) ([]domain.RetrievedChunk, error)

	// Manifest returns the manifest of the loaded generation, nil
	// before Open.
	Manifest() *domain.IndexManifest
}
