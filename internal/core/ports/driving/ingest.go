package driving

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// IngestOptions configures a corpus ingestion run.
type IngestOptions struct {
	// Rebuild deletes any existing generation and regenerates all three
	// artifacts from the full corpus. When false and a generation
	// already exists, the build is skipped; when false and none exists,
	// a full rebuild runs anyway (the index format does not support
	// appending to a finalised build).
	Rebuild bool
}

// IngestService turns the document corpus into a vector store
// generation: extract, segment, embed, index, persist.
type IngestService interface {
	// Ingest builds (or skips, per opts) a generation and returns its
	// manifest. Zero extractable chunks fail with
	// domain.ErrEmptyCorpus and leave nothing behind.
	Ingest(ctx context.Context, opts IngestOptions) (*domain.IndexManifest, error)
}
