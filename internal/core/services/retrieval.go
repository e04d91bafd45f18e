package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService serves similarity queries over a loaded generation.
type RetrievalService struct {
	store       driven.ArtifactStore
	index       driven.VectorIndex
	embedder    driven.EmbeddingService
	defaultTopK int

	manifest *domain.IndexManifest
	records  []driven.MetadataRecord
}

// NewRetrievalService creates a new retrieval service. The index is
// empty until Open loads a generation into it.
func NewRetrievalService(
	store driven.ArtifactStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	defaultTopK int,
) *RetrievalService {
	if defaultTopK <= 0 {
		defaultTopK = 6
	}
	return &RetrievalService{
		store:       store,
		index:       index,
		embedder:    embedder,
		defaultTopK: defaultTopK,
	}
}

// Open loads the persisted generation and cross-checks its artifacts
// against each other before any of them is trusted.
func (s *RetrievalService) Open(ctx context.Context) error {
	if missing := s.store.MissingArtifacts(); len(missing) > 0 {
		return fmt.Errorf("%w: %s (run `corpus ingest` first)",
			domain.ErrArtifactsMissing, strings.Join(missing, ", "))
	}

	manifest, err := s.store.ReadManifest()
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	if manifest.IndexMetric != domain.MetricAngular {
		return fmt.Errorf("%w: unsupported index metric %q",
			domain.ErrCorruptStore, manifest.IndexMetric)
	}

	records, err := s.store.ReadMetadata()
	if err != nil {
		return fmt.Errorf("reading metadata: %w", err)
	}
	if len(records) != manifest.VectorCount {
		return fmt.Errorf("%w: manifest records %d vectors but metadata has %d",
			domain.ErrCorruptStore, manifest.VectorCount, len(records))
	}

	if err := s.index.Load(s.store.IndexPath(), manifest.Dimension); err != nil {
		return fmt.Errorf("loading index: %w", err)
	}
	if s.index.Len() != manifest.VectorCount {
		return fmt.Errorf("%w: manifest records %d vectors but index has %d",
			domain.ErrCorruptStore, manifest.VectorCount, s.index.Len())
	}

	if manifest.EmbeddingModel != s.embedder.ModelName() {
		logger.Warn("index was built with model %q but queries use %q; scores may be meaningless",
			manifest.EmbeddingModel, s.embedder.ModelName())
	}

	s.manifest = manifest
	s.records = records
	logger.Debug("opened generation %s: %d vectors, dimension %d",
		manifest.BuildID, manifest.VectorCount, manifest.Dimension)
	return nil
}

// Search embeds the query and returns the topK most relevant chunks,
// highest score first.
func (s *RetrievalService) Search(ctx context.Context, query string, topK int) ([]domain.RetrievedChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.RetrievedChunk{}, nil
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.index.Search(vector, topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	results := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		if hit.ID < 0 || hit.ID >= len(s.records) {
			return nil, fmt.Errorf("%w: index returned id %d outside metadata range %d",
				domain.ErrCorruptStore, hit.ID, len(s.records))
		}
		record := s.records[hit.ID]
		results = append(results, domain.RetrievedChunk{
			Chunk: domain.Chunk{
				ID:      record.ChunkID,
				Content: record.Content,
				Source:  record.Source,
				Page:    record.Page,
			},
			Score: domain.ScoreFromDistance(hit.Distance),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// Manifest returns the manifest of the loaded generation, nil before
// Open.
func (s *RetrievalService) Manifest() *domain.IndexManifest {
	return s.manifest
}
