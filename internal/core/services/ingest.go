package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/logger"
	"github.com/custodia-labs/corpus-cli/internal/segmenter"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestConfig carries the build parameters an ingestion run records in
// the manifest.
type IngestConfig struct {
	// CorpusDir is the directory of source PDF documents.
	CorpusDir string

	// ChunkSize and ChunkOverlap are the word-window parameters.
	ChunkSize    int
	ChunkOverlap int

	// EfSearch is the index accuracy/speed parameter.
	EfSearch int
}

// IngestService builds a vector store generation from the corpus:
// extract, segment, embed, index, persist.
type IngestService struct {
	extractor driven.PageExtractor
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	store     driven.ArtifactStore
	seg       *segmenter.Segmenter
	cfg       IngestConfig
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	extractor driven.PageExtractor,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	store driven.ArtifactStore,
	cfg IngestConfig,
) *IngestService {
	return &IngestService{
		extractor: extractor,
		embedder:  embedder,
		index:     index,
		store:     store,
		seg: segmenter.New(
			segmenter.WithMaxWords(cfg.ChunkSize),
			segmenter.WithOverlap(cfg.ChunkOverlap),
		),
		cfg: cfg,
	}
}

// Ingest builds a generation per opts and returns its manifest.
func (s *IngestService) Ingest(ctx context.Context, opts driving.IngestOptions) (*domain.IndexManifest, error) {
	logger.Section("Ingestion")

	if !opts.Rebuild {
		if s.store.Exists() {
			logger.Info("existing generation found; skipping rebuild")
			return s.store.ReadManifest()
		}
		// The index format cannot be appended to after finalising, so
		// an incremental run without a prior build becomes a rebuild.
		logger.Warn("no existing index found; performing a full rebuild")
	}

	chunks, err := s.collectChunks(ctx)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", s.cfg.CorpusDir, domain.ErrEmptyCorpus)
	}
	logger.Info("segmented corpus into %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding corpus: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks",
			domain.ErrEmbeddingService, len(vectors), len(chunks))
	}

	dimension := len(vectors[0])
	for i, vector := range vectors {
		if len(vector) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d: %w",
				i, len(vector), dimension, domain.ErrDimensionMismatch)
		}
	}
	logger.Debug("embedded %d chunks at dimension %d", len(vectors), dimension)

	// The previous generation survives until the new build is certain
	// to have vectors to replace it with.
	if err := s.store.RemoveGeneration(); err != nil {
		return nil, fmt.Errorf("clearing previous generation: %w", err)
	}

	// Dense integer ids are positional: vector i belongs to chunk i.
	for i, vector := range vectors {
		if err := s.index.Add(i, vector); err != nil {
			return nil, fmt.Errorf("indexing vector %d: %w", i, err)
		}
	}
	if err := s.index.Finalize(s.cfg.EfSearch); err != nil {
		return nil, fmt.Errorf("finalising index: %w", err)
	}

	if err := s.index.Save(s.store.IndexPath()); err != nil {
		return nil, fmt.Errorf("saving index: %w", err)
	}
	if err := s.store.WriteMetadata(chunks); err != nil {
		return nil, fmt.Errorf("writing metadata: %w", err)
	}

	manifest := &domain.IndexManifest{
		BuiltAt:        time.Now().UTC(),
		BuildID:        uuid.NewString(),
		EmbeddingModel: s.embedder.ModelName(),
		ChunkSize:      s.seg.MaxWords(),
		ChunkOverlap:   s.seg.Overlap(),
		VectorCount:    len(chunks),
		Dimension:      dimension,
		IndexMetric:    domain.MetricAngular,
		EfSearch:       s.cfg.EfSearch,
	}
	// Written last: an aborted build leaves no loadable triple.
	if err := s.store.WriteManifest(manifest); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}

	logger.Info("generation %s ready: %d chunks", manifest.BuildID, manifest.VectorCount)
	return manifest, nil
}

// collectChunks extracts and segments every PDF in the corpus
// directory, in sorted filename order so chunk ids are reproducible.
// A document that fails extraction is skipped, not fatal.
func (s *IngestService) collectChunks(ctx context.Context) ([]domain.Chunk, error) {
	paths, err := filepath.Glob(filepath.Join(s.cfg.CorpusDir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("listing corpus: %w", err)
	}
	sort.Strings(paths)
	logger.Debug("found %d PDF files in %s", len(paths), s.cfg.CorpusDir)

	var chunks []domain.Chunk
	for _, path := range paths {
		name := filepath.Base(path)
		pages, err := s.extractor.ExtractPages(ctx, path)
		if err != nil {
			logger.Warn("skipping %s: %v", name, err)
			continue
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		for pageIdx, raw := range pages {
			page := pageIdx + 1
			cleaned := segmenter.Clean(raw)
			if cleaned == "" {
				continue
			}
			for seq, window := range s.seg.Windows(cleaned) {
				chunks = append(chunks, domain.Chunk{
					ID:      fmt.Sprintf("%s_p%d_c%d", stem, page, seq+1),
					Content: window,
					Source:  name,
					Page:    page,
				})
			}
		}
	}
	return chunks, nil
}
