// Package file persists a vector store generation on disk: the index
// blob written by the VectorIndex, a newline-delimited JSON metadata
// store, and a JSON manifest. The three files are only meaningful
// together and are replaced wholesale on rebuild.
package file

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ArtifactStore = (*Store)(nil)

// Artifact file names within the data directory.
const (
	IndexFileName    = "index.hnsw"
	MetadataFileName = "metadata.jsonl"
	ManifestFileName = "manifest.json"
)

// maxMetadataLine bounds a single metadata record on read.
const maxMetadataLine = 1 << 20

// Store is a file-based implementation of driven.ArtifactStore.
type Store struct {
	dataDir string
}

// NewStore creates a store rooted at dataDir, creating the directory
// if needed. If dataDir is empty, defaults to ~/.corpus/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".corpus", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{dataDir: dataDir}, nil
}

// IndexPath returns the location of the serialized index blob.
func (s *Store) IndexPath() string {
	return filepath.Join(s.dataDir, IndexFileName)
}

// MetadataPath returns the location of the metadata store.
func (s *Store) MetadataPath() string {
	return filepath.Join(s.dataDir, MetadataFileName)
}

// ManifestPath returns the location of the manifest.
func (s *Store) ManifestPath() string {
	return filepath.Join(s.dataDir, ManifestFileName)
}

// Exists reports whether a complete generation is present.
func (s *Store) Exists() bool {
	return len(s.MissingArtifacts()) == 0
}

// MissingArtifacts returns the names of absent artifact files.
func (s *Store) MissingArtifacts() []string {
	var missing []string
	for _, path := range []string{s.IndexPath(), s.MetadataPath(), s.ManifestPath()} {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, filepath.Base(path))
		}
	}
	return missing
}

// RemoveGeneration deletes whichever artifacts exist so a fresh build
// never mixes old and new records.
func (s *Store) RemoveGeneration() error {
	for _, path := range []string{s.IndexPath(), s.MetadataPath(), s.ManifestPath()} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// WriteMetadata persists one record per chunk in input order. The dense
// integer id is the chunk's position, matching the id it was indexed
// under.
func (s *Store) WriteMetadata(chunks []domain.Chunk) error {
	f, err := os.Create(s.MetadataPath())
	if err != nil {
		return fmt.Errorf("creating metadata store: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i, chunk := range chunks {
		record := driven.MetadataRecord{
			IntID:   i,
			ChunkID: chunk.ID,
			Source:  chunk.Source,
			Page:    chunk.Page,
			Content: chunk.Content,
		}
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("encoding metadata record %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing metadata store: %w", err)
	}
	return f.Close()
}

// ReadMetadata loads every record in file order, verifying the id
// equals the record's position.
func (s *Store) ReadMetadata() ([]driven.MetadataRecord, error) {
	f, err := os.Open(s.MetadataPath())
	if err != nil {
		return nil, fmt.Errorf("opening metadata store: %w", err)
	}
	defer f.Close()

	var records []driven.MetadataRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMetadataLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record driven.MetadataRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("metadata record %d: %v: %w", len(records), err, domain.ErrCorruptStore)
		}
		if record.IntID != len(records) {
			return nil, fmt.Errorf("metadata record %d has id %d: %w", len(records), record.IntID, domain.ErrCorruptStore)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading metadata store: %w", err)
	}
	return records, nil
}

// WriteManifest persists the manifest. Callers write it last so an
// aborted build never leaves a loadable triple behind.
func (s *Store) WriteManifest(manifest *domain.IndexManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(s.ManifestPath(), data, 0600); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest loads the manifest.
func (s *Store) ReadManifest() (*domain.IndexManifest, error) {
	data, err := os.ReadFile(s.ManifestPath())
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var manifest domain.IndexManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("manifest: %v: %w", err, domain.ErrCorruptStore)
	}
	return &manifest, nil
}
