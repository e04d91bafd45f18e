package driven

import "github.com/custodia-labs/corpus-cli/internal/core/domain"

// MetadataRecord is one line of the metadata store: the chunk fields
// joined with the dense integer id the index addresses the chunk by.
// Records are written and read in strict ascending IntID order and
// IntID always equals the record's position in the store.
type MetadataRecord struct {
	IntID   int    `json:"int_id"`
	ChunkID string `json:"chunk_id"`
	Source  string `json:"source"`
	Page    int    `json:"page"`
	Content string `json:"content"`
}

// ArtifactStore owns the on-disk layout of a vector store generation:
// the index blob, the metadata store and the manifest. The builder is
// the only writer; readers never mutate a generation in place.
type ArtifactStore interface {
	// IndexPath returns the location of the serialized index blob.
	// The store tracks the file but the VectorIndex owns its format.
	IndexPath() string

	// MetadataPath and ManifestPath return the other two artifact
	// locations, for status reporting.
	MetadataPath() string
	ManifestPath() string

	// Exists reports whether a complete generation is present.
	Exists() bool

	// MissingArtifacts returns the names of absent artifact files,
	// empty when the generation is complete.
	MissingArtifacts() []string

	// RemoveGeneration deletes whichever artifacts exist. Missing
	// files are not an error.
	RemoveGeneration() error

	// WriteMetadata persists one record per chunk in input order,
	// assigning IntID from position.
	WriteMetadata(chunks []domain.Chunk) error

	// ReadMetadata loads every record, verifying that IntID equals
	// position; a violation fails with domain.ErrCorruptStore.
	ReadMetadata() ([]MetadataRecord, error)

	// WriteManifest persists the manifest. It is written last during a
	// build so a partial build never forms a loadable generation.
	WriteManifest(manifest *domain.IndexManifest) error

	// ReadManifest loads the manifest.
	ReadManifest() (*domain.IndexManifest, error)
}
