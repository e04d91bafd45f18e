package domain

import "time"

// MetricAngular is the distance metric every generation is built with.
// Angular distance ranges over [0, 2]: 0 means identical direction,
// 2 means opposite direction.
const MetricAngular = "angular"

// IndexManifest describes one built generation of the vector store.
// It is persisted as a single JSON object alongside the index blob and
// the metadata records; the three artifacts are only valid together.
type IndexManifest struct {
	// BuiltAt is when the build finished, in UTC.
	BuiltAt time.Time `json:"built_at"`

	// BuildID uniquely identifies this generation.
	BuildID string `json:"build_id"`

	// EmbeddingModel is the model every vector in the index came from.
	EmbeddingModel string `json:"embedding_model"`

	// ChunkSize and ChunkOverlap are the word-window parameters the
	// corpus was segmented with. Recorded so a rebuild can reproduce
	// identical chunk ids.
	ChunkSize    int `json:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap"`

	// VectorCount must equal both the index size and the number of
	// metadata records. A mismatch means the artifacts are corrupt or
	// from different builds.
	VectorCount int `json:"vector_count"`

	// Dimension is the vector length shared by every entry in the index.
	Dimension int `json:"dimension"`

	// IndexMetric is the distance function the index was built with.
	// Only MetricAngular is produced or accepted.
	IndexMetric string `json:"index_metric"`

	// EfSearch is the accuracy/speed knob the index was finalised with.
	EfSearch int `json:"ef_search"`
}
