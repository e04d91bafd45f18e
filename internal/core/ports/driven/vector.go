package driven

// VectorIndex is the approximate nearest-neighbour structure behind the
// vector store. Items are addressed by dense integer id, assigned by the
// builder as the chunk's position in the corpus.
//
// Lifecycle: Add every vector, Finalize once, Save. A finalised index is
// immutable; refreshing content means building a new one. Load restores
// a previously saved index for querying.
//
// The serialized form is owned by the index library and treated as an
// opaque blob; dimension and metric travel in the manifest, not the blob.
type VectorIndex interface {
	// Add inserts a vector under the given dense id. All vectors in one
	// index must share the same dimension; a mismatch fails with an
	// error wrapping domain.ErrDimensionMismatch.
	Add(id int, vector []float32) error

	// Finalize builds the search structure with the given accuracy
	// parameter. Higher values improve recall at the cost of build time
	// and memory. Must be called after the last Add and before Save.
	Finalize(efSearch int) error

	// Save writes the serialized index to path.
	Save(path string) error

	// Load reads a serialized index from path, expecting vectors of the
	// given dimension.
	Load(path string, dimension int) error

	// Search returns the k nearest ids to the query vector together
	// with their raw angular distances, nearest first. An empty index
	// or k <= 0 yields no hits and no error.
	Search(vector []float32, k int) ([]VectorHit, error)

	// Len returns the number of vectors in the index.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ID is the dense integer id of the matched vector.
	ID int

	// Distance is the raw angular distance to the query, in [0, 2].
	Distance float64
}
