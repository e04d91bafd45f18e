// Package hnsw adapts a pure-Go HNSW graph to the VectorIndex port.
//
// The graph trades exact-match guarantees for fast approximate
// retrieval under cosine geometry; distances are reported in angular
// form, sqrt(2*(1-cos)), so a raw distance of 0 means identical
// direction and 2 means opposite.
package hnsw

import (
	"bufio"
	"fmt"
	"math"
	"os"

	graph "github.com/coder/hnsw"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultEfSearch is the default accuracy/speed parameter used when
// Finalize receives a non-positive value.
const DefaultEfSearch = 50

// Index provides vector similarity search over an in-process HNSW graph.
// It is not safe for concurrent use; the pipeline is single-threaded by
// design and a built generation is only ever read after loading.
type Index struct {
	g         *graph.Graph[int]
	dimension int
	finalized bool
}

// New creates an empty index configured for cosine geometry.
func New() *Index {
	g := graph.NewGraph[int]()
	g.Distance = graph.CosineDistance
	return &Index{g: g}
}

// Add inserts a vector under the given dense id. The first vector fixes
// the index dimension; later vectors must match it.
func (x *Index) Add(id int, vector []float32) error {
	if id < 0 {
		return fmt.Errorf("hnsw: id %d: %w", id, domain.ErrInvalidInput)
	}
	if len(vector) == 0 {
		return fmt.Errorf("hnsw: empty vector for id %d: %w", id, domain.ErrInvalidInput)
	}
	if x.finalized {
		return fmt.Errorf("hnsw: index already finalised: %w", domain.ErrInvalidInput)
	}
	if x.dimension == 0 {
		x.dimension = len(vector)
	}
	if len(vector) != x.dimension {
		return fmt.Errorf("hnsw: vector %d has dimension %d, want %d: %w",
			id, len(vector), x.dimension, domain.ErrDimensionMismatch)
	}
	x.g.Add(graph.MakeNode(id, vector))
	return nil
}

// Finalize fixes the search accuracy parameter and seals the index
// against further inserts.
func (x *Index) Finalize(efSearch int) error {
	if efSearch <= 0 {
		efSearch = DefaultEfSearch
	}
	x.g.EfSearch = efSearch
	x.finalized = true
	return nil
}

// Save writes the serialized graph to path.
func (x *Index) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("hnsw: create %s: %w", path, err)
	}
	defer f.Close()

	if err := x.g.Export(f); err != nil {
		return fmt.Errorf("hnsw: export: %w", err)
	}
	return f.Close()
}

// Load reads a serialized graph from path. The dimension comes from the
// manifest; vectors in the blob must match it.
func (x *Index) Load(path string, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("hnsw: dimension must be positive: %w", domain.ErrInvalidInput)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("hnsw: open %s: %w", path, err)
	}
	defer f.Close()

	g := graph.NewGraph[int]()
	g.Distance = graph.CosineDistance
	// The decoder reads byte-wise; a raw file does not satisfy
	// io.ByteReader.
	if err := g.Import(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("hnsw: import %s: %w", path, err)
	}
	if dims := g.Dims(); dims > 0 && dims != dimension {
		return fmt.Errorf("hnsw: %s holds %d-dimensional vectors, manifest records %d: %w",
			path, dims, dimension, domain.ErrCorruptStore)
	}

	x.g = g
	x.dimension = dimension
	x.finalized = true
	return nil
}

// Search returns the k nearest ids with raw angular distances, nearest
// first. An empty index or k <= 0 yields no hits.
func (x *Index) Search(vector []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 || x.g.Len() == 0 {
		return nil, nil
	}
	if x.dimension > 0 && len(vector) != x.dimension {
		return nil, fmt.Errorf("hnsw: query has dimension %d, want %d: %w",
			len(vector), x.dimension, domain.ErrDimensionMismatch)
	}

	neighbours := x.g.Search(vector, k)
	hits := make([]driven.VectorHit, 0, len(neighbours))
	for _, n := range neighbours {
		hits = append(hits, driven.VectorHit{
			ID:       n.Key,
			Distance: angularDistance(vector, n.Value),
		})
	}
	return hits, nil
}

// Len returns the number of vectors in the index.
func (x *Index) Len() int {
	return x.g.Len()
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// angularDistance converts the cosine of the angle between two vectors
// into angular distance, sqrt(2*(1-cos)), clamping the cosine against
// floating-point drift. A zero vector is maximally distant.
func angularDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Sqrt(2 * (1 - cos))
}
