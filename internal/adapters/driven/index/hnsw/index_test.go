package hnsw

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// axes builds a small index with one vector per coordinate axis.
func axes(t *testing.T) *Index {
	t.Helper()
	idx := New()
	require.NoError(t, idx.Add(0, []float32{1, 0, 0}))
	require.NoError(t, idx.Add(1, []float32{0, 1, 0}))
	require.NoError(t, idx.Add(2, []float32{0, 0, 1}))
	require.NoError(t, idx.Finalize(DefaultEfSearch))
	return idx
}

func TestAdd_DimensionMismatch(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Add(0, []float32{1, 0}))
	err := idx.Add(1, []float32{1, 0, 0})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestAdd_AfterFinalize(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Add(0, []float32{1, 0}))
	require.NoError(t, idx.Finalize(0))
	assert.Error(t, idx.Add(1, []float32{0, 1}))
}

func TestSearch_NearestFirst(t *testing.T) {
	idx := axes(t)

	hits, err := idx.Search([]float32{0.9, 0.1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 0, hits[0].ID, "the x-axis vector is the closest match")
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
	}
	for _, h := range hits {
		assert.GreaterOrEqual(t, h.Distance, 0.0)
		assert.LessOrEqual(t, h.Distance, 2.0)
	}
}

func TestSearch_EmptyIndexAndZeroK(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Finalize(0))

	hits, err := idx.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	populated := axes(t)
	hits, err = populated.Search([]float32{1, 0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	idx := axes(t)
	_, err := idx.Search([]float32{1, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	idx := axes(t)
	path := filepath.Join(t.TempDir(), "index.hnsw")
	require.NoError(t, idx.Save(path))

	loaded := New()
	require.NoError(t, loaded.Load(path, 3))
	assert.Equal(t, 3, loaded.Len())

	hits, err := loaded.Search([]float32{0, 0.9, 0.1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].ID)
}

func TestLoad_DimensionDisagreesWithBlob(t *testing.T) {
	idx := axes(t)
	path := filepath.Join(t.TempDir(), "index.hnsw")
	require.NoError(t, idx.Save(path))

	loaded := New()
	err := loaded.Load(path, 5)
	require.ErrorIs(t, err, domain.ErrCorruptStore)
}

func TestLoad_MissingFile(t *testing.T) {
	idx := New()
	err := idx.Load(filepath.Join(t.TempDir(), "absent.hnsw"), 3)
	assert.Error(t, err)
}

func TestAngularDistance(t *testing.T) {
	t.Run("identical direction", func(t *testing.T) {
		assert.InDelta(t, 0, angularDistance([]float32{1, 0}, []float32{2, 0}), 1e-9)
	})
	t.Run("opposite direction", func(t *testing.T) {
		assert.InDelta(t, 2, angularDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	})
	t.Run("orthogonal", func(t *testing.T) {
		assert.InDelta(t, math.Sqrt2, angularDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})
	t.Run("zero vector", func(t *testing.T) {
		assert.Equal(t, 2.0, angularDistance([]float32{0, 0}, []float32{1, 0}))
	})
}
