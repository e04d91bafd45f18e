package file

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func sampleChunks() []domain.Chunk {
	return []domain.Chunk{
		{ID: "doc_p1_c1", Content: "alpha beta", Source: "doc.pdf", Page: 1},
		{ID: "doc_p1_c2", Content: "gamma delta", Source: "doc.pdf", Page: 1},
		{ID: "doc_p2_c1", Content: "epsilon", Source: "doc.pdf", Page: 2},
	}
}

func TestMissingArtifacts(t *testing.T) {
	store := newTestStore(t)

	missing := store.MissingArtifacts()
	assert.ElementsMatch(t, []string{IndexFileName, MetadataFileName, ManifestFileName}, missing)
	assert.False(t, store.Exists())

	require.NoError(t, store.WriteMetadata(sampleChunks()))
	missing = store.MissingArtifacts()
	assert.ElementsMatch(t, []string{IndexFileName, ManifestFileName}, missing)
}

func TestMetadata_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	chunks := sampleChunks()
	require.NoError(t, store.WriteMetadata(chunks))

	records, err := store.ReadMetadata()
	require.NoError(t, err)
	require.Len(t, records, len(chunks))

	for i, record := range records {
		assert.Equal(t, i, record.IntID)
		assert.Equal(t, chunks[i].ID, record.ChunkID)
		assert.Equal(t, chunks[i].Source, record.Source)
		assert.Equal(t, chunks[i].Page, record.Page)
		assert.Equal(t, chunks[i].Content, record.Content)
	}
}

func TestReadMetadata_OutOfOrderIDs(t *testing.T) {
	store := newTestStore(t)
	lines := `{"int_id":1,"chunk_id":"doc_p1_c2","source":"doc.pdf","page":1,"content":"b"}
{"int_id":0,"chunk_id":"doc_p1_c1","source":"doc.pdf","page":1,"content":"a"}
`
	require.NoError(t, os.WriteFile(store.MetadataPath(), []byte(lines), 0600))

	_, err := store.ReadMetadata()
	assert.ErrorIs(t, err, domain.ErrCorruptStore)
}

func TestReadMetadata_MalformedLine(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.MetadataPath(), []byte("not json\n"), 0600))

	_, err := store.ReadMetadata()
	assert.ErrorIs(t, err, domain.ErrCorruptStore)
}

func TestManifest_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	manifest := &domain.IndexManifest{
		BuiltAt:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		BuildID:        "build-1",
		EmbeddingModel: "text-embedding-3-small",
		ChunkSize:      320,
		ChunkOverlap:   60,
		VectorCount:    3,
		Dimension:      1536,
		IndexMetric:    domain.MetricAngular,
		EfSearch:       50,
	}
	require.NoError(t, store.WriteManifest(manifest))

	got, err := store.ReadManifest()
	require.NoError(t, err)
	assert.Equal(t, manifest, got)
}

func TestReadManifest_Malformed(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.ManifestPath(), []byte("{broken"), 0600))

	_, err := store.ReadManifest()
	assert.ErrorIs(t, err, domain.ErrCorruptStore)
}

func TestRemoveGeneration(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.WriteMetadata(sampleChunks()))
	require.NoError(t, store.WriteManifest(&domain.IndexManifest{IndexMetric: domain.MetricAngular}))
	require.NoError(t, os.WriteFile(store.IndexPath(), []byte("blob"), 0600))
	require.True(t, store.Exists())

	require.NoError(t, store.RemoveGeneration())
	assert.False(t, store.Exists())

	// Removing an already-empty generation is not an error.
	assert.NoError(t, store.RemoveGeneration())
}
