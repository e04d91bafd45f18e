package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
)

// mockIngestService implements driving.IngestService for testing.
type mockIngestService struct {
	manifest *domain.IndexManifest
	err      error
	lastOpts driving.IngestOptions
}

func (m *mockIngestService) Ingest(_ context.Context, opts driving.IngestOptions) (*domain.IndexManifest, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.manifest, nil
}

func setupIngest() (*mockIngestService, func()) {
	old := ingestService
	mock := &mockIngestService{manifest: &domain.IndexManifest{
		BuiltAt:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		BuildID:        "build-123",
		EmbeddingModel: "test-model",
		VectorCount:    42,
		Dimension:      1536,
		IndexMetric:    domain.MetricAngular,
	}}
	ingestService = mock
	return mock, func() {
		ingestService = old
	}
}

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest", ingestCmd.Use)
}

func TestIngestCmd_RebuildDefaultsTrue(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("rebuild")
	require.NotNil(t, flag, "rebuild flag should exist")
	assert.Equal(t, "true", flag.DefValue)
}

func TestIngestCmd_ReportsBuild(t *testing.T) {
	mock, cleanup := setupIngest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, mock.lastOpts.Rebuild)
	assert.Contains(t, buf.String(), "Indexed 42 chunks (dimension 1536, model test-model)")
	assert.Contains(t, buf.String(), "build-123")
}

func TestIngestCmd_RebuildFalse(t *testing.T) {
	mock, cleanup := setupIngest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--rebuild=false"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestRebuild = true
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.False(t, mock.lastOpts.Rebuild)
}

func TestIngestCmd_FailureSurfaces(t *testing.T) {
	mock, cleanup := setupIngest()
	defer cleanup()
	mock.err = domain.ErrEmptyCorpus

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)
}
