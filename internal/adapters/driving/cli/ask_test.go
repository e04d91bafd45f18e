package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// --- Mock implementations ---

// mockRetrievalService implements driving.RetrievalService for testing.
type mockRetrievalService struct {
	chunks    []domain.RetrievedChunk
	openErr   error
	searchErr error
	lastQuery string
	lastTopK  int
}

func (m *mockRetrievalService) Open(_ context.Context) error {
	return m.openErr
}

func (m *mockRetrievalService) Search(_ context.Context, query string, topK int) ([]domain.RetrievedChunk, error) {
	m.lastQuery = query
	m.lastTopK = topK
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.chunks, nil
}

func (m *mockRetrievalService) Manifest() *domain.IndexManifest {
	return nil
}

var testChunks = []domain.RetrievedChunk{
	{Chunk: domain.Chunk{ID: "guide_p1_c1", Content: "alpha beta", Source: "guide.pdf", Page: 1}, Score: 0.91},
	{Chunk: domain.Chunk{ID: "guide_p2_c1", Content: "gamma delta", Source: "guide.pdf", Page: 2}, Score: 0.74},
}

// setupRetrieval installs a mock retrieval service and returns it with
// a cleanup that restores the previous one.
func setupRetrieval(chunks []domain.RetrievedChunk) (*mockRetrievalService, func()) {
	old := retrievalService
	mock := &mockRetrievalService{chunks: chunks}
	retrievalService = mock
	return mock, func() {
		retrievalService = old
	}
}

// --- Tests ---

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskCmd_HasLimitFlag(t *testing.T) {
	flag := askCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestAskCmd_PrintsPassages(t *testing.T) {
	mock, cleanup := setupRetrieval(testChunks)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "what comes first?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "what comes first?", mock.lastQuery)
	assert.Contains(t, buf.String(), "[1] guide.pdf, p. 1 (0.91)")
	assert.Contains(t, buf.String(), "alpha beta")
	assert.Contains(t, buf.String(), "[2] guide.pdf, p. 2 (0.74)")
}

func TestAskCmd_LimitFlagReachesService(t *testing.T) {
	mock, cleanup := setupRetrieval(testChunks)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "-n", "3", "question"})
	defer func() {
		rootCmd.SetArgs(nil)
		askLimit = 0
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, 3, mock.lastTopK)
}

func TestAskCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupRetrieval(testChunks)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--json", "question"})
	defer func() {
		rootCmd.SetArgs(nil)
		askJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"id": "guide_p1_c1"`)
	assert.Contains(t, buf.String(), `"source": "guide.pdf"`)
	assert.Contains(t, buf.String(), `"score": 0.91`)
}

func TestAskCmd_NoResults(t *testing.T) {
	_, cleanup := setupRetrieval(nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "question"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No passages found.")
}

func TestAskCmd_OpenFailureSurfaces(t *testing.T) {
	mock, cleanup := setupRetrieval(nil)
	defer cleanup()
	mock.openErr = domain.ErrArtifactsMissing

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "question"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrArtifactsMissing)
}

func TestAskCmd_SearchFailureSurfaces(t *testing.T) {
	mock, cleanup := setupRetrieval(nil)
	defer cleanup()
	mock.searchErr = errors.New("embedding service down")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "question"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}
