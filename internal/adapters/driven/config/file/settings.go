// Package file loads corpus settings from a TOML file with environment
// variable overrides. Settings are resolved once at startup and passed
// explicitly into every component constructor; core logic never reads
// the environment itself.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default setting values.
const (
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultChatModel      = "gpt-4o-mini"
	DefaultChunkSize      = 320
	DefaultChunkOverlap   = 60
	DefaultBatchSize      = 32
	DefaultTopK           = 6
	DefaultTemperature    = 0.6
	DefaultEfSearch       = 50
)

// Environment variables honoured on top of the TOML file.
const (
	EnvAPIKey    = "OPENAI_API_KEY"
	EnvCorpusDir = "CORPUS_DOCUMENTS"
	EnvDataDir   = "CORPUS_DATA_DIR"
)

// Settings is the resolved application configuration.
type Settings struct {
	// APIKey authenticates against the OpenAI-compatible API. It only
	// comes from the environment, never from the config file.
	APIKey string `toml:"-"`

	// BaseURL overrides the API endpoint, e.g. for a local inference
	// server exposing the OpenAI surface.
	BaseURL string `toml:"base_url"`

	// EmbeddingModel produces chunk and query vectors.
	EmbeddingModel string `toml:"embedding_model"`

	// ChatModel answers questions grounded in retrieved passages.
	ChatModel string `toml:"chat_model"`

	// CorpusDir holds the source PDF documents.
	CorpusDir string `toml:"corpus_dir"`

	// DataDir holds the vector store artifacts.
	DataDir string `toml:"data_dir"`

	// ChunkSize is the number of words per chunk.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the word overlap between consecutive chunks.
	ChunkOverlap int `toml:"chunk_overlap"`

	// BatchSize is how many chunk texts travel in one embedding request.
	BatchSize int `toml:"batch_size"`

	// RequestsPerSecond caps the rate of embedding requests on the
	// client side. Zero leaves pacing to the service's own limiter.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// TopK is the default number of passages retrieved per query.
	TopK int `toml:"top_k"`

	// Temperature is passed to the chat model.
	Temperature float64 `toml:"temperature"`

	// EfSearch is the index accuracy/speed parameter.
	EfSearch int `toml:"ef_search"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		EmbeddingModel: DefaultEmbeddingModel,
		ChatModel:      DefaultChatModel,
		CorpusDir:      "documents",
		ChunkSize:      DefaultChunkSize,
		ChunkOverlap:   DefaultChunkOverlap,
		BatchSize:      DefaultBatchSize,
		TopK:           DefaultTopK,
		Temperature:    DefaultTemperature,
		EfSearch:       DefaultEfSearch,
	}
}

// Load reads settings from the TOML file at path, falling back to
// ~/.corpus/config.toml when path is empty. A missing file is not an
// error; defaults apply. Environment variables override both.
func Load(path string) (*Settings, error) {
	settings := Defaults()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".corpus", "config.toml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults apply.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(&settings)
	applyMinimums(&settings)
	return &settings, nil
}

// EnsureAPIKey returns an actionable error when no API key is set.
func (s *Settings) EnsureAPIKey() error {
	if s.APIKey == "" {
		return fmt.Errorf("%s is not set; export it or add it to your shell profile", EnvAPIKey)
	}
	return nil
}

func applyEnv(s *Settings) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		s.APIKey = v
	}
	if v := os.Getenv(EnvCorpusDir); v != "" {
		s.CorpusDir = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		s.DataDir = v
	}
}

// applyMinimums repairs nonsensical numeric values rather than failing.
func applyMinimums(s *Settings) {
	if s.ChunkSize <= 0 {
		s.ChunkSize = DefaultChunkSize
	}
	if s.ChunkOverlap < 0 {
		s.ChunkOverlap = 0
	}
	if s.BatchSize <= 0 {
		s.BatchSize = DefaultBatchSize
	}
	if s.TopK <= 0 {
		s.TopK = DefaultTopK
	}
	if s.RequestsPerSecond < 0 {
		s.RequestsPerSecond = 0
	}
	if s.EfSearch <= 0 {
		s.EfSearch = DefaultEfSearch
	}
}
