// Package cli provides the command-line interface for corpus.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/corpus-cli/internal/adapters/driven/config/file"
	openaiembed "github.com/custodia-labs/corpus-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/extract/pdftotext"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/index/hnsw"
	openaillm "github.com/custodia-labs/corpus-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/core/services"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

// Services are package-level so commands share wiring and tests can
// swap in mocks. Real implementations are built lazily per command:
// info needs no API key, ingest needs no chat model.
var (
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	chatService      driving.ChatService
	artifactStore    driven.ArtifactStore

	settings *configfile.Settings
)

var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Build and query a local document retrieval index",
	Long: `corpus turns a directory of PDF documents into a searchable
vector index and answers questions grounded in the retrieved passages.

Run 'corpus ingest' once to build the index, then 'corpus ask' for
one-off questions or 'corpus chat' for a conversation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.corpus/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// SetVersion sets the version string shown by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadSettings() (*configfile.Settings, error) {
	if settings != nil {
		return settings, nil
	}
	loaded, err := configfile.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settings = loaded
	return settings, nil
}

func ensureStore() (driven.ArtifactStore, error) {
	if artifactStore != nil {
		return artifactStore, nil
	}
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}
	store, err := file.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening data directory: %w", err)
	}
	artifactStore = store
	return artifactStore, nil
}

func newEmbedder(cfg *configfile.Settings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		Model:             cfg.EmbeddingModel,
		BatchSize:         cfg.BatchSize,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
}

func ensureIngestService() error {
	if ingestService != nil {
		return nil
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if err := cfg.EnsureAPIKey(); err != nil {
		return err
	}
	store, err := ensureStore()
	if err != nil {
		return err
	}
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	ingestService = services.NewIngestService(
		pdftotext.New(),
		embedder,
		hnsw.New(),
		store,
		services.IngestConfig{
			CorpusDir:    cfg.CorpusDir,
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
			EfSearch:     cfg.EfSearch,
		},
	)
	return nil
}

func ensureRetrievalService() error {
	if retrievalService != nil {
		return nil
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if err := cfg.EnsureAPIKey(); err != nil {
		return err
	}
	store, err := ensureStore()
	if err != nil {
		return err
	}
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	retrievalService = services.NewRetrievalService(store, hnsw.New(), embedder, cfg.TopK)
	return nil
}

func ensureChatService() error {
	if chatService != nil {
		return nil
	}
	if err := ensureRetrievalService(); err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	llm, err := openaillm.NewLLMService(openaillm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.ChatModel,
	})
	if err != nil {
		return err
	}

	chatService = services.NewChatService(retrievalService, llm, driven.ChatOptions{
		Temperature: cfg.Temperature,
	})
	return nil
}
