package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
)

var ingestRebuild bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the vector index from the document corpus",
	Long: `Extracts text from every PDF in the corpus directory, segments it
into overlapping chunks, embeds the chunks, and writes the vector
index to the data directory.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestRebuild, "rebuild", true, "rebuild from scratch, replacing any existing index")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if err := ensureIngestService(); err != nil {
		return err
	}

	manifest, err := ingestService.Ingest(context.Background(), driving.IngestOptions{
		Rebuild: ingestRebuild,
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Indexed %d chunks (dimension %d, model %s)\n",
		manifest.VectorCount, manifest.Dimension, manifest.EmbeddingModel)
	cmd.Printf("Build %s finished at %s\n",
		manifest.BuildID, manifest.BuiltAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
