package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the state of the vector index",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	store, err := ensureStore()
	if err != nil {
		return err
	}

	if missing := store.MissingArtifacts(); len(missing) > 0 {
		cmd.Println("No complete index found.")
		for _, name := range missing {
			cmd.Printf("  missing: %s\n", name)
		}
		cmd.Println("\nRun 'corpus ingest' to build one.")
		return nil
	}

	manifest, err := store.ReadManifest()
	if err != nil {
		return err
	}

	cmd.Printf("Build:      %s (%s)\n", manifest.BuildID, manifest.BuiltAt.Format("2006-01-02 15:04:05 MST"))
	cmd.Printf("Model:      %s\n", manifest.EmbeddingModel)
	cmd.Printf("Vectors:    %d × %d dims (%s)\n", manifest.VectorCount, manifest.Dimension, manifest.IndexMetric)
	cmd.Printf("Chunking:   %d words, %d overlap\n", manifest.ChunkSize, manifest.ChunkOverlap)
	cmd.Println()

	for _, path := range []string{store.IndexPath(), store.MetadataPath(), store.ManifestPath()} {
		if stat, err := os.Stat(path); err == nil {
			cmd.Printf("%-60s %10d bytes\n", path, stat.Size())
		}
	}
	return nil
}
