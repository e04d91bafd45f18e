package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

var (
	askLimit int
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Retrieve the passages most relevant to a question",
	Long: `Embeds the question and prints the most similar chunks from the
index, best match first, with their source and relevance score.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 0, "maximum number of passages (0 uses the configured default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureRetrievalService(); err != nil {
		return err
	}

	ctx := context.Background()
	if err := retrievalService.Open(ctx); err != nil {
		return err
	}

	results, err := retrievalService.Search(ctx, args[0], askLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, results)
	}
	return outputAskText(cmd, results)
}

func outputAskJSON(cmd *cobra.Command, results []domain.RetrievedChunk) error {
	type passage struct {
		ID      string  `json:"id"`
		Source  string  `json:"source"`
		Page    int     `json:"page"`
		Score   float64 `json:"score"`
		Content string  `json:"content"`
	}
	passages := make([]passage, len(results))
	for i, r := range results {
		passages[i] = passage{
			ID:      r.ID,
			Source:  r.Source,
			Page:    r.Page,
			Score:   r.Score,
			Content: r.Content,
		}
	}

	data, err := json.MarshalIndent(passages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, results []domain.RetrievedChunk) error {
	if len(results) == 0 {
		cmd.Println("No passages found.")
		return nil
	}

	for i, r := range results {
		cmd.Printf("[%d] %s, p. %d (%.2f)\n", i+1, r.Source, r.Page, r.Score)
		cmd.Printf("    %s\n", r.Content)
		cmd.Println()
	}
	return nil
}
