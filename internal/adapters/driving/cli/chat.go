package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

var chatLimit int

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")).
			Bold(true)

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4"))

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")).
			Italic(true)
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question-answering session",
	Long: `Opens a conversation grounded in the document corpus. Each question
retrieves the most relevant passages and the model answers from them,
citing source and page. Type 'exit' or 'quit' to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().IntVar(&chatLimit, "top-k", 0, "passages retrieved per question (0 uses the configured default)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if err := ensureChatService(); err != nil {
		return err
	}
	if err := ensureRetrievalService(); err != nil {
		return err
	}

	ctx := context.Background()
	if err := retrievalService.Open(ctx); err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		cmd.Println("Ask questions about your corpus. Type 'exit' to leave.")
		cmd.Println()
	}

	var history []domain.ChatTurn
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if interactive {
			fmt.Fprint(cmd.OutOrStdout(), promptStyle.Render("you> ")+" ")
		}
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		reply, chunks, err := chatService.Answer(ctx, question, history, chatLimit)
		if err != nil {
			return fmt.Errorf("chat failed: %w", err)
		}

		cmd.Println(answerStyle.Render(reply))
		if len(chunks) > 0 {
			cmd.Println(sourceStyle.Render(formatSources(chunks)))
		}
		cmd.Println()

		history = append(history,
			domain.ChatTurn{Role: domain.RoleUser, Content: question},
			domain.ChatTurn{Role: domain.RoleAssistant, Content: reply},
		)
	}
	return scanner.Err()
}

// formatSources lists the distinct source/page pairs behind an answer.
func formatSources(chunks []domain.RetrievedChunk) string {
	seen := make(map[string]bool, len(chunks))
	refs := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		ref := fmt.Sprintf("%s p.%d", chunk.Source, chunk.Page)
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return "sources: " + strings.Join(refs, ", ")
}
