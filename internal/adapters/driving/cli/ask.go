package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

var (
	askSession string
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the indexed documents",
	Long: `Answers a question using only the indexed documents.

If no segment is similar enough to the question, the answer is a fixed refusal.
Questions in the same --session share conversation history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", domain.DefaultSession, "conversation session")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "print the segments the answer is based on")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return errAskNotConfigured
	}

	question := strings.Join(args, " ")
	answer, err := askService.Ask(cmd.Context(), askSession, question)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return errors.New(domain.MissingQuestionMessage)
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	if askSources {
		printSources(cmd, answer.Sources)
	}
	return nil
}

func printSources(cmd *cobra.Command, sources domain.RetrievalResult) {
	if len(sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, s := range sources {
		cmd.Printf("  [%d] %.3f  %s\n", i+1, s.Score, oneLine(s.Segment.Text, 100))
	}
}

// oneLine collapses whitespace and cuts text to n runes.
func oneLine(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
