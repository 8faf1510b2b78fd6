package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/groundrag/internal/adapters/driving/tui"
	"github.com/custodia-labs/groundrag/internal/core/domain"
)

var (
	chatSession string
	chatPlain   bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive grounded conversation",
	Long: `Opens a chat over the indexed documents. Every question in the chat shares one
session, so follow-up questions see the previous turns.

In a terminal the full-screen interface is used; with --plain, or when input is
piped, a line-by-line prompt is used instead.

Commands:
  /ingest <path>  index more documents
  /clear          clear the transcript
  /quit           leave`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "conversation session (default: a new random session)")
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "use the line prompt instead of the full-screen interface")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if askService == nil {
		return errAskNotConfigured
	}

	session := chatSession
	if session == "" {
		session = uuid.NewString()
	}

	if chatPlain || !term.IsTerminal(int(os.Stdin.Fd())) {
		return runLineChat(cmd, cmd.InOrStdin(), session)
	}

	app, err := tui.NewApp(&tui.Ports{
		Ask:     askService,
		Ingest:  ingestService,
		Session: session,
	})
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}

// runLineChat reads one question per line until EOF or /quit.
func runLineChat(cmd *cobra.Command, in io.Reader, session string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	you := color.New(color.FgGreen, color.Bold).SprintFunc()
	bot := color.New(color.FgCyan, color.Bold).SprintFunc()
	muted := color.New(color.Faint).SprintFunc()

	fmt.Fprintln(out, bot("groundrag chat"), muted("session "+session))
	fmt.Fprintln(out, muted("Type a question and press Enter. /quit to leave."))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, you("Você: "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "exit":
			return nil
		case strings.HasPrefix(line, "/ingest"):
			lineIngest(cmd, strings.TrimSpace(strings.TrimPrefix(line, "/ingest")))
			continue
		}

		answer, err := askService.Ask(ctx, session, line)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, domain.ErrInvalidInput):
			fmt.Fprintln(out, domain.MissingQuestionMessage)
		case err != nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		default:
			fmt.Fprintln(out, bot("groundrag:"), answer.Text)
		}
		fmt.Fprintln(out)
	}
	return scanner.Err()
}

func lineIngest(cmd *cobra.Command, location string) {
	out := cmd.OutOrStdout()
	if ingestService == nil {
		fmt.Fprintln(out, "Ingestion is not available in this session.")
		return
	}
	if location == "" {
		fmt.Fprintln(out, "Usage: /ingest <path>")
		return
	}
	report, _ := ingestService.Ingest(cmd.Context(), location) //nolint:errcheck // the report message carries the outcome
	fmt.Fprintln(out, report.Message)
}
