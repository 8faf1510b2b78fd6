package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/groundrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/groundrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/groundrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/groundrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/groundrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// Chat commands typed into the input.
const (
	cmdIngest = "/ingest"
	cmdClear  = "/clear"
	cmdQuit   = "/quit"
)

// Layout rows outside the transcript: header, input box (3) and status bar.
const chromeRows = 5

// entry is one block of the transcript.
type entry struct {
	kind    messages.EntryKind
	text    string
	sources domain.RetrievalResult
}

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input      *input.ChatInput
	transcript viewport.Model
	status     *status.Bar

	entries     []entry
	busy        bool
	showHelp    bool
	showSources bool
	turns       int

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetSession(ports.Session)

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		input:      input.NewChatInput(s),
		transcript: viewport.New(80, 20),
		status:     bar,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.input.Init(),
		tea.SetWindowTitle("groundrag - chat"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AnswerReceived:
		a.handleAnswer(msg)
		return a, nil

	case messages.IngestCompleted:
		a.handleIngest(msg)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keymap.Help):
		a.showHelp = !a.showHelp
		a.resize(a.width, a.height)
		return a, nil
	case key.Matches(msg, a.keymap.Sources):
		a.showSources = !a.showSources
		a.refresh()
		return a, nil
	case key.Matches(msg, a.keymap.Clear):
		a.entries = nil
		a.refresh()
		return a, nil
	case key.Matches(msg, a.keymap.ScrollUp):
		a.transcript.PageUp()
		return a, nil
	case key.Matches(msg, a.keymap.ScrollDown):
		a.transcript.PageDown()
		return a, nil
	case key.Matches(msg, a.keymap.Send):
		return a, a.submit()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit handles the text in the input. Nothing is sent while a call is in flight.
func (a *App) submit() tea.Cmd {
	if a.busy {
		return nil
	}
	text := strings.TrimSpace(a.input.Value())
	if text == "" {
		return nil
	}
	a.input.Reset()

	if strings.HasPrefix(text, "/") {
		return a.command(text)
	}

	a.append(entry{kind: messages.EntryQuestion, text: text})
	a.busy = true
	a.status.SetState(status.StateThinking)
	return a.askCmd(text)
}

func (a *App) command(text string) tea.Cmd {
	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case cmdQuit:
		return tea.Quit
	case cmdClear:
		a.entries = nil
		a.refresh()
		return nil
	case cmdIngest:
		if a.ports.Ingest == nil {
			a.append(entry{kind: messages.EntryNotice, text: "Ingestion is not available in this session."})
			return nil
		}
		if arg == "" {
			a.append(entry{kind: messages.EntryNotice, text: "Usage: /ingest <path>"})
			return nil
		}
		a.busy = true
		a.status.SetState(status.StateIngesting)
		return a.ingestCmd(arg)
	default:
		a.append(entry{kind: messages.EntryNotice, text: fmt.Sprintf("Unknown command %s", name)})
		return nil
	}
}

func (a *App) askCmd(question string) tea.Cmd {
	ctx, ask, session := a.ctx, a.ports.Ask, a.ports.Session
	return func() tea.Msg {
		answer, err := ask.Ask(ctx, session, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (a *App) ingestCmd(location string) tea.Cmd {
	ctx, ingest := a.ctx, a.ports.Ingest
	return func() tea.Msg {
		report, err := ingest.Ingest(ctx, location)
		return messages.IngestCompleted{Location: location, Report: report, Err: err}
	}
}

func (a *App) handleAnswer(msg messages.AnswerReceived) {
	a.busy = false

	if msg.Err != nil {
		text := msg.Err.Error()
		if errors.Is(msg.Err, domain.ErrInvalidInput) {
			text = domain.MissingQuestionMessage
		}
		a.append(entry{kind: messages.EntryFailure, text: text})
		a.status.SetState(status.StateError)
		a.status.SetMessage(text)
		return
	}

	a.turns++
	a.status.SetTurns(a.turns)
	a.status.SetState(status.StateReady)
	a.status.SetMessage("")
	a.append(entry{
		kind:    messages.KindFor(msg.Answer.Outcome),
		text:    msg.Answer.Text,
		sources: msg.Answer.Sources,
	})
}

func (a *App) handleIngest(msg messages.IngestCompleted) {
	a.busy = false
	a.append(entry{kind: messages.EntryNotice, text: msg.Report.Message})

	if msg.Err != nil && !errors.Is(msg.Err, domain.ErrEmptyCorpus) {
		a.status.SetState(status.StateError)
		a.status.SetMessage("ingestion failed")
		return
	}
	a.status.SetState(status.StateReady)
	a.status.SetMessage("")
}

func (a *App) append(e entry) {
	a.entries = append(a.entries, e)
	a.refresh()
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	rows := chromeRows
	if a.showHelp {
		rows += len(a.keymap.FullHelp())
	}
	a.transcript.Width = max(width, 20)
	a.transcript.Height = max(height-rows, 3)
	a.input.SetWidth(width)
	a.status.SetWidth(width)
	a.refresh()
}

// refresh re-renders the transcript and keeps the newest entry in view.
func (a *App) refresh() {
	a.transcript.SetContent(a.renderTranscript())
	a.transcript.GotoBottom()
}

func (a *App) renderTranscript() string {
	if len(a.entries) == 0 {
		return a.styles.Muted.Render("Pergunte algo sobre os documentos indexados.")
	}

	wrap := lipgloss.NewStyle().Width(max(a.transcript.Width-2, 10))
	blocks := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		blocks = append(blocks, a.renderEntry(e, wrap))
	}
	return strings.Join(blocks, "\n\n")
}

func (a *App) renderEntry(e entry, wrap lipgloss.Style) string {
	switch e.kind {
	case messages.EntryQuestion:
		return a.styles.UserLabel.Render("Você: ") + wrap.Render(e.text)
	case messages.EntryRefusal:
		return a.styles.AssistantLabel.Render("groundrag: ") + a.styles.Refusal.Render(wrap.Render(e.text))
	case messages.EntryFailure:
		return a.styles.Error.Render(wrap.Render(e.text))
	case messages.EntryNotice:
		return a.styles.Muted.Render(wrap.Render(e.text))
	case messages.EntryAnswer:
	}

	out := a.styles.AssistantLabel.Render("groundrag: ") + wrap.Render(e.text)
	if a.showSources {
		for i, src := range e.sources {
			out += "\n" + a.styles.Source.Render(fmt.Sprintf("[%d] %.3f  %s", i+1, src.Score, snippet(src.Segment.Text, 80)))
		}
	}
	return out
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	parts := []string{
		a.styles.Title.Render("groundrag") + a.styles.Muted.Render(" · respostas apenas a partir dos documentos"),
		a.transcript.View(),
	}
	if a.showHelp {
		for _, group := range a.keymap.FullHelp() {
			hints := make([]string, 0, len(group))
			for _, b := range group {
				hints = append(hints, b.Help().Key+" "+b.Help().Desc)
			}
			parts = append(parts, a.styles.Help.Render(strings.Join(hints, "  ")))
		}
	}
	parts = append(parts, a.input.View(), a.status.View())
	return strings.Join(parts, "\n")
}

// Entries returns the number of transcript entries.
func (a *App) Entries() int {
	return len(a.entries)
}

// Busy reports whether a call is in flight.
func (a *App) Busy() bool {
	return a.busy
}

// snippet returns the first n runes of text on one line.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "…"
}
