package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

func TestChatCmd_NotConfigured(t *testing.T) {
	useServices(t, &Services{})

	_, err := executeCommand(t, "chat", "--plain")

	assert.ErrorIs(t, err, errAskNotConfigured)
}

func TestChatCmd_LineMode(t *testing.T) {
	ask := &mockAskService{answer: domain.Answer{Text: "Resposta fundamentada.", Outcome: domain.OutcomeGrounded}}
	useServices(t, &Services{Ask: ask})
	rootCmd.SetIn(strings.NewReader("primeira\n\nsegunda\n/quit\nnunca enviada\n"))

	out, err := executeCommand(t, "chat", "--plain", "--session", "s-9")

	require.NoError(t, err)
	assert.Equal(t, []string{"primeira", "segunda"}, ask.questions)
	assert.Equal(t, []string{"s-9", "s-9"}, ask.sessions)
	assert.Contains(t, out, "Resposta fundamentada.")
	assert.Contains(t, out, "session s-9")
}

func TestChatCmd_GeneratesSession(t *testing.T) {
	ask := &mockAskService{answer: domain.Answer{Text: "ok"}}
	useServices(t, &Services{Ask: ask})
	rootCmd.SetIn(strings.NewReader("a\nb\n"))

	_, err := executeCommand(t, "chat", "--plain")

	require.NoError(t, err)
	require.Len(t, ask.sessions, 2)
	assert.NotEmpty(t, ask.sessions[0])
	assert.NotEqual(t, domain.DefaultSession, ask.sessions[0])
	assert.Equal(t, ask.sessions[0], ask.sessions[1])
}

func TestChatCmd_LineIngest(t *testing.T) {
	ingest := &mockIngestService{report: domain.IngestReport{Message: domain.SuccessMessage(1, 2)}}
	useServices(t, &Services{Ask: &mockAskService{}, Ingest: ingest})
	rootCmd.SetIn(strings.NewReader("/ingest ./docs\n/ingest\n"))

	out, err := executeCommand(t, "chat", "--plain")

	require.NoError(t, err)
	assert.Equal(t, []string{"./docs"}, ingest.locations)
	assert.Contains(t, out, "Treinamento concluído")
	assert.Contains(t, out, "Usage: /ingest <path>")
}

func TestChatCmd_LineIngestUnavailable(t *testing.T) {
	useServices(t, &Services{Ask: &mockAskService{}})
	rootCmd.SetIn(strings.NewReader("/ingest ./docs\n"))

	out, err := executeCommand(t, "chat", "--plain")

	require.NoError(t, err)
	assert.Contains(t, out, "Ingestion is not available")
}

func TestChatCmd_LineErrors(t *testing.T) {
	ask := &mockAskService{err: errors.New("boom")}
	useServices(t, &Services{Ask: ask})
	rootCmd.SetIn(strings.NewReader("pergunta\n"))

	out, err := executeCommand(t, "chat", "--plain")

	require.NoError(t, err)
	assert.Contains(t, out, "Error: boom")
}
