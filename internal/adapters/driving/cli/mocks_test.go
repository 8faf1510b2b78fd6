package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

type mockIngestService struct {
	report    domain.IngestReport
	err       error
	locations []string
}

func (m *mockIngestService) Ingest(_ context.Context, location string) (domain.IngestReport, error) {
	m.locations = append(m.locations, location)
	return m.report, m.err
}

type mockAskService struct {
	answer    domain.Answer
	err       error
	sessions  []string
	questions []string
}

func (m *mockAskService) Ask(_ context.Context, session, question string) (domain.Answer, error) {
	m.sessions = append(m.sessions, session)
	m.questions = append(m.questions, question)
	return m.answer, m.err
}

type mockRunService struct {
	runs  []domain.IngestRun
	err   error
	limit int
}

func (m *mockRunService) List(_ context.Context, limit int) ([]domain.IngestRun, error) {
	m.limit = limit
	return m.runs, m.err
}

type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error

	embeddingProvider domain.AIProvider
	llmProvider       domain.AIProvider
	model             string
	apiKey            string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return errors.New("invalid provider")
	}
	m.embeddingProvider, m.model, m.apiKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return errors.New("invalid provider")
	}
	m.llmProvider, m.model, m.apiKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ConfigPath() string {
	return "/tmp/groundrag/config.toml"
}

// useServices installs services for one test and restores the previous ones.
func useServices(t *testing.T, s *Services) {
	t.Helper()

	prevIngest, prevAsk, prevRuns, prevSettings := ingestService, askService, runService, settingsService
	prevBootstrap, prevClose := bootstrap, closeFn

	SetServices(s)
	bootstrap = nil

	t.Cleanup(func() {
		ingestService, askService, runService, settingsService = prevIngest, prevAsk, prevRuns, prevSettings
		bootstrap, closeFn = prevBootstrap, prevClose
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		askSources = false
		askSession = domain.DefaultSession
		runsJSON = false
		runsLimit = 20
		chatSession = ""
		chatPlain = false
	})
}
