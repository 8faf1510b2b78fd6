package mcp

import (
	"context"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer   domain.Answer
	err      error
	session  string
	question string
}

func (m *mockAskService) Ask(_ context.Context, session, question string) (domain.Answer, error) {
	m.session = session
	m.question = question
	return m.answer, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	report   domain.IngestReport
	err      error
	location string
}

func (m *mockIngestService) Ingest(_ context.Context, location string) (domain.IngestReport, error) {
	m.location = location
	return m.report, m.err
}

// mockRunService is a mock implementation of driving.RunService.
type mockRunService struct {
	runs []domain.IngestRun
	err  error
}

func (m *mockRunService) List(_ context.Context, _ int) ([]domain.IngestRun, error) {
	return m.runs, m.err
}

func validPorts() *Ports {
	return &Ports{
		Ask:    &mockAskService{},
		Ingest: &mockIngestService{},
	}
}
