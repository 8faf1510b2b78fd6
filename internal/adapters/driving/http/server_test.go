package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

type mockAskService struct {
	answer   domain.Answer
	err      error
	session  string
	question string
	calls    int
}

func (m *mockAskService) Ask(_ context.Context, session, question string) (domain.Answer, error) {
	m.calls++
	m.session = session
	m.question = question
	return m.answer, m.err
}

type mockIngestService struct {
	report   domain.IngestReport
	err      error
	location string
}

func (m *mockIngestService) Ingest(_ context.Context, location string) (domain.IngestReport, error) {
	m.location = location
	m.report.Location = location
	return m.report, m.err
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

func newTestServer(t *testing.T, ports *Ports) *httptest.Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestNewServer_RequiresPorts(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingAskService)

	_, err = NewServer(&Ports{Ask: &mockAskService{}})
	assert.ErrorIs(t, err, ErrMissingIngestService)
}

func TestAsk(t *testing.T) {
	ask := &mockAskService{answer: domain.Answer{
		Text:    "Resposta.",
		Outcome: domain.OutcomeGrounded,
		Sources: domain.RetrievalResult{{
			RecordID: 4,
			Segment: domain.Segment{
				DocumentID: "doc-1",
				Text:       "trecho",
				Metadata:   domain.Metadata{"section": "1.1"},
			},
			Score: 0.8,
		}},
	}}
	ts := newTestServer(t, &Ports{Ask: ask, Ingest: &mockIngestService{}})

	resp, body := post(t, ts.URL+"/api/ask", `{"question":"O que é teste?","session":"s-1"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got askResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "Resposta.", got.Answer)
	assert.Equal(t, "grounded", got.Outcome)
	assert.Equal(t, "s-1", got.Session)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, uint64(4), got.Sources[0].RecordID)
	assert.Equal(t, "1.1", got.Sources[0].Metadata["section"])
	assert.Equal(t, "O que é teste?", ask.question)
}

func TestAsk_DefaultSession(t *testing.T) {
	ask := &mockAskService{answer: domain.Answer{Text: domain.RefusalMessage, Outcome: domain.OutcomeRefused}}
	ts := newTestServer(t, &Ports{Ask: ask, Ingest: &mockIngestService{}})

	resp, body := post(t, ts.URL+"/api/ask", `{"question":"fora do corpus"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.DefaultSession, ask.session)
	assert.Contains(t, body, `"sources":[]`)
}

func TestAsk_MissingQuestion(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"blank question", `{"question":"   "}`},
		{"invalid json", `{"question":`},
		{"wrong type", `{"question":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ask := &mockAskService{}
			ts := newTestServer(t, &Ports{Ask: ask, Ingest: &mockIngestService{}})

			resp, body := post(t, ts.URL+"/api/ask", tt.body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body, domain.MissingQuestionMessage)
			assert.Zero(t, ask.calls)
		})
	}
}

func TestAsk_ServiceError(t *testing.T) {
	ts := newTestServer(t, &Ports{
		Ask:    &mockAskService{err: errors.New("boom")},
		Ingest: &mockIngestService{},
	})

	resp, body := post(t, ts.URL+"/api/ask", `{"question":"q"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, domain.FailureMessage)
}

func TestAsk_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, &Ports{Ask: &mockAskService{}, Ingest: &mockIngestService{}})

	resp, _ := get(t, ts.URL+"/api/ask")

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestConsultar(t *testing.T) {
	ask := &mockAskService{answer: domain.Answer{Text: "Texto puro.", Outcome: domain.OutcomeGrounded}}
	ts := newTestServer(t, &Ports{Ask: ask, Ingest: &mockIngestService{}})

	resp, body := post(t, ts.URL+"/api/consultar", `{"pergunta":"Quais são os níveis de teste?"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Texto puro.", body)
	assert.Equal(t, domain.DefaultSession, ask.session)
	assert.Equal(t, "Quais são os níveis de teste?", ask.question)
}

func TestConsultar_MissingQuestion(t *testing.T) {
	ts := newTestServer(t, &Ports{Ask: &mockAskService{}, Ingest: &mockIngestService{}})

	resp, body := post(t, ts.URL+"/api/consultar", `{"question":"wrong field"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MissingQuestionMessage, body)
}

func TestIngest(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		message    string
		wantStatus int
	}{
		{"success", nil, domain.SuccessMessage(2, 10), http.StatusOK},
		{"empty corpus", domain.ErrEmptyCorpus, domain.EmptyCorpusMessage("/srv"), http.StatusOK},
		{
			"unreadable source",
			fmt.Errorf("%w: no such file", domain.ErrUnreadableSource),
			"Falha no treinamento: unreadable source: no such file",
			http.StatusUnprocessableEntity,
		},
		{"dimension mismatch", domain.ErrDimensionMismatch, "Falha no treinamento: dimension mismatch", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingest := &mockIngestService{
				report: domain.IngestReport{RunID: "run-1", Message: tt.message},
				err:    tt.err,
			}
			ts := newTestServer(t, &Ports{Ask: &mockAskService{}, Ingest: ingest})

			resp, body := post(t, ts.URL+"/api/ingest", `{"location":"/srv"}`)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var got ingestResponse
			require.NoError(t, json.Unmarshal([]byte(body), &got))
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, "/srv", got.Location)
			assert.Equal(t, "run-1", got.RunID)
		})
	}
}

func TestIngest_MissingLocation(t *testing.T) {
	ingest := &mockIngestService{}
	ts := newTestServer(t, &Ports{Ask: &mockAskService{}, Ingest: ingest})

	resp, _ := post(t, ts.URL+"/api/ingest", `{}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, ingest.location)
}

func TestTreinamento(t *testing.T) {
	ingest := &mockIngestService{
		report: domain.IngestReport{Message: domain.EmptyCorpusMessage("/srv/vazio")},
		err:    domain.ErrEmptyCorpus,
	}
	ts := newTestServer(t, &Ports{Ask: &mockAskService{}, Ingest: ingest})

	resp, body := get(t, ts.URL+"/rag/treinamento?path=/srv/vazio")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Nenhum documento encontrado no caminho: /srv/vazio", body)
	assert.Equal(t, "/srv/vazio", ingest.location)
}

func TestTreinamento_MissingPath(t *testing.T) {
	ts := newTestServer(t, &Ports{Ask: &mockAskService{}, Ingest: &mockIngestService{}})

	resp, _ := get(t, ts.URL+"/rag/treinamento")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRuns(t *testing.T) {
	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	runs := &mockRunService{runs: []domain.IngestRun{{
		ID:         "run-1",
		Location:   "/srv",
		Status:     domain.RunSucceeded,
		Documents:  1,
		Segments:   3,
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
	}}}
	ts := newTestServer(t, &Ports{Ask: &mockAskService{}, Ingest: &mockIngestService{}, Runs: runs})

	resp, body := get(t, ts.URL+"/api/runs?limit=5")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, runs.limit)

	var got []runResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "succeeded", got[0].Status)
	assert.True(t, got[0].StartedAt.Equal(start))
}

func TestRuns_BadLimit(t *testing.T) {
	ts := newTestServer(t, &Ports{Ask: &mockAskService{}, Ingest: &mockIngestService{}, Runs: &mockRunService{}})

	resp, _ := get(t, ts.URL+"/api/runs?limit=-1")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRuns_NoLedger(t *testing.T) {
	ts := newTestServer(t, &Ports{Ask: &mockAskService{}, Ingest: &mockIngestService{}})

	resp, body := get(t, ts.URL+"/api/runs")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &Ports{Ask: &mockAskService{}, Ingest: &mockIngestService{}})

	resp, body := get(t, ts.URL+"/healthz")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestRequestBodyLimit(t *testing.T) {
	ask := &mockAskService{}
	ts := newTestServer(t, &Ports{Ask: ask, Ingest: &mockIngestService{}})

	big := `{"question":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	resp, _ := post(t, ts.URL+"/api/ask", big)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, ask.calls)
}

func TestHandler_NamesSpansAfterRoute(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	server, err := NewServer(&Ports{Ask: &mockAskService{}, Ingest: &mockIngestService{}, Runs: &mockRunService{}})
	require.NoError(t, err)
	handler := server.Handler()

	requests := []struct {
		method string
		target string
		want   string
	}{
		{http.MethodGet, "/healthz", "GET /healthz"},
		{http.MethodGet, "/api/runs?limit=2", "GET /api/runs"},
		{http.MethodGet, "/rag/treinamento?path=/srv/docs", "GET /rag/treinamento"},
		{http.MethodGet, "/nao-existe", "GET"},
	}
	for _, req := range requests {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(req.method, req.target, nil))
	}

	spans := recorder.Ended()
	require.Len(t, spans, len(requests))
	for i, req := range requests {
		assert.Equal(t, req.want, spans[i].Name(), req.target)
	}
}
