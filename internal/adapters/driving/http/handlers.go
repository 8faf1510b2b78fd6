package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/logger"
)

type askRequest struct {
	Question string `json:"question"`
	Session  string `json:"session,omitempty"`
}

type sourceResponse struct {
	RecordID   uint64            `json:"record_id"`
	DocumentID string            `json:"document_id"`
	Position   int               `json:"position"`
	Score      float64           `json:"score"`
	Text       string            `json:"text"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type askResponse struct {
	Answer  string           `json:"answer"`
	Outcome string           `json:"outcome"`
	Session string           `json:"session"`
	Sources []sourceResponse `json:"sources"`
}

type consultarRequest struct {
	Pergunta string `json:"pergunta"`
}

type ingestRequest struct {
	Location string `json:"location"`
}

type ingestResponse struct {
	RunID     string `json:"run_id"`
	Location  string `json:"location"`
	Documents int    `json:"documents"`
	Segments  int    `json:"segments"`
	Message   string `json:"message"`
}

type runResponse struct {
	ID         string    `json:"id"`
	Location   string    `json:"location"`
	Status     string    `json:"status"`
	Documents  int       `json:"documents"`
	Segments   int       `json:"segments"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: domain.MissingQuestionMessage})
		return
	}

	session := strings.TrimSpace(req.Session)
	if session == "" {
		session = domain.DefaultSession
	}

	answer, err := s.ports.Ask.Ask(r.Context(), session, req.Question)
	if err != nil {
		status, msg := askErrorStatus(err)
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}

	resp := askResponse{
		Answer:  answer.Text,
		Outcome: string(answer.Outcome),
		Session: session,
		Sources: make([]sourceResponse, 0, len(answer.Sources)),
	}
	for _, src := range answer.Sources {
		resp.Sources = append(resp.Sources, sourceResponse{
			RecordID:   uint64(src.RecordID),
			DocumentID: src.Segment.DocumentID,
			Position:   src.Segment.Position,
			Score:      src.Score,
			Text:       src.Segment.Text,
			Metadata:   src.Segment.Metadata,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleConsultar answers with the bare text, as the first deployment did.
func (s *Server) handleConsultar(w http.ResponseWriter, r *http.Request) {
	var req consultarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Pergunta) == "" {
		writeText(w, http.StatusBadRequest, domain.MissingQuestionMessage)
		return
	}

	answer, err := s.ports.Ask.Ask(r.Context(), domain.DefaultSession, req.Pergunta)
	if err != nil {
		status, msg := askErrorStatus(err)
		writeText(w, status, msg)
		return
	}
	writeText(w, http.StatusOK, answer.Text)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Location) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "location is required"})
		return
	}

	report, err := s.ports.Ingest.Ingest(r.Context(), req.Location)
	writeJSON(w, ingestStatus(err), ingestResponse{
		RunID:     report.RunID,
		Location:  report.Location,
		Documents: report.Documents,
		Segments:  report.Segments,
		Message:   report.Message,
	})
}

// handleTreinamento runs an ingestion and answers with the report line.
func (s *Server) handleTreinamento(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("path")
	if strings.TrimSpace(location) == "" {
		writeText(w, http.StatusBadRequest, "Erro: o parâmetro 'path' é obrigatório.")
		return
	}

	report, _ := s.ports.Ingest.Ingest(r.Context(), location) //nolint:errcheck // message carries the outcome
	writeText(w, http.StatusOK, report.Message)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.ports.Runs == nil {
		writeJSON(w, http.StatusOK, []runResponse{})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := s.ports.Runs.List(r.Context(), limit)
	if err != nil {
		logger.Error("listing runs: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list runs"})
		return
	}

	resp := make([]runResponse, len(runs))
	for i, run := range runs {
		resp[i] = runResponse{
			ID:         run.ID,
			Location:   run.Location,
			Status:     string(run.Status),
			Documents:  run.Documents,
			Segments:   run.Segments,
			Error:      run.Error,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// askErrorStatus maps the errors Ask can return.
func askErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, domain.MissingQuestionMessage
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request cancelled"
	default:
		logger.Error("ask failed: %v", err)
		return http.StatusInternalServerError, domain.FailureMessage
	}
}

// ingestStatus maps the outcome of an ingestion run.
// An empty corpus is a valid outcome and is answered with 200.
func ingestStatus(err error) int {
	switch {
	case err == nil, errors.Is(err, domain.ErrEmptyCorpus):
		return http.StatusOK
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnreadableSource):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}
