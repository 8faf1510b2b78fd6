package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	Session  string `json:"session,omitempty" jsonschema:"conversation session id (default \"default\")"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Outcome string         `json:"outcome"`
	Sources []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput is one retrieved segment used as context.
type SourceOutput struct {
	DocumentID string  `json:"document_id"`
	Position   int     `json:"position"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Location string `json:"location" jsonschema:"file or directory to ingest"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	RunID     string `json:"run_id"`
	Documents int    `json:"documents"`
	Segments  int    `json:"segments"`
	Message   string `json:"message"`
	Failed    bool   `json:"failed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question strictly from the indexed documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Load, segment and index the documents at a location",
	}, s.handleIngest)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	session := strings.TrimSpace(input.Session)
	if session == "" {
		session = domain.DefaultSession
	}

	answer, err := s.ports.Ask.Ask(ctx, session, input.Question)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, AskOutput{}, errors.New(domain.MissingQuestionMessage)
		}
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Outcome: string(answer.Outcome),
	}
	for _, src := range answer.Sources {
		output.Sources = append(output.Sources, SourceOutput{
			DocumentID: src.Segment.DocumentID,
			Position:   src.Segment.Position,
			Score:      src.Score,
			Text:       src.Segment.Text,
		})
	}

	return nil, output, nil
}

// handleIngest handles the ingest tool invocation.
// Failures are reported in the output; the run message carries the cause.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	report, err := s.ports.Ingest.Ingest(ctx, input.Location)
	if err != nil && ctx.Err() != nil {
		return nil, IngestOutput{}, ctx.Err()
	}

	return nil, IngestOutput{
		RunID:     report.RunID,
		Documents: report.Documents,
		Segments:  report.Segments,
		Message:   report.Message,
		Failed:    err != nil && !errors.Is(err, domain.ErrEmptyCorpus),
	}, nil
}
