package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for groundrag resources.
	uriScheme = "groundrag://"
)

// runInfo is the JSON shape of one ledger entry.
type runInfo struct {
	ID         string  `json:"id"`
	Location   string  `json:"location"`
	Status     string  `json:"status"`
	Documents  int     `json:"documents"`
	Segments   int     `json:"segments"`
	Error      string  `json:"error,omitempty"`
	StartedAt  string  `json:"started_at"`
	DurationMS float64 `json:"duration_ms"`
}

func toRunInfo(run domain.IngestRun) runInfo {
	return runInfo{
		ID:         run.ID,
		Location:   run.Location,
		Status:     string(run.Status),
		Documents:  run.Documents,
		Segments:   run.Segments,
		Error:      run.Error,
		StartedAt:  run.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: float64(run.Duration()) / float64(time.Millisecond),
	}
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the run ledger.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Ingestion runs, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	// Template for a single run.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run",
		Description: "A single ingestion run",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// handleRunsResource returns the run ledger.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Runs == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	runs, err := s.ports.Runs.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	infos := make([]runInfo, len(runs))
	for i, run := range runs {
		infos[i] = toRunInfo(run)
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}

	return jsonResult(req.Params.URI, string(data)), nil
}

// handleRunResource returns one run by id.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Runs == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract runId from URI: groundrag://runs/{runId}
	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	runs, err := s.ports.Runs.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	for _, run := range runs {
		if run.ID != runID {
			continue
		}
		data, err := json.MarshalIndent(toRunInfo(run), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling run: %w", err)
		}
		return jsonResult(req.Params.URI, string(data)), nil
	}

	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractRunID extracts the run ID from a URI like groundrag://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
