// Package google provides a completion service adapter using the Gemini API.
package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
)

// Ensure CompletionService implements the interface.
var _ driven.CompletionService = (*CompletionService)(nil)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// Config holds configuration for the Gemini completion service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// Model is the model to use (default: gemini-1.5-flash).
	Model string
}

// CompletionService provides completions using Gemini chat sessions.
type CompletionService struct {
	client *genai.Client
	model  string
}

// NewCompletionService creates a new Gemini completion service.
func NewCompletionService(ctx context.Context, cfg Config) (*CompletionService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("google: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google: create client: %w", err)
	}

	return &CompletionService{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Complete replays the history into a chat session and sends the prompt.
func (s *CompletionService) Complete(
	ctx context.Context,
	system string,
	history []domain.ConversationTurn,
	prompt string,
) (string, error) {
	model := s.client.GenerativeModel(s.model)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	cs := model.StartChat()
	cs.History = toContents(history)

	rsp, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("google: send message: %w", err)
	}

	if len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: google returned no candidates", domain.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	result := strings.TrimSpace(b.String())
	if result == "" {
		return "", fmt.Errorf("%w: google returned no text content", domain.ErrInvalidResponse)
	}
	return result, nil
}

// toContents maps memory turns onto Gemini roles ("user" and "model").
func toContents(history []domain.ConversationTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := "user"
		if turn.Role == domain.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}
	return contents
}

// ModelName returns the name of the LLM model being used.
func (s *CompletionService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by fetching the model info.
func (s *CompletionService) Ping(ctx context.Context) error {
	if _, err := s.client.GenerativeModel(s.model).Info(ctx); err != nil {
		return fmt.Errorf("google: ping failed: %w", err)
	}
	return nil
}

// Close releases the client connection.
func (s *CompletionService) Close() error {
	return s.client.Close()
}
