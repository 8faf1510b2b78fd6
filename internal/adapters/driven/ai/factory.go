// Package ai provides factory functions and resilience decorators for AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	googleembed "github.com/custodia-labs/groundrag/internal/adapters/driven/embedding/google"
	ollamaembed "github.com/custodia-labs/groundrag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/groundrag/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/groundrag/internal/adapters/driven/llm/anthropic"
	googlellm "github.com/custodia-labs/groundrag/internal/adapters/driven/llm/google"
	ollamallm "github.com/custodia-labs/groundrag/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/groundrag/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services holds the validated, decorated AI services.
type Services struct {
	Embedding  driven.EmbeddingService
	Completion driven.CompletionService
}

// Close releases all resources held by the services.
func (s *Services) Close() {
	if s.Embedding != nil {
		s.Embedding.Close()
	}
	if s.Completion != nil {
		s.Completion.Close()
	}
}

// NewServices creates both services from settings, pings them and wraps
// them with the resilience decorators.
func NewServices(ctx context.Context, settings *domain.AppSettings) (*Services, error) {
	embedding, err := CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, err
	}

	completion, err := CreateAndValidateCompletionService(ctx, &settings.LLM)
	if err != nil {
		embedding.Close()
		return nil, err
	}

	return &Services{
		Embedding:  NewResilientEmbedding(embedding, settings.Resilience),
		Completion: NewResilientCompletion(completion, settings.Resilience),
	}, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(
	ctx context.Context,
	settings *domain.EmbeddingSettings,
) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider not configured. Run 'groundrag settings show' to check",
			domain.ErrEmbeddingUnavailable)
	}

	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	// Validate connectivity.
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateCompletionService creates a completion service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateCompletionService(
	ctx context.Context,
	settings *domain.LLMSettings,
) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider not configured. Run 'groundrag settings show' to check",
			domain.ErrLLMUnavailable)
	}

	svc, err := CreateCompletionService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	// Validate connectivity.
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.Model]

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})

	case domain.AIProviderGoogle:
		return googleembed.NewEmbeddingService(ctx, googleembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("%w: anthropic does not support embeddings, use ollama, openai or google",
			domain.ErrUnsupportedType)

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateCompletionService creates the appropriate completion service based on settings.
func CreateCompletionService(ctx context.Context, settings *domain.LLMSettings) (driven.CompletionService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewCompletionService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewCompletionService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewCompletionService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGoogle:
		return googlellm.NewCompletionService(ctx, googlellm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: LLM provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}
