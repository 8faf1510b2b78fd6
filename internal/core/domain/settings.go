package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or completion.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGoogle is the Gemini API.
	AIProviderGoogle AIProvider = "google"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGoogle:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGoogle
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGoogle:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds completion provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RAGSettings is the single configuration structure of the retrieval engine.
type RAGSettings struct {
	// ChunkSize is the maximum segment length in runes.
	ChunkSize int

	// ChunkOverlap is the number of runes shared by consecutive segments.
	ChunkOverlap int

	// MaxResults is the retrieval top-K.
	MaxResults int

	// MinScore is the similarity threshold.
	MinScore float64

	// MemoryWindowSize is the number of turns kept per session.
	MemoryWindowSize int

	// FilterRules drive the query filter compiler, first match wins.
	FilterRules []FilterRule

	// MetadataRules drive the metadata extractor.
	MetadataRules []MetadataRule
}

// Validate checks the numeric bounds.
func (s RAGSettings) Validate() error {
	if s.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidInput)
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("%w: chunk overlap must be in [0, chunk size)", ErrInvalidInput)
	}
	if s.MaxResults <= 0 {
		return fmt.Errorf("%w: max results must be positive", ErrInvalidInput)
	}
	if s.MinScore < -1 || s.MinScore > 1 {
		return fmt.Errorf("%w: min score must be in [-1, 1]", ErrInvalidInput)
	}
	if s.MemoryWindowSize < 0 {
		return fmt.Errorf("%w: memory window must not be negative", ErrInvalidInput)
	}
	return nil
}

// ResilienceSettings bounds calls to external AI services.
type ResilienceSettings struct {
	// Timeout applies to each attempt.
	Timeout time.Duration

	// RequestsPerSecond is the token bucket rate (0 disables throttling).
	RequestsPerSecond float64

	// Burst is the token bucket size.
	Burst int

	// RetryBackoff is the wait before the single retry.
	RetryBackoff time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds completion provider settings.
	LLM LLMSettings

	// RAG holds the retrieval engine settings.
	RAG RAGSettings

	// Resilience holds timeout and retry settings.
	Resilience ResilienceSettings

	// IngestBatchSize is how many segment texts go into one EmbedBatch call.
	IngestBatchSize int

	// Persist enables record persistence and index rehydration.
	Persist bool
}

// DefaultRAGSettings returns the engine defaults.
func DefaultRAGSettings() RAGSettings {
	return RAGSettings{
		ChunkSize:        500,
		ChunkOverlap:     50,
		MaxResults:       3,
		MinScore:         0.75,
		MemoryWindowSize: 10,
		FilterRules:      DefaultFilterRules(),
		MetadataRules:    DefaultMetadataRules(),
	}
}

// DefaultAppSettings returns settings with sensible defaults.
// A local Ollama instance is assumed for both embeddings and completion.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    DefaultLLMModels()[AIProviderOllama],
		},
		RAG: DefaultRAGSettings(),
		Resilience: ResilienceSettings{
			Timeout:           60 * time.Second,
			RequestsPerSecond: 5,
			Burst:             10,
			RetryBackoff:      time.Second,
		},
		IngestBatchSize: 32,
		Persist:         true,
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGoogle,
	}
}

// AllLLMProviders returns providers that support completion.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGoogle,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGoogle: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGoogle:    "gemini-1.5-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Google models
		"text-embedding-004": 768,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor derives the ingestion pipeline from the engine settings.
// Metadata extraction runs before chunking so segments inherit the metadata.
func PipelineConfigFor(rag RAGSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"metadata", "chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"metadata": {
				"rules": rag.MetadataRules,
			},
			"chunker": {
				"chunk_size": rag.ChunkSize,
				"overlap":    rag.ChunkOverlap,
			},
		},
	}
}
