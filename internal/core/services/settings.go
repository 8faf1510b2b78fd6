package services

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
	"github.com/custodia-labs/groundrag/internal/core/ports/driving"
	"github.com/custodia-labs/groundrag/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyChunkSize      = "rag.chunk_size"
	keyChunkOverlap   = "rag.chunk_overlap"
	keyMaxResults     = "rag.max_results"
	keyMinScore       = "rag.min_score"
	keyMemoryWindow   = "rag.memory_window"
	keyTimeoutSeconds = "ai.timeout_seconds"
	keyRequestsPerSec = "ai.requests_per_second"
	keyBurst          = "ai.burst"
	keyRetryBackoffMS = "ai.retry_backoff_ms"
	keyBatchSize      = "ingest.batch_size"
	keyPersist        = "storage.persist"
)

// apiKeyEnv names the environment variable consulted when no key is configured.
//
//nolint:gosec // G101: environment variable names, not credentials.
var apiKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
	domain.AIProviderGoogle:    "GEMINI_API_KEY",
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	ruleStore   driven.RuleStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// The ruleStore parameter is optional (can be nil); built-in rules are used then.
func NewSettingsService(configStore driven.ConfigStore, ruleStore driven.RuleStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		ruleStore:   ruleStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
		},
		RAG: domain.RAGSettings{
			ChunkSize:        s.getInt(keyChunkSize, defaults.RAG.ChunkSize),
			ChunkOverlap:     s.getInt(keyChunkOverlap, defaults.RAG.ChunkOverlap),
			MaxResults:       s.getInt(keyMaxResults, defaults.RAG.MaxResults),
			MinScore:         s.getFloat(keyMinScore, defaults.RAG.MinScore),
			MemoryWindowSize: s.getInt(keyMemoryWindow, defaults.RAG.MemoryWindowSize),
			FilterRules:      defaults.RAG.FilterRules,
			MetadataRules:    defaults.RAG.MetadataRules,
		},
		Resilience: domain.ResilienceSettings{
			Timeout:           s.getDuration(keyTimeoutSeconds, time.Second, defaults.Resilience.Timeout),
			RequestsPerSecond: s.getFloat(keyRequestsPerSec, defaults.Resilience.RequestsPerSecond),
			Burst:             s.getInt(keyBurst, defaults.Resilience.Burst),
			RetryBackoff:      s.getDuration(keyRetryBackoffMS, time.Millisecond, defaults.Resilience.RetryBackoff),
		},
		IngestBatchSize: s.getInt(keyBatchSize, defaults.IngestBatchSize),
		Persist:         s.getBool(keyPersist, defaults.Persist),
	}

	settings.Embedding.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[settings.Embedding.Provider])
	settings.Embedding.APIKey = s.apiKey(keyEmbedAPIKey, settings.Embedding.Provider)
	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[settings.LLM.Provider])
	settings.LLM.APIKey = s.apiKey(keyLLMAPIKey, settings.LLM.Provider)

	if s.ruleStore != nil {
		rules, err := s.ruleStore.Load()
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		if len(rules.FilterRules) > 0 {
			settings.RAG.FilterRules = rules.FilterRules
		}
		if len(rules.MetadataRules) > 0 {
			settings.RAG.MetadataRules = rules.MetadataRules
		}
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyChunkSize, settings.RAG.ChunkSize},
		{keyChunkOverlap, settings.RAG.ChunkOverlap},
		{keyMaxResults, settings.RAG.MaxResults},
		{keyMinScore, settings.RAG.MinScore},
		{keyMemoryWindow, settings.RAG.MemoryWindowSize},
		{keyTimeoutSeconds, int(settings.Resilience.Timeout / time.Second)},
		{keyRequestsPerSec, settings.Resilience.RequestsPerSecond},
		{keyBurst, settings.Resilience.Burst},
		{keyRetryBackoffMS, int(settings.Resilience.RetryBackoff / time.Millisecond)},
		{keyBatchSize, settings.IngestBatchSize},
		{keyPersist, settings.Persist},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Keys coming from the environment are not written back.
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.envKey(settings.Embedding.Provider) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.envKey(settings.LLM.Provider) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	if s.ruleStore != nil {
		err := s.ruleStore.Save(driven.RuleSet{
			FilterRules:   settings.RAG.FilterRules,
			MetadataRules: settings.RAG.MetadataRules,
		})
		if err != nil {
			return fmt.Errorf("save rules: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}
	if apiKey == "" {
		apiKey = s.envKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	settings.Embedding.Model = model
	settings.Embedding.BaseURL = localBaseURL(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}
	if apiKey == "" {
		apiKey = s.envKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	settings.LLM.Model = model
	settings.LLM.BaseURL = localBaseURL(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the current settings can serve queries.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := settings.RAG.Validate(); err != nil {
		return err
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), settings.Embedding.Provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, settings.Embedding.Provider)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %s is not configured", domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %s is not configured", domain.ErrLLMUnavailable, settings.LLM.Provider)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ConfigPath returns where settings are stored.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// localBaseURL keeps a base URL only for local providers.
func localBaseURL(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return "http://localhost:11434"
	}
	return current
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, unit, defaultVal time.Duration) time.Duration {
	n := s.configStore.GetInt(key)
	if n <= 0 {
		return defaultVal
	}
	return time.Duration(n) * unit
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		logger.Warn("Unknown provider %q in %s, using %s", val, key, defaultVal)
		return defaultVal
	}
	return provider
}

func (s *SettingsService) apiKey(key string, provider domain.AIProvider) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return s.envKey(provider)
}

func (s *SettingsService) envKey(provider domain.AIProvider) string {
	name, ok := apiKeyEnv[provider]
	if !ok {
		return ""
	}
	return s.getenv(name)
}
