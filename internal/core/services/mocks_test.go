package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
)

// mockEmbedding maps text to vectors by keyword: the first keyword found in
// the text picks the vector, otherwise fallback is used.
type mockEmbedding struct {
	mu       sync.Mutex
	keywords []string
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    int
	batches  []int
}

func (m *mockEmbedding) vectorFor(text string) []float32 {
	lower := strings.ToLower(text)
	for _, k := range m.keywords {
		if strings.Contains(lower, k) {
			return m.vectors[k]
		}
	}
	return m.fallback
}

func (m *mockEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.batches = append(m.batches, len(texts))
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vectorFor(t)
	}
	return out, nil
}

func (m *mockEmbedding) Dimensions() int { return len(m.fallback) }
func (m *mockEmbedding) ModelName() string { return "mock-embed" }
func (m *mockEmbedding) Ping(context.Context) error { return nil }
func (m *mockEmbedding) Close() error { return nil }

// completionCall records one Complete invocation.
type completionCall struct {
	system  string
	history []domain.ConversationTurn
	prompt  string
}

// mockCompletion returns a fixed response or error.
type mockCompletion struct {
	mu       sync.Mutex
	response string
	err      error
	block    bool
	calls    []completionCall
}

func (m *mockCompletion) Complete(
	ctx context.Context, system string, history []domain.ConversationTurn, prompt string,
) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, completionCall{system: system, history: history, prompt: prompt})
	block, response, err := m.block, m.response, m.err
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return response, err
}

func (m *mockCompletion) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockCompletion) ModelName() string { return "mock-llm" }
func (m *mockCompletion) Ping(context.Context) error { return nil }
func (m *mockCompletion) Close() error { return nil }

// mockLoader returns fixed documents.
type mockLoader struct {
	docs []domain.Document
	err  error
}

func (m *mockLoader) Load(_ context.Context, _ string) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Document, len(m.docs))
	copy(out, m.docs)
	return out, nil
}

// mockRecordStore collects saved records.
type mockRecordStore struct {
	records []domain.VectorRecord
	err     error
}

func (m *mockRecordStore) SaveRecords(_ context.Context, records []domain.VectorRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockRecordStore) LoadRecords(context.Context) ([]domain.VectorRecord, error) {
	return m.records, nil
}

func (m *mockRecordStore) Count(context.Context) (int, error) { return len(m.records), nil }

// mockPromptStore returns a fixed template.
type mockPromptStore struct {
	template string
}

func (m *mockPromptStore) Load(string) (string, error) { return m.template, nil }
func (m *mockPromptStore) Reload() {}

var (
	_ driven.EmbeddingService  = (*mockEmbedding)(nil)
	_ driven.CompletionService = (*mockCompletion)(nil)
	_ driven.CorpusLoader      = (*mockLoader)(nil)
	_ driven.RecordStore       = (*mockRecordStore)(nil)
	_ driven.PromptStore       = (*mockPromptStore)(nil)
)
