package postprocessors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
	"github.com/custodia-labs/groundrag/internal/postprocessors/chunker"
)

func TestRegistry_RegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	r.Register("mock", func(_ map[string]any) (driven.PostProcessor, error) {
		return &mockProcessor{name: "mock"}, nil
	})

	assert.True(t, r.Has("mock"))
	assert.False(t, r.Has("other"))

	proc, err := r.Build("mock", nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", proc.Name())
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	assert.Equal(t, []string{"chunker", "metadata"}, r.Names())
}

func TestBuildChunker_ConfigTypes(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]any
		size int
	}{
		{"nil config uses defaults", nil, chunker.DefaultChunkSize},
		{"int", map[string]any{"chunk_size": 300, "overlap": 30}, 300},
		{"int64 from toml", map[string]any{"chunk_size": int64(200), "overlap": int64(20)}, 200},
		{"float64 from json", map[string]any{"chunk_size": float64(150), "overlap": float64(15)}, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc, err := buildChunker(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.size, proc.(*chunker.Processor).ChunkSize())
		})
	}
}

func TestBuildMetadata_CustomRules(t *testing.T) {
	proc, err := buildMetadata(map[string]any{
		"rules": []domain.MetadataRule{{Key: "k", Value: "v"}},
	})
	require.NoError(t, err)

	doc := &domain.Document{Content: "x"}
	_, err = proc.Process(t.Context(), doc, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Metadata{"k": "v"}, doc.Metadata)
}
