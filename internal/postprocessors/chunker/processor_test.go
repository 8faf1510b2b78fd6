package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

const sampleText = `1.1 O que é teste?

Os testes de software avaliam a qualidade do software e ajudam a reduzir o risco de falhas em operação. Testar inclui verificação e validação.

1.2 Por que testar é necessário?
O teste, como forma de controle de qualidade, ajuda a atingir os objetivos acordados dentro do escopo, tempo, qualidade e orçamento. Em modelos sequenciais cada fase começa após a anterior! Em modelos iterativos? Entregas frequentes.

Glossário: defeito, erro, falha.`

func newProcessor(t *testing.T, size, overlap int) *Processor {
	t.Helper()
	p, err := New(WithChunkSize(size), WithOverlap(overlap))
	require.NoError(t, err)
	return p
}

func TestNew_Defaults(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, p.ChunkSize())
	assert.Equal(t, DefaultChunkOverlap, p.Overlap())
	assert.Equal(t, "chunker", p.Name())
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -5, 0},
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 20},
		{"negative overlap", 10, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(WithChunkSize(tt.size), WithOverlap(tt.overlap))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestChunk_EmptyContent(t *testing.T) {
	p := newProcessor(t, 100, 10)
	assert.Empty(t, p.Chunk(&domain.Document{ID: "d"}))
	assert.Empty(t, p.Chunk(nil))
}

func TestChunk_ShortTextIsSingleSegment(t *testing.T) {
	p := newProcessor(t, 100, 10)
	doc := &domain.Document{ID: "d", Content: "curto"}

	segments := p.Chunk(doc)

	require.Len(t, segments, 1)
	assert.Equal(t, "curto", segments[0].Text)
	assert.Equal(t, 0, segments[0].Overlap)
	assert.Equal(t, 0, segments[0].Start)
	assert.Equal(t, 5, segments[0].End)
}

func TestChunk_Reconstruction(t *testing.T) {
	texts := []string{
		sampleText,
		strings.Repeat("a", 1234),
		strings.Repeat("palavra ", 300),
		strings.Repeat("linha\n", 200),
		"\n\n\n" + sampleText + "\n\n",
		strings.Repeat("ção ", 97),
	}
	configs := [][2]int{{500, 50}, {100, 10}, {40, 39}, {7, 3}, {1, 0}, {64, 0}}

	for _, text := range texts {
		for _, cfg := range configs {
			p := newProcessor(t, cfg[0], cfg[1])
			segments := p.Chunk(&domain.Document{ID: "d", Content: text})

			require.NotEmpty(t, segments)
			assert.Equal(t, text, Reconstruct(segments), "size=%d overlap=%d", cfg[0], cfg[1])
		}
	}
}

func TestChunk_SegmentBoundsAndOverlap(t *testing.T) {
	p := newProcessor(t, 80, 20)
	text := sampleText
	runes := []rune(text)

	segments := p.Chunk(&domain.Document{ID: "d", Content: text})
	require.Greater(t, len(segments), 1)

	for i, s := range segments {
		assert.Equal(t, i, s.Position)
		assert.Equal(t, "d", s.DocumentID)
		assert.LessOrEqual(t, len([]rune(s.Text)), 80)
		assert.Equal(t, string(runes[s.Start:s.End]), s.Text)

		if i == 0 {
			assert.Equal(t, 0, s.Overlap)
			continue
		}
		prev := segments[i-1]
		assert.Equal(t, prev.End, s.Start+s.Overlap, "pieces are contiguous")
		assert.Equal(t, min(20, s.Start+s.Overlap), s.Overlap)
		// the overlap prefix is the tail of the previous segment
		assert.True(t, strings.HasSuffix(prev.Text, string([]rune(s.Text)[:s.Overlap])))
	}
	assert.Equal(t, len(runes), segments[len(segments)-1].End)
}

func TestChunk_PrefersParagraphBoundaries(t *testing.T) {
	p := newProcessor(t, 30, 0)
	text := "primeiro paragrafo.\n\nsegundo paragrafo."

	segments := p.Chunk(&domain.Document{ID: "d", Content: text})

	require.Len(t, segments, 2)
	assert.Equal(t, "primeiro paragrafo.\n\n", segments[0].Text)
	assert.Equal(t, "segundo paragrafo.", segments[1].Text)
}

func TestChunk_InheritsMetadataCopy(t *testing.T) {
	p := newProcessor(t, 10, 2)
	doc := &domain.Document{
		ID:       "d",
		Content:  strings.Repeat("x", 40),
		Metadata: domain.Metadata{"section": "1.1"},
	}

	segments := p.Chunk(doc)
	require.NotEmpty(t, segments)

	segments[0].Metadata["section"] = "changed"
	assert.Equal(t, "1.1", doc.Metadata["section"])
	assert.Equal(t, "1.1", segments[1].Metadata["section"])
}

func TestChunk_UniqueIDs(t *testing.T) {
	p := newProcessor(t, 10, 2)
	segments := p.Chunk(&domain.Document{ID: "d", Content: strings.Repeat("y", 100)})

	seen := make(map[string]bool)
	for _, s := range segments {
		assert.False(t, seen[s.ID])
		seen[s.ID] = true
	}
}

func TestProcess_IgnoresInputSegments(t *testing.T) {
	p := newProcessor(t, 100, 10)
	existing := []domain.Segment{{ID: "old"}}

	segments, err := p.Process(context.Background(), &domain.Document{ID: "d", Content: "texto"}, existing)

	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.NotEqual(t, "old", segments[0].ID)
}

func TestSplit_PreservesDocumentOrder(t *testing.T) {
	p := newProcessor(t, 10, 0)
	docs := []domain.Document{
		{ID: "a", Content: strings.Repeat("a", 25)},
		{ID: "b", Content: "b"},
	}

	segments, err := p.Split(docs)

	require.NoError(t, err)
	require.Len(t, segments, 4)
	assert.Equal(t, "a", segments[0].DocumentID)
	assert.Equal(t, "b", segments[3].DocumentID)
	assert.Equal(t, 0, segments[3].Position)
}
