package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
)

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"text/markdown", "text/x-markdown"}, New().SupportedMIMETypes())
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		SourceID: "rh/ferias.md",
		URI:      "/corpus/rh/ferias.md",
		MIMEType: "text/markdown",
		Content:  []byte("# Política de Férias\n\nO colaborador tem **30 dias** de férias.\n\n- Categoria: rh"),
	}

	doc, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Política de Férias", doc.Title)
	assert.Equal(t, "Política de Férias\n\nO colaborador tem 30 dias de férias.\n\nCategoria: rh", doc.Content)
	assert.Equal(t, raw.SourceID, doc.SourceID)
}

func TestNormalise_NilDocument(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_TitleFallsBackToFilename(t *testing.T) {
	doc, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     "/docs/guia_de-uso.md",
		Content: []byte("## Only a subheading"),
	})
	require.NoError(t, err)
	assert.Equal(t, "guia de uso", doc.Title)
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"headings removed", "# Title\n## Subtitle\n### Third", "Title\nSubtitle\nThird"},
		{"bold removed", "This is **bold** text", "This is bold text"},
		{"italic removed", "This is *italic* text", "This is italic text"},
		{"underscores kept", "use snake_case_names", "use snake_case_names"},
		{"links converted", "Click [here](https://example.com)", "Click here"},
		{"images removed", "See ![alt text](image.png) here", "See  here"},
		{"code blocks removed", "Before\n```go\ncode here\n```\nAfter", "Before\n\nAfter"},
		{"inline code removed", "Use `code` here", "Use  here"},
		{"blockquotes cleaned", "> This is a quote", "This is a quote"},
		{"list markers removed", "- Item 1\n- Item 2", "Item 1\nItem 2"},
		{"numbered list markers removed", "1. First\n2. Second", "First\nSecond"},
		{"horizontal rule removed", "Above\n\n---\n\nBelow", "Above\n\nBelow"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stripMarkdown(tc.input))
		})
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = New()
}
