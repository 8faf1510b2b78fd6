package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

type stubNormaliser struct {
	types    []string
	priority int
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.types }
func (s *stubNormaliser) Priority() int                { return s.priority }

func (s *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	return &domain.Document{Content: string(raw.Content)}, nil
}

func TestRegistry_PrefersHigherPriority(t *testing.T) {
	r := NewRegistry()
	low := &stubNormaliser{types: []string{"text/plain"}, priority: 1}
	high := &stubNormaliser{types: []string{"text/plain"}, priority: 90}

	r.Register(low)
	r.Register(high)

	got, err := r.Get("text/plain")
	require.NoError(t, err)
	assert.Same(t, high, got)
}

func TestRegistry_UnknownMIME(t *testing.T) {
	_, err := NewRegistry().Get("application/pdf")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		mime     string
		priority int
	}{
		{"text/plain", 5},
		{"text/markdown", 50},
		{"text/html", 50},
		{"application/json", 5},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			n, err := r.Get(tt.mime)
			require.NoError(t, err)
			assert.Equal(t, tt.priority, n.Priority())
		})
	}

	assert.Contains(t, r.MIMETypes(), "application/xhtml+xml")
	assert.NotContains(t, r.MIMETypes(), "application/pdf")
}
