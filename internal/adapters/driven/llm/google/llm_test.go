package google

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

func TestNewCompletionService_RequiresKey(t *testing.T) {
	_, err := NewCompletionService(context.Background(), Config{})
	assert.Error(t, err)
}

func TestToContents(t *testing.T) {
	contents := toContents([]domain.ConversationTurn{
		{Role: domain.RoleUser, Text: "oi"},
		{Role: domain.RoleAssistant, Text: "olá"},
	})

	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, []genai.Part{genai.Text("oi")}, contents[0].Parts)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("olá")}, contents[1].Parts)
}

func TestToContents_Empty(t *testing.T) {
	assert.Empty(t, toContents(nil))
}
