package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_Clone(t *testing.T) {
	md := Metadata{"section": "1.1"}
	clone := md.Clone()
	clone["section"] = "1.2"

	assert.Equal(t, "1.1", md["section"])
	assert.Nil(t, Metadata(nil).Clone())
}

func TestRetrievalResult_Texts(t *testing.T) {
	r := RetrievalResult{
		{RecordID: 2, Segment: Segment{Text: "b"}, Score: 0.9},
		{RecordID: 1, Segment: Segment{Text: "a"}, Score: 0.8},
	}

	assert.False(t, r.Empty())
	assert.Equal(t, []string{"b", "a"}, r.Texts())
	assert.True(t, RetrievalResult(nil).Empty())
}

func TestIngestMessages(t *testing.T) {
	assert.Equal(t,
		"Treinamento concluído. Documentos processados: 2, segmentos ingeridos: 7.",
		SuccessMessage(2, 7))
	assert.Equal(t, "Nenhum documento encontrado no caminho: /tmp/x", EmptyCorpusMessage("/tmp/x"))
	assert.Equal(t, "Falha no treinamento: boom", FailedIngestMessage(errors.New("boom")))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(ErrRateLimited))
	assert.True(t, IsTransient(errors.Join(errors.New("call"), ErrTimeout)))
	assert.False(t, IsTransient(ErrInvalidResponse))
	assert.False(t, IsTransient(nil))
}
