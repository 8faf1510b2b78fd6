package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

func TestFilterCompiler_DefaultRules(t *testing.T) {
	c := NewFilterCompiler(domain.DefaultFilterRules())

	tests := []struct {
		query string
		want  domain.FilterPredicate
	}{
		{"Quais as fases do modelo Sequencial?", domain.Equals("sdlc_type", "sequencial")},
		{"Como funciona o desenvolvimento iterativo?", domain.Equals("sdlc_type", "iterativo")},
		{"Modelos ITERATIVOS e incrementais", domain.Equals("sdlc_type", "iterativo")},
		{"O que diz o glossário sobre defeito?", domain.Equals("is_glossary", "true")},
		{"O que é teste de software?", domain.NoFilter()},
		{"", domain.NoFilter()},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Compile(tt.query))
		})
	}
}

func TestFilterCompiler_FirstRuleWins(t *testing.T) {
	c := NewFilterCompiler(domain.DefaultFilterRules())

	got := c.Compile("compare o modelo iterativo com o sequencial no glossário")

	assert.Equal(t, domain.Equals("sdlc_type", "sequencial"), got)
}

func TestFilterCompiler_CaseInsensitiveTriggers(t *testing.T) {
	c := NewFilterCompiler([]domain.FilterRule{
		{Trigger: "", Key: "ignored", Value: "x"},
		{Trigger: "ÁGIL", Key: "sdlc_type", Value: "iterativo"},
	})

	assert.Equal(t, domain.Equals("sdlc_type", "iterativo"), c.Compile("métodos ágeis? não, ágil"))
	assert.Equal(t, domain.NoFilter(), c.Compile("cascata"))
}
