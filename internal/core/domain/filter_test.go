package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterPredicate_None(t *testing.T) {
	p := NoFilter()

	assert.True(t, p.Matches(nil))
	assert.True(t, p.Matches(Metadata{"sdlc_type": "iterativo"}))
	assert.Equal(t, "none", p.String())
}

func TestFilterPredicate_Equals(t *testing.T) {
	p := Equals("sdlc_type", "sequencial")

	tests := []struct {
		name string
		md   Metadata
		want bool
	}{
		{"exact value", Metadata{"sdlc_type": "sequencial"}, true},
		{"other value", Metadata{"sdlc_type": "iterativo"}, false},
		{"case differs", Metadata{"sdlc_type": "Sequencial"}, false},
		{"missing key", Metadata{"section": "1.1"}, false},
		{"nil metadata", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Matches(tt.md))
		})
	}
}

func TestFilterPredicate_EqualsEmptyValue(t *testing.T) {
	p := Equals("is_glossary", "")

	assert.True(t, p.Matches(Metadata{"is_glossary": ""}))
	assert.False(t, p.Matches(Metadata{}))
}

func TestDefaultRules(t *testing.T) {
	filters := DefaultFilterRules()
	assert.NotEmpty(t, filters)
	assert.Equal(t, "sequencial", filters[0].Trigger)

	keys := map[string]bool{}
	for _, r := range DefaultMetadataRules() {
		keys[r.Key] = true
	}
	for _, k := range []string{"source", "section", "role", "sdlc_type", "activities", "competencies", "is_glossary"} {
		assert.True(t, keys[k], "missing default rule for %s", k)
	}
}
