package domain

import "fmt"

// FilterKind tags a FilterPredicate variant.
type FilterKind int

const (
	// FilterNone matches every record.
	FilterNone FilterKind = iota

	// FilterEquals matches records whose metadata holds Key with exactly Value.
	FilterEquals
)

// FilterPredicate is a metadata predicate applied at retrieval time.
type FilterPredicate struct {
	Kind  FilterKind
	Key   string
	Value string
}

// NoFilter returns the predicate that matches everything.
func NoFilter() FilterPredicate {
	return FilterPredicate{Kind: FilterNone}
}

// Equals returns a predicate requiring metadata[key] == value.
func Equals(key, value string) FilterPredicate {
	return FilterPredicate{Kind: FilterEquals, Key: key, Value: value}
}

// Matches reports whether the metadata satisfies the predicate.
// A key missing from the metadata never matches an Equals predicate.
func (p FilterPredicate) Matches(md Metadata) bool {
	if p.Kind != FilterEquals {
		return true
	}
	v, ok := md[p.Key]
	return ok && v == p.Value
}

// String returns a readable form for logs.
func (p FilterPredicate) String() string {
	if p.Kind != FilterEquals {
		return "none"
	}
	return fmt.Sprintf("%s=%q", p.Key, p.Value)
}

// FilterRule maps a trigger substring in a query to an Equals predicate.
type FilterRule struct {
	Trigger string
	Key     string
	Value   string
}

// MetadataRule assigns Value to Key when the text matches.
// A rule with neither Contains nor Pattern always matches and acts as a default.
type MetadataRule struct {
	Key        string
	Value      string
	Contains   string
	Pattern    string
	IgnoreCase bool
}

// DefaultFilterRules returns the built-in query filter rules.
func DefaultFilterRules() []FilterRule {
	return []FilterRule{
		{Trigger: "sequencial", Key: "sdlc_type", Value: "sequencial"},
		{Trigger: "iterativ", Key: "sdlc_type", Value: "iterativo"},
		{Trigger: "glossário", Key: "is_glossary", Value: "true"},
	}
}

// DefaultMetadataRules returns the built-in extraction table.
func DefaultMetadataRules() []MetadataRule {
	return []MetadataRule{
		{Key: "source", Value: "ISTQB-CTFL-v4.0.1"},
		{Key: "section", Value: "1.1", Contains: "1.1"},
		{Key: "section", Value: "1.2", Contains: "1.2"},
		{Key: "section", Value: "Geral"},
		{Key: "role", Value: "Analista de Teste"},
		{Key: "sdlc_type", Value: "sequencial", Contains: "sequencial", IgnoreCase: true},
		{Key: "sdlc_type", Value: "iterativo"},
		{Key: "activities", Value: "planejamento, análise, execução"},
		{Key: "competencies", Value: "funcional, não-funcional"},
		{Key: "is_glossary", Value: "true", Contains: "glossário", IgnoreCase: true},
		{Key: "is_glossary", Value: "false"},
	}
}
