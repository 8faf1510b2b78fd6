package driven

import "github.com/custodia-labs/groundrag/internal/core/domain"

// RuleSet groups the two rule tables of the engine.
type RuleSet struct {
	FilterRules   []domain.FilterRule
	MetadataRules []domain.MetadataRule
}

// RuleStore loads and saves the rule tables.
type RuleStore interface {
	// Load returns the rule tables, falling back to the built-in defaults.
	Load() (RuleSet, error)

	// Save persists the rule tables.
	Save(rules RuleSet) error

	// Path returns the rule file path.
	Path() string
}
