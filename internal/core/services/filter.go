package services

import (
	"strings"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// FilterCompiler turns query text into a metadata predicate.
// Rules are tried in order and the first whose trigger occurs in the
// lower-cased query wins. There is no conjunction.
type FilterCompiler struct {
	rules []domain.FilterRule
}

// NewFilterCompiler creates a compiler. Triggers are matched case-insensitively.
func NewFilterCompiler(rules []domain.FilterRule) *FilterCompiler {
	lowered := make([]domain.FilterRule, 0, len(rules))
	for _, r := range rules {
		if r.Trigger == "" {
			continue
		}
		r.Trigger = strings.ToLower(r.Trigger)
		lowered = append(lowered, r)
	}
	return &FilterCompiler{rules: lowered}
}

// Compile returns the predicate for a query.
func (c *FilterCompiler) Compile(query string) domain.FilterPredicate {
	q := strings.ToLower(query)
	for _, r := range c.rules {
		if strings.Contains(q, r.Trigger) {
			return domain.Equals(r.Key, r.Value)
		}
	}
	return domain.NoFilter()
}
