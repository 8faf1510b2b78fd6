// Package metadata derives document attributes from its text using an
// ordered rule table.
package metadata

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
)

// Compile-time interface check.
var _ driven.PostProcessor = (*Extractor)(nil)

type rule struct {
	domain.MetadataRule
	pattern *regexp.Regexp
}

// matches reports whether the rule applies to text and lowered (its lower-cased form).
func (r rule) matches(text, lowered string) bool {
	if r.Contains != "" {
		if r.IgnoreCase {
			if !strings.Contains(lowered, strings.ToLower(r.Contains)) {
				return false
			}
		} else if !strings.Contains(text, r.Contains) {
			return false
		}
	}
	if r.pattern != nil && !r.pattern.MatchString(text) {
		return false
	}
	return true
}

// Extractor assigns metadata by evaluating rules per key.
// For every key the first matching rule wins.
type Extractor struct {
	rules []rule
	keys  []string
}

// New compiles the rule table.
func New(rules []domain.MetadataRule) (*Extractor, error) {
	e := &Extractor{rules: make([]rule, 0, len(rules))}
	seen := make(map[string]bool)

	for i, r := range rules {
		if r.Key == "" {
			return nil, fmt.Errorf("%w: metadata rule %d has no key", domain.ErrInvalidInput, i)
		}
		compiled := rule{MetadataRule: r}
		if r.Pattern != "" {
			expr := r.Pattern
			if r.IgnoreCase {
				expr = "(?i)" + expr
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("%w: metadata rule %d pattern: %v", domain.ErrInvalidInput, i, err)
			}
			compiled.pattern = re
		}
		e.rules = append(e.rules, compiled)
		if !seen[r.Key] {
			seen[r.Key] = true
			e.keys = append(e.keys, r.Key)
		}
	}

	return e, nil
}

// Name returns the processor name.
func (e *Extractor) Name() string {
	return "metadata"
}

// Keys returns the keys the extractor can assign, in rule order.
func (e *Extractor) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Extract returns the metadata for text. Keys without a matching rule are omitted.
func (e *Extractor) Extract(text string) domain.Metadata {
	lowered := strings.ToLower(text)
	md := make(domain.Metadata, len(e.keys))

	for _, r := range e.rules {
		if _, done := md[r.Key]; done {
			continue
		}
		if r.matches(text, lowered) {
			md[r.Key] = r.Value
		}
	}

	return md
}

// Process attaches the extracted metadata to the document.
// Extracted keys override loader-provided values; segments pass through unchanged.
func (e *Extractor) Process(_ context.Context, doc *domain.Document, segments []domain.Segment) ([]domain.Segment, error) {
	extracted := e.Extract(doc.Content)
	if doc.Metadata == nil {
		doc.Metadata = make(domain.Metadata, len(extracted))
	}
	for k, v := range extracted {
		doc.Metadata[k] = v
	}
	return segments, nil
}
