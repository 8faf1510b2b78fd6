package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
)

// Ensure RuleStore implements the interface.
var _ driven.RuleStore = (*RuleStore)(nil)

// filterRuleYAML is the on-disk form of a domain.FilterRule.
type filterRuleYAML struct {
	Trigger string `yaml:"trigger"`
	Key     string `yaml:"key"`
	Value   string `yaml:"value"`
}

// metadataRuleYAML is the on-disk form of a domain.MetadataRule.
type metadataRuleYAML struct {
	Key        string `yaml:"key"`
	Value      string `yaml:"value"`
	Contains   string `yaml:"contains,omitempty"`
	Pattern    string `yaml:"pattern,omitempty"`
	IgnoreCase bool   `yaml:"ignore_case,omitempty"`
}

// rulesFile is the root of rules.yaml.
type rulesFile struct {
	Filters  []filterRuleYAML   `yaml:"filters"`
	Metadata []metadataRuleYAML `yaml:"metadata"`
}

// RuleStore keeps the filter and metadata rule tables in a YAML file.
// The file is created with the built-in tables on first Load.
type RuleStore struct {
	mu   sync.Mutex
	path string
}

// NewRuleStore creates a rule store. If path is empty, defaults to
// ~/.groundrag/rules.yaml.
func NewRuleStore(path string) (*RuleStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName, "rules.yaml")
	}
	return &RuleStore{path: path}, nil
}

// Load reads the rule tables. A missing file is written with the defaults.
// An empty table in the file falls back to its default.
func (s *RuleStore) Load() (driven.RuleSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			rules := defaultRuleSet()
			if err := s.save(rules); err != nil {
				return driven.RuleSet{}, err
			}
			return rules, nil
		}
		return driven.RuleSet{}, err
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return driven.RuleSet{}, fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidInput, s.path, err)
	}

	rules := fromFile(f)
	if len(rules.FilterRules) == 0 {
		rules.FilterRules = domain.DefaultFilterRules()
	}
	if len(rules.MetadataRules) == 0 {
		rules.MetadataRules = domain.DefaultMetadataRules()
	}
	return rules, nil
}

// Save writes the rule tables, creating directories as needed.
func (s *RuleStore) Save(rules driven.RuleSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(rules)
}

func (s *RuleStore) save(rules driven.RuleSet) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(toFile(rules))
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Path returns the rule file path.
func (s *RuleStore) Path() string {
	return s.path
}

func defaultRuleSet() driven.RuleSet {
	return driven.RuleSet{
		FilterRules:   domain.DefaultFilterRules(),
		MetadataRules: domain.DefaultMetadataRules(),
	}
}

func toFile(rules driven.RuleSet) rulesFile {
	var f rulesFile
	for _, r := range rules.FilterRules {
		f.Filters = append(f.Filters, filterRuleYAML(r))
	}
	for _, r := range rules.MetadataRules {
		f.Metadata = append(f.Metadata, metadataRuleYAML(r))
	}
	return f
}

func fromFile(f rulesFile) driven.RuleSet {
	var rules driven.RuleSet
	for _, r := range f.Filters {
		rules.FilterRules = append(rules.FilterRules, domain.FilterRule(r))
	}
	for _, r := range f.Metadata {
		rules.MetadataRules = append(rules.MetadataRules, domain.MetadataRule(r))
	}
	return rules
}
