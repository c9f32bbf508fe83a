package classify

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gastos-dev/gastos/internal/model"
)

// RuleSet is the on-disk form of classification-rules.yaml.
type RuleSet struct {
	Default RuleSpec   `yaml:"default"`
	Rules   []RuleSpec `yaml:"rules"`
}

// RuleSpec is one YAML rule. Type uses the ledger labels (Fijo, Variable).
type RuleSpec struct {
	Key      string `yaml:"key,omitempty"`
	Type     string `yaml:"type"`
	Category string `yaml:"category"`
}

// DefaultRuleSet returns the built-in table in file form.
func DefaultRuleSet() RuleSet {
	rs := RuleSet{
		Default: RuleSpec{Type: model.ExpenseVariable.Label(), Category: DefaultCategory},
	}
	for _, r := range DefaultRules() {
		rs.Rules = append(rs.Rules, RuleSpec{Key: r.Key, Type: r.Type.Label(), Category: r.Category})
	}
	return rs
}

// Compile validates the rule set and builds a Classifier from it.
func (rs RuleSet) Compile() (*Classifier, error) {
	rules := make([]model.ClassificationRule, 0, len(rs.Rules))
	for i, spec := range rs.Rules {
		if strings.TrimSpace(spec.Key) == "" {
			return nil, fmt.Errorf("rule %d: empty key", i+1)
		}
		t, err := model.ParseExpenseType(spec.Type)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, spec.Key, err)
		}
		rules = append(rules, model.ClassificationRule{Key: spec.Key, Type: t, Category: spec.Category})
	}

	var opts []Option
	if rs.Default.Type != "" || rs.Default.Category != "" {
		t, err := model.ParseExpenseType(rs.Default.Type)
		if err != nil {
			return nil, fmt.Errorf("default rule: %w", err)
		}
		category := rs.Default.Category
		if category == "" {
			category = DefaultCategory
		}
		opts = append(opts, WithDefault(t, category))
	}
	return New(rules, opts...), nil
}

// LoadRules reads a rule file. A missing file yields the built-in table.
func LoadRules(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(DefaultRules()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	c, err := rs.Compile()
	if err != nil {
		return nil, fmt.Errorf("invalid rules in %s: %w", path, err)
	}
	return c, nil
}

// SaveRules writes a rule file, creating its directory.
func SaveRules(path string, rs RuleSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating rules dir: %w", err)
	}
	data, err := yaml.Marshal(rs)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
