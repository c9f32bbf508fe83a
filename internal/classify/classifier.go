// Package classify assigns an expense type and category to a provider name.
package classify

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gastos-dev/gastos/internal/model"
)

// DefaultCategory is assigned when no rule matches.
const DefaultCategory = "Other"

// Classifier matches providers against an ordered, immutable rule list.
type Classifier struct {
	rules           []model.ClassificationRule
	defaultType     model.ExpenseType
	defaultCategory string
}

// Option customizes a Classifier.
type Option func(*Classifier)

// WithDefault overrides the (type, category) returned when nothing matches.
func WithDefault(t model.ExpenseType, category string) Option {
	return func(c *Classifier) {
		c.defaultType = t
		c.defaultCategory = category
	}
}

// New copies rules so later changes to the caller's slice have no effect.
// Keys are folded to lower case once here.
func New(rules []model.ClassificationRule, opts ...Option) *Classifier {
	c := &Classifier{
		rules:           make([]model.ClassificationRule, 0, len(rules)),
		defaultType:     model.ExpenseVariable,
		defaultCategory: DefaultCategory,
	}
	for _, r := range rules {
		r.Key = fold(r.Key)
		if r.Key == "" {
			continue
		}
		c.rules = append(c.rules, r)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the type and category of the first rule whose key is a
// substring of the lower-cased provider.
func (c *Classifier) Classify(provider string) (model.ExpenseType, string) {
	p := fold(provider)
	for _, r := range c.rules {
		if strings.Contains(p, r.Key) {
			return r.Type, r.Category
		}
	}
	return c.defaultType, c.defaultCategory
}

// Rules returns a copy of the rule list in match order.
func (c *Classifier) Rules() []model.ClassificationRule {
	out := make([]model.ClassificationRule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Default returns the (type, category) given to providers no rule matches.
func (c *Classifier) Default() (model.ExpenseType, string) {
	return c.defaultType, c.defaultCategory
}

// fold lower-cases s with Spanish casing rules. A Caser is not safe for
// concurrent use, so one is built per call.
func fold(s string) string {
	return cases.Lower(language.Spanish).String(strings.TrimSpace(s))
}
