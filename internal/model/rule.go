package model

// ClassificationRule maps a provider substring to an expense type and category.
// Rules are evaluated in order; the first match wins.
type ClassificationRule struct {
	Key      string      `yaml:"key"`
	Type     ExpenseType `yaml:"type"`
	Category string      `yaml:"category"`
}
