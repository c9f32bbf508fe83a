package classify

import "github.com/gastos-dev/gastos/internal/model"

// DefaultRules returns the built-in provider table. Order matters: "personal"
// is checked before the supermarket and card rules, "día" before "visa".
func DefaultRules() []model.ClassificationRule {
	return []model.ClassificationRule{
		{Key: "metrogas", Type: model.ExpenseFixed, Category: "Gas"},
		{Key: "edenor", Type: model.ExpenseFixed, Category: "Electricidad"},
		{Key: "personal", Type: model.ExpenseFixed, Category: "Internet"},
		{Key: "flow", Type: model.ExpenseFixed, Category: "Internet"},
		{Key: "carrefour", Type: model.ExpenseVariable, Category: "Supermercado"},
		{Key: "día", Type: model.ExpenseVariable, Category: "Supermercado"},
		{Key: "mcdonald", Type: model.ExpenseVariable, Category: "Comida rápida"},
		{Key: "burger", Type: model.ExpenseVariable, Category: "Comida rápida"},
		{Key: "visa", Type: model.ExpenseVariable, Category: "Tarjeta de crédito"},
		{Key: "amex", Type: model.ExpenseVariable, Category: "Tarjeta de crédito"},
	}
}
