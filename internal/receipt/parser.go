// Package receipt turns the raw text of a payment receipt into its fields.
package receipt

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fields are the values recovered from one receipt.
type Fields struct {
	Provider string
	Amount   decimal.Decimal
	Date     time.Time
}

// Parser composes the three field matchers.
type Parser struct {
	Provider ProviderMatcher
	Amount   AmountMatcher
	Date     DateMatcher
}

// Parse recovers every field from text. A receipt is accepted as a whole or
// not at all: on failure the returned error is the first failing field in
// provider, amount, date order.
func (p Parser) Parse(text string) (Fields, error) {
	provider, provErr := p.Provider.Match(text)
	amount, amtErr := p.Amount.Match(text)
	date, dateErr := p.Date.Match(text)

	for _, err := range []error{provErr, amtErr, dateErr} {
		if err != nil {
			return Fields{}, err
		}
	}
	return Fields{Provider: provider, Amount: amount, Date: date}, nil
}

// Parse is a convenience for Parser{}.Parse.
func Parse(text string) (Fields, error) {
	return Parser{}.Parse(text)
}
