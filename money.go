package fincast

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money pairs an amount with a currency code for display. Projection and
// solver math stays in float64; Money only enters at the rendering edge.
type Money struct {
	value decimal.Decimal
	cur   string
}

// M returns a Money for the given amount in the given ISO currency code.
func M(value float64, currency string) Money {
	return Money{value: decimal.NewFromFloat(value), cur: currency}
}

// currency returns the money's currency, defaulting through go-money so it
// is never nil.
func (m Money) currency() money.Currency {
	return *money.New(0, m.cur).Currency()
}

// String formats the amount with the currency's symbol and fraction rules.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString is String with an explicit plus sign, and "-" for zero.
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
