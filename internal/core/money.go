// Package core holds the budgeting domain: money, pay-period normalization,
// due-date reminders, and record validation. Everything here is
// side-effect-free; persistence and presentation live elsewhere.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents. Arithmetic that needs fractional intermediate
// values goes through shopspring/decimal and comes back as cents.
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Decimal returns the dollar value as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// MoneyFromDecimal rounds a dollar amount half-up to the cent.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Round(2).Shift(2).IntPart()}
}

// ParseAmount converts user input like "12.34" or "12,34" into Money.
// Negative and zero amounts are rejected.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return MoneyFromDecimal(d), nil
}

// AfterTax applies a percentage tax deduction: amount - amount*tax/100,
// rounded half-up to the cent.
func (m Money) AfterTax(taxPercent float64) Money {
	if taxPercent <= 0 {
		return m
	}
	tax := m.Decimal().Mul(decimal.NewFromFloat(taxPercent)).Div(decimal.NewFromInt(100))
	return MoneyFromDecimal(m.Decimal().Sub(tax))
}

// String renders the amount as a plain dollar figure, e.g. "2166.67".
func (m Money) String() string {
	neg := m.Cents < 0
	cents := m.Cents
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// Display renders the amount with a currency sign, e.g. "$2166.67".
func (m Money) Display() string {
	if m.Cents < 0 {
		return "-$" + strconv.FormatInt(-m.Cents/100, 10) + fmt.Sprintf(".%02d", (-m.Cents)%100)
	}
	return "$" + m.String()
}
