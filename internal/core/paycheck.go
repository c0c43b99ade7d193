package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	PayWeekly      PayPeriod = "weekly"
	PayBiWeekly    PayPeriod = "bi_weekly"
	PaySemiMonthly PayPeriod = "semi_monthly"
	PayMonthly     PayPeriod = "monthly"
)

// PayPeriod is how often a recorded income recurs. It exists only to
// normalize the entered amount to a monthly figure; the raw entry is not
// retained.
type PayPeriod string

// paychecksPerYear maps each period to its occurrences per year.
var paychecksPerYear = map[PayPeriod]int64{
	PayWeekly:      52,
	PayBiWeekly:    26,
	PaySemiMonthly: 24,
	PayMonthly:     12,
}

// PayPeriods returns the supported periods in ascending frequency order.
func PayPeriods() []PayPeriod {
	return []PayPeriod{PayMonthly, PaySemiMonthly, PayBiWeekly, PayWeekly}
}

func (p PayPeriod) Valid() bool {
	_, ok := paychecksPerYear[p]
	return ok
}

// Label returns the human-readable name of a pay period.
func (p PayPeriod) Label() string {
	switch p {
	case PayWeekly:
		return "weekly"
	case PayBiWeekly:
		return "bi-weekly (every other week)"
	case PaySemiMonthly:
		return "semi-monthly (twice a month)"
	case PayMonthly:
		return "monthly"
	default:
		return ""
	}
}

func ParsePayPeriod(s string) (PayPeriod, error) {
	p := PayPeriod(strings.TrimSpace(strings.ToLower(s)))
	if !p.Valid() {
		return "", ErrInvalidPayPeriod
	}
	return p, nil
}

// NormalizeMonthly converts a per-paycheck amount into its monthly
// equivalent: amount * occurrences_per_year / 12, rounded half-up to the
// cent. The caller validates the amount; this never fails for a valid
// period.
func NormalizeMonthly(period PayPeriod, amount Money) (Money, error) {
	occurrences, ok := paychecksPerYear[period]
	if !ok {
		return Money{}, ErrInvalidPayPeriod
	}
	monthly := amount.Decimal().
		Mul(decimal.NewFromInt(occurrences)).
		Div(decimal.NewFromInt(12))
	return MoneyFromDecimal(monthly), nil
}
