// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits kept for reported amounts.
const MoneyPlaces int32 = 2

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// RoundMoney rounds to MoneyPlaces, half away from zero.
func RoundMoney(m Money) Money {
	return m.Round(MoneyPlaces)
}

// Percent returns part/whole*100 rounded to MoneyPlaces.
// A zero whole yields zero instead of dividing.
func Percent(part, whole Money) Money {
	if whole.IsZero() {
		return decimal.Zero
	}
	return RoundMoney(part.Mul(decimal.NewFromInt(100)).Div(whole))
}

// Ratio returns num/den, or zero when den is zero.
func Ratio(num, den Money) Money {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}
