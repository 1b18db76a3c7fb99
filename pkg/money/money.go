// Package money converts between major-unit decimals and integer minor units.
// Every amount stored or returned by the engine is an int64 in minor units.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorDigits is the number of fractional digits of the supported currencies.
const MinorDigits = 2

// MaxMinor bounds every amount accepted from callers, in either sign, so
// sums of a few amounts stay inside int64.
const MaxMinor int64 = 1 << 62

var (
	hundred  = decimal.NewFromInt(100)
	maxMinor = decimal.NewFromInt(MaxMinor)
)

// ToMinor converts a major-unit amount ("44.67") to minor units (4467).
// Amounts with more than two fractional digits are rejected rather than rounded.
func ToMinor(major decimal.Decimal) (int64, error) {
	minor := major.Mul(hundred)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", major.String(), MinorDigits)
	}
	if minor.Abs().GreaterThan(maxMinor) {
		return 0, fmt.Errorf("amount %s out of range", major.String())
	}
	return minor.IntPart(), nil
}

// FromMinor renders minor units as a fixed two-digit major amount.
func FromMinor(minor int64) string {
	return decimal.New(minor, -MinorDigits).StringFixed(MinorDigits)
}

// PercentOf returns round-half-up(amount * pct / 100) in minor units.
func PercentOf(amount int64, pct decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(pct).Div(hundred).Round(0).IntPart()
}
