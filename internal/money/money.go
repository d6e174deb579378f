// Package money formats amounts for display. Calculations stay in float64
// at full precision; rounding to two decimals happens only here.
package money

import (
	"math"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency, or an unknown one, is given.
const DefaultCurrency = "INR"

// displayFraction is the number of fraction digits shown for every currency.
const displayFraction = 2

// Round2 rounds v to two decimals, halves away from zero.
func Round2(v float64) float64 {
	return amount(v).Round(displayFraction).InexactFloat64()
}

// Fixed renders v with exactly two decimals and no currency symbol.
func Fixed(v float64) string {
	return amount(v).StringFixed(displayFraction)
}

// Format renders v with the currency's symbol, separators and exactly two
// decimals, e.g. Format(1234.5, "INR") == "₹1,234.50".
func Format(v float64, currency string) string {
	cur := lookup(currency)
	minor := amount(v).Round(displayFraction).Shift(displayFraction).IntPart()
	f := gomoney.NewFormatter(displayFraction, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return f.Format(minor)
}

// Known reports whether code is a currency go-money knows about.
func Known(code string) bool {
	return code != "" && gomoney.GetCurrency(code) != nil
}

// amount converts v to a decimal. NaN and infinities, which decimal cannot
// represent, display as zero.
func amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func lookup(code string) *gomoney.Currency {
	if c := gomoney.GetCurrency(code); code != "" && c != nil {
		return c
	}
	return gomoney.GetCurrency(DefaultCurrency)
}
