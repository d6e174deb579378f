package session

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmynk/billsplit/internal/models"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads the leading decimal number of s the way form inputs are
// read: "12.5" → 12.5, "3 pcs" → 3. Anything unreadable, NaN or infinite is 0.
// It never fails.
func ParseNumber(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// roundTo rounds v to places decimals. Results that overflow are 0.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return finite(math.Round(v*p) / p)
}

// finite returns v, or 0 when v is NaN or infinite.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// cleanItem clamps an item's price and quantity to finite, non-negative
// values whose product is finite too.
func cleanItem(it models.Item) models.Item {
	it.UnitPrice = max(0, finite(it.UnitPrice))
	it.Quantity = max(0, finite(it.Quantity))
	if math.IsInf(it.Total(), 0) {
		it.UnitPrice = 0
	}
	return it
}
