package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{126, "INR", "₹126.00"},
		{1234.5, "", "₹1,234.50"},
		{84.004999, "INR", "₹84.00"},
		{0.005, "INR", "₹0.01"},
		{19.999, "USD", "$20.00"},
		{5, "NOPE", "₹5.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.amount, tt.currency), "Format(%v, %q)", tt.amount, tt.currency)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 127.8, Round2(127.80000000000001))
	assert.Equal(t, -0.47, Round2(-0.465))
	assert.Equal(t, 0.0, Round2(0.004))
}

func TestFixed(t *testing.T) {
	assert.Equal(t, "210.00", Fixed(210))
	assert.Equal(t, "-0.28", Fixed(-0.279))
}

func TestNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Equal(t, "₹0.00", Format(v, "INR"))
		assert.Equal(t, "0.00", Fixed(v))
		assert.Equal(t, 0.0, Round2(v))
	}
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("EUR"))
	assert.False(t, Known(""))
	assert.False(t, Known("XYZ1"))
}
