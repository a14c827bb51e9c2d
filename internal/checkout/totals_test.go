package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func lineOf(price string, qty int) CartLine {
	item := catalogItem(price, qty+100)
	return CartLine{Item: item, Quantity: qty}
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)
	require.True(t, totals.Subtotal.IsZero())
	require.True(t, totals.Tax.IsZero())
	require.True(t, totals.Total.IsZero())
}

func TestComputeTotalsKnownValues(t *testing.T) {
	tests := []struct {
		name     string
		lines    []CartLine
		subtotal string
		tax      string
		total    string
	}{
		{
			name:     "single line",
			lines:    []CartLine{lineOf("28.50", 2)},
			subtotal: "57.00",
			tax:      "10.26",
			total:    "67.26",
		},
		{
			name:     "multiple lines",
			lines:    []CartLine{lineOf("3.20", 3), lineOf("45.90", 1)},
			subtotal: "55.50",
			tax:      "9.99",
			total:    "65.49",
		},
		{
			name:     "fractional tax",
			lines:    []CartLine{lineOf("0.10", 1)},
			subtotal: "0.10",
			tax:      "0.02",
			total:    "0.12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals(tt.lines)
			require.Equal(t, tt.subtotal, totals.Subtotal.StringFixed(2))
			require.Equal(t, tt.tax, totals.Tax.StringFixed(2))
			require.Equal(t, tt.total, totals.Total.StringFixed(2))
		})
	}
}

func TestTotalAddsRawTaxBeforeRounding(t *testing.T) {
	// subtotal 1.25 carries a raw tax of 0.225; the total rounds 1.475 once
	// instead of summing the already-rounded parts.
	totals := ComputeTotals([]CartLine{lineOf("1.25", 1)})
	require.Equal(t, "1.25", totals.Subtotal.StringFixed(2))
	require.Equal(t, "0.23", totals.Tax.StringFixed(2))
	require.Equal(t, "1.48", totals.Total.StringFixed(2))
	require.True(t, totals.Subtotal.Mul(decimal.RequireFromString("0.18")).Equal(decimal.RequireFromString("0.225")))
}
