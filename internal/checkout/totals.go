package checkout

import "github.com/shopspring/decimal"

// taxRate is the Peruvian IGV applied to every sale.
var taxRate = decimal.NewFromFloat(0.18)

// ComputeTotals folds the lines into a money summary. The subtotal
// accumulates at full precision; the tax is computed from the unrounded
// subtotal and rounded to two decimals; the total adds the unrounded tax to
// the subtotal and rounds once. The rounded total can therefore differ by a
// cent from the sum of the rounded subtotal and rounded tax.
func ComputeTotals(lines []CartLine) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Total())
	}
	rawTax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      rawTax.Round(2),
		Total:    subtotal.Add(rawTax).Round(2),
	}
}
