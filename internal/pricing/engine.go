package pricing

import "github.com/shopspring/decimal"

// DefaultTaxRate is the IVA rate applied when no override is configured.
var DefaultTaxRate = decimal.RequireFromString("0.12")

// Line holds the priced components of a single reservation line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

// Summary aggregates computed pricing components across lines.
type Summary struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Lines    int
}

// Round2 quantizes d to two decimal places, rounding halves away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeLine prices quantity units at unitPrice. Each step is rounded
// before it feeds the next one, so the persisted values are reproducible.
func ComputeLine(unitPrice decimal.Decimal, quantity int, taxRate decimal.Decimal) Line {
	subtotal := Round2(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
	tax := Round2(subtotal.Mul(taxRate))
	total := Round2(subtotal.Add(tax))
	return Line{
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
	}
}

// Summarize sums already rounded lines. The result matches the sum of the
// booking snapshots created from the same lines.
func Summarize(lines []Line) Summary {
	summary := Summary{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, line := range lines {
		summary.Subtotal = summary.Subtotal.Add(line.Subtotal)
		summary.Tax = summary.Tax.Add(line.Tax)
		summary.Total = summary.Total.Add(line.Total)
		summary.Lines++
	}
	return summary
}

// ParseRate parses a tax rate such as "0.12". Negative rates are rejected.
func ParseRate(value string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	if rate.IsNegative() {
		return decimal.Zero, errNegativeRate
	}
	return rate, nil
}
