// Package money keeps currency arithmetic off binary floats.
package money

import "github.com/shopspring/decimal"

// LineTotal returns (unitPrice + surcharges) * quantity.
func LineTotal(unitPrice float64, quantity int, surcharges ...float64) decimal.Decimal {
	unit := decimal.NewFromFloat(unitPrice)
	for _, s := range surcharges {
		unit = unit.Add(decimal.NewFromFloat(s))
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

// Sum adds float amounts exactly.
func Sum(values ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total
}

// Float rounds to cents.
func Float(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Round2 rounds a float amount to cents.
func Round2(v float64) float64 {
	return Float(decimal.NewFromFloat(v))
}

// Average returns total/count rounded to cents, or 0 when count is 0.
func Average(total decimal.Decimal, count int) float64 {
	if count == 0 {
		return 0
	}
	return Float(total.Div(decimal.NewFromInt(int64(count))))
}
