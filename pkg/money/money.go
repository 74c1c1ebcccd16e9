// Package money implements decimal-safe amount and percentage arithmetic
// for estimates, invoices and payments. Amounts carry two fractional
// digits and every derived value is rounded half-up exactly once.
package money

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// ApplyPercentage returns base * pct / 100 rounded half-up to 2 decimals.
// Percentage inputs are validated at the service boundary; this function
// assumes pct is already in [0, 100].
func ApplyPercentage(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(oneHundred).Round(2)
}

// ValidPercentage reports whether pct lies in [0, 100].
func ValidPercentage(pct decimal.Decimal) bool {
	return pct.GreaterThanOrEqual(decimal.Zero) && pct.LessThanOrEqual(oneHundred)
}

// LineTotal returns quantity * unitPrice rounded to 2 decimals. The result
// is stored on the line item at creation and summed as-is afterwards.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Breakdown is the derived total of an estimate or invoice.
type Breakdown struct {
	ServicesSubtotal decimal.Decimal `json:"services_subtotal"`
	ProductsSubtotal decimal.Decimal `json:"products_subtotal"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	AfterDiscount    decimal.Decimal `json:"after_discount"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	Total            decimal.Decimal `json:"total"`
}

// ComputeTotals derives the document total:
//
//	subtotal      = servicesSubtotal + productsSubtotal
//	discountAmt   = subtotal * discountPct / 100
//	afterDiscount = subtotal - discountAmt
//	taxAmt        = afterDiscount * taxPct / 100
//	total         = afterDiscount + taxAmt
//
// The two percentage applications are the only rounding points; subtotals
// are sums of already-rounded stored line amounts.
func ComputeTotals(servicesSubtotal, productsSubtotal, discountPct, taxPct decimal.Decimal) Breakdown {
	subtotal := servicesSubtotal.Add(productsSubtotal)
	discount := ApplyPercentage(subtotal, discountPct)
	afterDiscount := subtotal.Sub(discount)
	tax := ApplyPercentage(afterDiscount, taxPct)
	return Breakdown{
		ServicesSubtotal: servicesSubtotal,
		ProductsSubtotal: productsSubtotal,
		Subtotal:         subtotal,
		DiscountAmount:   discount,
		AfterDiscount:    afterDiscount,
		TaxAmount:        tax,
		Total:            afterDiscount.Add(tax),
	}
}

// Sum adds a slice of already-rounded amounts.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
