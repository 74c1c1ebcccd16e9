package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		total     string
		totalPaid string
		want      InvoiceStatus
	}{
		{"no payments", "100.00", "0", StatusPending},
		{"negative sum stays pending", "100.00", "-10.00", StatusPending},
		{"partial", "100.00", "40.00", StatusPartiallyPaid},
		{"one cent short", "100.00", "99.99", StatusPartiallyPaid},
		{"exact", "100.00", "100.00", StatusPaid},
		{"overpaid", "100.00", "150.00", StatusPaid},
		{"zero total with payment", "0", "10.00", StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(d(tt.total), d(tt.totalPaid))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvoiceBreakdown(t *testing.T) {
	invoice := Invoice{
		DiscountPct: d("10"),
		TaxPct:      d("21"),
		ServiceItems: []ServiceItem{
			{Name: "Brake service", Price: d("100.00")},
		},
		ProductItems: []ProductItem{
			{Name: "Brake pad", Quantity: 2, UnitPrice: d("15.00"), TotalPrice: d("30.00")},
		},
	}

	breakdown := invoice.Breakdown()
	assert.Equal(t, "100.00", breakdown.ServicesSubtotal.StringFixed(2))
	assert.Equal(t, "30.00", breakdown.ProductsSubtotal.StringFixed(2))
	assert.Equal(t, "13.00", breakdown.DiscountAmount.StringFixed(2))
	assert.Equal(t, "24.57", breakdown.TaxAmount.StringFixed(2))
	assert.Equal(t, "141.57", breakdown.Total.StringFixed(2))
}
