package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestApplyPercentage_RoundsHalfUp(t *testing.T) {
	assert.True(t, dec("13.00").Equal(ApplyPercentage(dec("130.00"), dec("10"))))
	assert.True(t, dec("24.57").Equal(ApplyPercentage(dec("117.00"), dec("21"))))
	// 100.005 * 10% = 10.0005 -> 10.00; 100.05 * 10% = 10.005 -> 10.01
	assert.True(t, dec("10.01").Equal(ApplyPercentage(dec("100.05"), dec("10"))))
	assert.True(t, decimal.Zero.Equal(ApplyPercentage(dec("130.00"), decimal.Zero)))
}

func TestComputeTotals_EstimateExample(t *testing.T) {
	// services = [Oil change 100.00], products = [Filter qty 2 @ 15.00]
	services := dec("100.00")
	products := LineTotal(2, dec("15.00"))
	assert.True(t, dec("30.00").Equal(products))

	b := ComputeTotals(services, products, dec("10"), dec("21"))
	assert.True(t, dec("130.00").Equal(b.Subtotal))
	assert.True(t, dec("13.00").Equal(b.DiscountAmount))
	assert.True(t, dec("117.00").Equal(b.AfterDiscount))
	assert.True(t, dec("24.57").Equal(b.TaxAmount))
	assert.True(t, dec("141.57").Equal(b.Total))
}

func TestComputeTotals_ZeroItems(t *testing.T) {
	b := ComputeTotals(decimal.Zero, decimal.Zero, dec("10"), dec("21"))
	assert.True(t, b.Total.IsZero())
	assert.True(t, b.DiscountAmount.IsZero())
	assert.True(t, b.TaxAmount.IsZero())
}

func TestComputeTotals_Identity(t *testing.T) {
	// total == afterDiscount + applyPercentage(afterDiscount, tax) for a
	// spread of subtotals and percentages.
	cases := []struct{ subtotal, discount, tax string }{
		{"0", "0", "0"},
		{"99.99", "0", "0"},
		{"250.50", "5", "21"},
		{"1234.56", "12.5", "10.5"},
		{"10.01", "100", "100"},
		{"73.37", "33.33", "66.66"},
	}
	for _, tc := range cases {
		b := ComputeTotals(dec(tc.subtotal), decimal.Zero, dec(tc.discount), dec(tc.tax))
		after := dec(tc.subtotal).Sub(ApplyPercentage(dec(tc.subtotal), dec(tc.discount)))
		assert.True(t, b.AfterDiscount.Equal(after), "case %+v", tc)
		assert.True(t, b.Total.Equal(after.Add(ApplyPercentage(after, dec(tc.tax)))), "case %+v", tc)
	}
}

func TestValidPercentage(t *testing.T) {
	assert.True(t, ValidPercentage(decimal.Zero))
	assert.True(t, ValidPercentage(dec("100")))
	assert.True(t, ValidPercentage(dec("21.5")))
	assert.False(t, ValidPercentage(dec("-0.01")))
	assert.False(t, ValidPercentage(dec("100.01")))
}

func TestSum(t *testing.T) {
	assert.True(t, Sum(nil).IsZero())
	assert.True(t, dec("30.30").Equal(Sum([]decimal.Decimal{dec("10.10"), dec("20.20")})))
}
