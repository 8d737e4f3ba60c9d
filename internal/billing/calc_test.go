package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetAmount(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		price    float64
		discount float64
		want     float64
	}{
		{"no discount", 5, 200, 0, 1000},
		{"with discount", 10, 80, 5, 760},
		{"full discount", 3, 50, 100, 0},
		{"zero quantity", 0, 99.5, 10, 0},
		{"negative quantity", -1, 100, 0, 0},
		{"negative price", 2, -10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NetAmount(tt.quantity, tt.price, tt.discount), 1e-9)
		})
	}
}

func TestNetAmountNoDiscountEqualsGross(t *testing.T) {
	for _, q := range []float64{0, 1, 2.5, 100} {
		for _, p := range []float64{0, 0.5, 19.99, 1250} {
			assert.InDelta(t, q*p, NetAmount(q, p, 0), 1e-9)
		}
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil, 19, false, 0)
	assert.Equal(t, Totals{}, got)

	got = ComputeTotals([]Line{}, 7, false, 0)
	assert.Equal(t, Totals{}, got)
}

func TestComputeTotalsExample(t *testing.T) {
	lines := []Line{
		{ProductID: 1, Quantity: 5, UnitPrice: 200},
		{ProductID: 2, Quantity: 2, UnitPrice: 125},
	}
	got := ComputeTotals(lines, 20, false, 0)
	assert.InDelta(t, 1250, got.TotalHT, 1e-9)
	assert.InDelta(t, 0, got.TotalFodec, 1e-9)
	assert.InDelta(t, 1250, got.TotalHTVA, 1e-9)
	assert.InDelta(t, 250, got.TotalTVA, 1e-9)
	assert.InDelta(t, 1500, got.TotalTTC, 1e-9)
}

func TestComputeTotalsWithFodecAndStamp(t *testing.T) {
	lines := []Line{{ProductID: 7, Quantity: 10, UnitPrice: 80, DiscountPercent: 5}}
	got := ComputeTotals(lines, 19, true, 1.0)
	assert.InDelta(t, 760, got.TotalHT, 1e-9)
	assert.InDelta(t, 7.6, got.TotalFodec, 1e-9)
	assert.InDelta(t, 767.6, got.TotalHTVA, 1e-9)
	assert.InDelta(t, 145.844, got.TotalTVA, 1e-9)
	assert.InDelta(t, 914.444, got.TotalTTC, 1e-9)
}

func TestComputeTotalsIdempotent(t *testing.T) {
	lines := []Line{
		{ProductID: 1, Quantity: 3, UnitPrice: 42.5, DiscountPercent: 12},
		{ProductID: 2, Quantity: 1, UnitPrice: 990, DiscountPercent: 0},
	}
	first := ComputeTotals(lines, 19, true, 0.6)
	second := ComputeTotals(lines, 19, true, 0.6)
	assert.Equal(t, first, second)
}

func TestValidTaxRate(t *testing.T) {
	assert.True(t, ValidTaxRate(0))
	assert.True(t, ValidTaxRate(7))
	assert.True(t, ValidTaxRate(19))
	assert.False(t, ValidTaxRate(20))
	assert.False(t, ValidTaxRate(-7))
}
