package calc

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(price, qty, rate string) Line {
	return Line{UnitPrice: d(price), Quantity: d(qty), VATRate: d(rate)}
}

func TestInvoiceTotalsStandardAndExempt(t *testing.T) {
	lines := []Line{line("100.00", "2", "20")}

	got := InvoiceTotals(lines, false)
	assert.Equal(t, "200.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "40.00", got.VATAmount.StringFixed(2))
	assert.Equal(t, "240.00", got.Total.StringFixed(2))

	got = InvoiceTotals(lines, true)
	assert.Equal(t, "200.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", got.VATAmount.StringFixed(2))
	assert.Equal(t, "200.00", got.Total.StringFixed(2))
}

func TestInvoiceTotalsEmpty(t *testing.T) {
	got := InvoiceTotals(nil, false)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.VATAmount.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestLineAmountsAddUp(t *testing.T) {
	lines := []Line{
		line("19.99", "3", "20"),
		line("0.33", "1.5", "20"),
		line("45", "0.25", "5"),
		line("12.345", "1", "17.5"),
	}
	for _, l := range lines {
		for _, exempt := range []bool{false, true} {
			a := Amounts(l, exempt)
			assert.True(t, a.Total.Equal(a.Subtotal.Add(a.VAT)))
			assert.True(t, LineTotal(l, exempt).Equal(a.Total))
			if exempt {
				assert.True(t, a.VAT.IsZero())
			}
		}
	}
}

func TestInvoiceTotalsRoundOnce(t *testing.T) {
	// Three lines of 0.333 VAT each: rounding per line gives 0.99,
	// summing first gives 1.00.
	lines := []Line{
		line("1.665", "1", "20"),
		line("1.665", "1", "20"),
		line("1.665", "1", "20"),
	}
	got := InvoiceTotals(lines, false)
	assert.Equal(t, "5.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "1.00", got.VATAmount.StringFixed(2))
	assert.Equal(t, "6.00", got.Total.StringFixed(2))
	assert.True(t, got.Total.Equal(got.Subtotal.Add(got.VATAmount)))
}

func TestInvoiceTotalsDeterministicUnderConcurrency(t *testing.T) {
	lines := []Line{line("33.33", "3", "20"), line("10", "1", "0")}
	want := InvoiceTotals(lines, false)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := InvoiceTotals(lines, false)
			assert.Equal(t, want.Total.StringFixed(2), got.Total.StringFixed(2))
		}()
	}
	wg.Wait()
}
