// Package calc computes job item line amounts and invoice totals.
//
// Line amounts are rounded half-up to two places for display. Invoice totals
// sum the unrounded line values and round once, so a long list of small
// items does not drift.
package calc

import (
	"github.com/shopspring/decimal"
)

const scale = 2

var hundred = decimal.NewFromInt(100)

// Line is a single billable item.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	VATRate   decimal.Decimal
}

// LineAmounts is the rounded breakdown of one line.
type LineAmounts struct {
	Subtotal decimal.Decimal
	VAT      decimal.Decimal
	Total    decimal.Decimal
}

// Totals is the rounded breakdown of an invoice.
type Totals struct {
	Subtotal  decimal.Decimal
	VATAmount decimal.Decimal
	Total     decimal.Decimal
}

func lineSubtotal(l Line) decimal.Decimal {
	return l.UnitPrice.Mul(l.Quantity)
}

func lineVAT(l Line, exempt bool) decimal.Decimal {
	if exempt {
		return decimal.Zero
	}
	return lineSubtotal(l).Mul(l.VATRate).Div(hundred)
}

func LineSubtotal(l Line) decimal.Decimal {
	return lineSubtotal(l).Round(scale)
}

func LineVAT(l Line, exempt bool) decimal.Decimal {
	return lineVAT(l, exempt).Round(scale)
}

// LineTotal is LineSubtotal plus LineVAT of the rounded parts, so the three
// displayed values always add up.
func LineTotal(l Line, exempt bool) decimal.Decimal {
	return LineSubtotal(l).Add(LineVAT(l, exempt))
}

func Amounts(l Line, exempt bool) LineAmounts {
	sub := LineSubtotal(l)
	vat := LineVAT(l, exempt)
	return LineAmounts{Subtotal: sub, VAT: vat, Total: sub.Add(vat)}
}

// InvoiceTotals returns zeros for an empty list.
func InvoiceTotals(lines []Line, exempt bool) Totals {
	subtotal := decimal.Zero
	vat := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(lineSubtotal(l))
		vat = vat.Add(lineVAT(l, exempt))
	}

	subtotal = subtotal.Round(scale)
	vat = vat.Round(scale)
	if exempt {
		vat = decimal.Zero
	}

	return Totals{
		Subtotal:  subtotal,
		VATAmount: vat,
		Total:     subtotal.Add(vat),
	}
}
