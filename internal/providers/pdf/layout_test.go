package pdf

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleDocument(items int, description string) InvoiceDocument {
	doc := InvoiceDocument{
		Garage:    Garage{Name: "Ace Motors", Address: "1 High Street", Phone: "01234 567890"},
		Customer:  Customer{Name: "Jane Driver", Phone: "07000 000000"},
		Vehicle:   Vehicle{Registration: "AB12 CDE", Make: "Ford", Model: "Focus", Mileage: 45210},
		Number:    "INV-001",
		Date:      time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2024, 3, 23, 0, 0, 0, 0, time.UTC),
		Status:    "Unpaid",
		Subtotal:  d("200.00"),
		VATAmount: d("40.00"),
		Total:     d("240.00"),
	}
	for i := 0; i < items; i++ {
		doc.Items = append(doc.Items, Item{
			Type:        "Parts",
			Description: description,
			Quantity:    d("2"),
			UnitPrice:   d("100"),
			VATRate:     d("20.00"),
			Total:       d("240"),
		})
	}
	return doc
}

func allText(l Layout) []string {
	var out []string
	for _, p := range l.Pages {
		for _, r := range p.Rows {
			for _, c := range r.Cells {
				if c.Text != "" {
					out = append(out, c.Text)
				}
			}
		}
	}
	return out
}

func TestBuildLayoutSinglePage(t *testing.T) {
	l := BuildLayout(sampleDocument(2, "Brake pads"), nil, Options{})
	require.Len(t, l.Pages, 1)

	text := allText(l)
	assert.Contains(t, text, "Ace Motors")
	assert.Contains(t, text, "INVOICE #INV-001")
	assert.Contains(t, text, "Date: 09/03/2024")
	assert.Contains(t, text, "Due Date: 23/03/2024")
	assert.Contains(t, text, "Mileage: 45,210 miles")
	assert.Contains(t, text, "£100.00")
	assert.Contains(t, text, "20%")
	assert.Contains(t, text, "2.00")
	assert.Contains(t, text, "VAT:")
	assert.Contains(t, text, "£240.00")
	assert.NotContains(t, text, "Email: ")
	assert.NotContains(t, text, "VAT: ")
}

func TestBuildLayoutFallbacksAndExempt(t *testing.T) {
	doc := sampleDocument(1, "Labour")
	doc.Garage = Garage{}
	doc.VATExempt = true

	text := allText(BuildLayout(doc, nil, Options{CurrencySymbol: "€"}))
	assert.Contains(t, text, "Your Garage")
	assert.Contains(t, text, "Exempt")
	assert.Contains(t, text, "VAT (Exempt):")
	assert.Contains(t, text, "€100.00")
	assert.NotContains(t, text, "20%")
}

func TestBuildLayoutUsesLogo(t *testing.T) {
	logo := &Image{Data: []byte{1}, Extension: "png"}
	l := BuildLayout(sampleDocument(1, "Labour"), logo, Options{})

	first := l.Pages[0].Rows[0]
	require.Len(t, first.Cells, 1)
	assert.Same(t, logo, first.Cells[0].Image)
	assert.NotContains(t, allText(l), "Ace Motors")
}

func TestBuildLayoutPaginatesLongTables(t *testing.T) {
	long := strings.Repeat("replace worn component ", 8)
	l := BuildLayout(sampleDocument(30, long), nil, Options{WrapWidth: 40})
	require.Greater(t, len(l.Pages), 1)

	for i, p := range l.Pages {
		assert.LessOrEqual(t, Margin+p.Height(), PageHeight-InstructionsReserve, "page %d overflows", i)
		require.NotEmpty(t, p.Rows)
	}
}

func TestBuildLayoutBreaksInsideWrappedItem(t *testing.T) {
	// One long item spills its continuation lines onto the next page.
	desc := strings.TrimSpace(strings.Repeat("word ", 200))
	l := BuildLayout(sampleDocument(2, desc), nil, Options{WrapWidth: 40})
	require.GreaterOrEqual(t, len(l.Pages), 2)

	second := l.Pages[1].Rows[0]
	require.Len(t, second.Cells, len(tableSpans))
	assert.Empty(t, second.Cells[0].Text, "continuation line carries only the description")
	assert.NotEmpty(t, second.Cells[1].Text)
}

func TestBuildLayoutNotesAndInstructions(t *testing.T) {
	doc := sampleDocument(1, "Labour")
	doc.Notes = "Thanks for your business"
	doc.PaymentInstructions = "Sort code 12-34-56\nAccount 12345678"

	text := allText(BuildLayout(doc, nil, Options{}))
	assert.Contains(t, text, "Notes:")
	assert.Contains(t, text, "Thanks for your business")
	assert.Contains(t, text, "Payment Instructions:")
	assert.Contains(t, text, "Account 12345678")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "0", FormatThousands(0))
	assert.Equal(t, "999", FormatThousands(999))
	assert.Equal(t, "1,000", FormatThousands(1000))
	assert.Equal(t, "1,234,567", FormatThousands(1234567))
	assert.Equal(t, "-12,345", FormatThousands(-12345))
	assert.Equal(t, "17.5%", FormatRate(d("17.50")))
	assert.Equal(t, "£0.50", FormatMoney("£", d("0.5")))
}
