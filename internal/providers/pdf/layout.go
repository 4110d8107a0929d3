package pdf

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Page geometry in millimetres. A4 portrait.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	Margin     = 15.0

	TableReserve        = 50.0
	NotesReserve        = 30.0
	InstructionsReserve = 20.0

	LineHeight  = 5.0
	ItemSpacing = 2.0

	GridSize = 36
)

// Table column spans on the grid: 25/80/15/25/15/20 mm of the 180 mm body.
var tableSpans = [6]int{5, 16, 3, 5, 3, 4}

type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

type Cell struct {
	Span  int
	Text  string
	Size  float64
	Bold  bool
	Align Align
	Image *Image
}

type Row struct {
	Height float64
	Cells  []Cell
	Shaded bool
}

type Page struct {
	Rows []Row
}

func (p Page) Height() float64 {
	var h float64
	for _, r := range p.Rows {
		h += r.Height
	}
	return h
}

type Layout struct {
	Pages []Page
}

// Options tune the textual parts of the layout.
type Options struct {
	CurrencySymbol string
	WrapWidth      int
}

func (o Options) withDefaults() Options {
	if o.CurrencySymbol == "" {
		o.CurrencySymbol = "£"
	}
	if o.WrapWidth <= 0 {
		o.WrapWidth = 40
	}
	return o
}

// cursor tracks the vertical position on the current page.
type cursor struct {
	pages []Page
	y     float64
}

func newCursor() *cursor {
	return &cursor{pages: []Page{{}}, y: Margin}
}

// emit starts a new page first when row would cross limit. A row never
// opens a page break on an empty page.
func (c *cursor) emit(row Row, limit float64) {
	current := &c.pages[len(c.pages)-1]
	if c.y+row.Height > limit && len(current.Rows) > 0 {
		c.pages = append(c.pages, Page{})
		c.y = Margin
		current = &c.pages[len(c.pages)-1]
	}
	current.Rows = append(current.Rows, row)
	c.y += row.Height
}

// gap adds vertical space. Space that does not fit is dropped so a page
// never starts or ends with nothing but padding.
func (c *cursor) gap(height, limit float64) {
	if c.y+height > limit {
		return
	}
	c.emit(Row{Height: height}, limit)
}

// BuildLayout lays out doc into pages. logo may be nil.
func BuildLayout(doc InvoiceDocument, logo *Image, opts Options) Layout {
	opts = opts.withDefaults()
	c := newCursor()
	tableLimit := PageHeight - TableReserve

	layoutHeader(c, doc.Garage, logo, tableLimit)
	layoutMeta(c, doc, tableLimit)
	layoutParties(c, doc, tableLimit)
	layoutTable(c, doc, opts, tableLimit)
	layoutTotals(c, doc, opts, tableLimit)
	layoutFreeText(c, "Notes:", doc.Notes, opts.WrapWidth*2, PageHeight-NotesReserve)
	layoutFreeText(c, "Payment Instructions:", doc.PaymentInstructions, opts.WrapWidth*2, PageHeight-InstructionsReserve)

	return Layout{Pages: c.pages}
}

func textRow(height float64, text string, size float64, bold bool) Row {
	return Row{Height: height, Cells: []Cell{{Span: GridSize, Text: text, Size: size, Bold: bold}}}
}

func layoutHeader(c *cursor, g Garage, logo *Image, limit float64) {
	if logo != nil {
		c.emit(Row{Height: 25, Cells: []Cell{{Span: 10, Image: logo}}}, limit)
	} else {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			name = "Your Garage"
		}
		c.emit(textRow(7, name, 16, true), limit)
	}

	if g.Address != "" {
		c.emit(textRow(LineHeight, g.Address, 10, false), limit)
	}
	if g.Phone != "" {
		c.emit(textRow(LineHeight, "Phone: "+g.Phone, 10, false), limit)
	}
	if g.VATNumber != "" {
		c.emit(textRow(LineHeight, "VAT: "+g.VATNumber, 10, false), limit)
	}
	c.gap(5, limit)
}

func layoutMeta(c *cursor, doc InvoiceDocument, limit float64) {
	c.emit(textRow(7, "INVOICE #"+doc.Number, 14, true), limit)
	c.emit(textRow(LineHeight, "Date: "+doc.Date.Format("02/01/2006"), 10, false), limit)
	c.emit(textRow(LineHeight, "Due Date: "+doc.DueDate.Format("02/01/2006"), 10, false), limit)
	c.emit(textRow(LineHeight, "Status: "+doc.Status, 10, false), limit)
	c.gap(5, limit)
}

func layoutParties(c *cursor, doc InvoiceDocument, limit float64) {
	c.emit(textRow(6, "BILL TO:", 12, true), limit)
	c.emit(textRow(LineHeight, doc.Customer.Name, 10, false), limit)
	c.emit(textRow(LineHeight, "Phone: "+doc.Customer.Phone, 10, false), limit)
	if doc.Customer.Email != "" {
		c.emit(textRow(LineHeight, "Email: "+doc.Customer.Email, 10, false), limit)
	}
	c.gap(5, limit)

	v := doc.Vehicle
	c.emit(textRow(6, "VEHICLE:", 12, true), limit)
	c.emit(textRow(LineHeight, "Registration: "+v.Registration, 10, false), limit)
	c.emit(textRow(LineHeight, strings.TrimSpace("Make/Model: "+v.Make+" "+v.Model), 10, false), limit)
	c.emit(textRow(LineHeight, "Mileage: "+FormatThousands(v.Mileage)+" miles", 10, false), limit)
	c.gap(10, limit)
}

func tableRow(height float64, shaded, bold bool, values ...string) Row {
	row := Row{Height: height, Shaded: shaded}
	for i, span := range tableSpans {
		cell := Cell{Span: span, Size: 10, Bold: bold}
		if i < len(values) {
			cell.Text = values[i]
		}
		if i >= 2 {
			cell.Align = AlignRight
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}

func layoutTable(c *cursor, doc InvoiceDocument, opts Options, limit float64) {
	c.emit(tableRow(7, true, true, "Type", "Description", "Qty", "Unit Price", "VAT", "Total"), limit)

	for _, item := range doc.Items {
		lines := Wrap(item.Description, opts.WrapWidth)
		vat := FormatRate(item.VATRate)
		if doc.VATExempt {
			vat = "Exempt"
		}

		c.emit(tableRow(LineHeight, false, false,
			item.Type,
			lines[0],
			item.Quantity.StringFixed(2),
			FormatMoney(opts.CurrencySymbol, item.UnitPrice),
			vat,
			FormatMoney(opts.CurrencySymbol, item.Total),
		), limit)
		for _, line := range lines[1:] {
			c.emit(tableRow(LineHeight, false, false, "", line), limit)
		}
		c.gap(ItemSpacing, limit)
	}
}

func totalsRow(height float64, label, value string, size float64, shaded bool) Row {
	return Row{
		Height: height,
		Shaded: shaded,
		Cells: []Cell{
			{Span: 24},
			{Span: 7, Text: label, Size: size, Bold: true},
			{Span: 5, Text: value, Size: size, Bold: shaded, Align: AlignRight},
		},
	}
}

func layoutTotals(c *cursor, doc InvoiceDocument, opts Options, limit float64) {
	c.gap(10, limit)
	c.emit(totalsRow(7, "Subtotal:", FormatMoney(opts.CurrencySymbol, doc.Subtotal), 10, false), limit)

	label := "VAT:"
	if doc.VATExempt {
		label = "VAT (Exempt):"
	}
	c.emit(totalsRow(7, label, FormatMoney(opts.CurrencySymbol, doc.VATAmount), 10, false), limit)
	c.emit(totalsRow(7, "TOTAL:", FormatMoney(opts.CurrencySymbol, doc.Total), 11, true), limit)
	c.gap(5, limit)
}

func layoutFreeText(c *cursor, heading, body string, width int, limit float64) {
	if strings.TrimSpace(body) == "" {
		return
	}
	c.emit(textRow(6, heading, 11, true), limit)
	for _, line := range WrapText(body, width) {
		c.emit(textRow(LineHeight, line, 10, false), limit)
	}
	c.gap(5, limit)
}

func FormatMoney(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}

// FormatRate renders a VAT percentage without trailing zeros, e.g. "20%".
func FormatRate(rate decimal.Decimal) string {
	return rate.String() + "%"
}

// FormatThousands renders n with comma separators, e.g. 45,210.
func FormatThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
