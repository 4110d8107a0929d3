// Package report builds spreadsheet exports.
package report

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	RegisterSheet   = "Invoices"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout      = "2006-01-02"
	// excelize built-in number format 2 is "0.00".
	numFmtTwoDecimals = 2
)

var registerHeader = []any{
	"Invoice Number", "Invoice Date", "Due Date", "Customer", "Vehicle",
	"Status", "Subtotal", "VAT", "Total",
}

// RegisterRow is one invoice in the register.
type RegisterRow struct {
	Number      string
	InvoiceDate time.Time
	DueDate     time.Time
	Customer    string
	Vehicle     string
	Status      string
	Subtotal    decimal.Decimal
	VAT         decimal.Decimal
	Total       decimal.Decimal
}

// RegisterFilename names the export after the garage when it has a name,
// e.g. Invoices_main-street-motors_20240102.xlsx.
func RegisterFilename(garageName string, now time.Time) string {
	if s := slug.Make(garageName); s != "" {
		return "Invoices_" + s + "_" + now.Format("20060102") + ".xlsx"
	}
	return "Invoices_" + now.Format("20060102") + ".xlsx"
}

// InvoiceRegister writes rows to a single-sheet workbook followed by a totals
// row. Amounts are summed as decimals and converted only when written.
func InvoiceRegister(rows []RegisterRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RegisterSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return nil, err
	}
	boldAmount, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: numFmtTwoDecimals})
	if err != nil {
		return nil, err
	}

	if err := setRow(f, 1, registerHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(RegisterSheet, "A1", "I1", bold); err != nil {
		return nil, err
	}

	subtotal, vat, total := decimal.Zero, decimal.Zero, decimal.Zero
	for i, r := range rows {
		line := i + 2
		err := setRow(f, line, []any{
			r.Number,
			r.InvoiceDate.Format(dateLayout),
			r.DueDate.Format(dateLayout),
			r.Customer,
			r.Vehicle,
			r.Status,
			r.Subtotal.InexactFloat64(),
			r.VAT.InexactFloat64(),
			r.Total.InexactFloat64(),
		})
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(r.Subtotal)
		vat = vat.Add(r.VAT)
		total = total.Add(r.Total)
	}

	totalsLine := len(rows) + 2
	if err := setRow(f, totalsLine, []any{
		"Total", "", "", "", "", "",
		subtotal.InexactFloat64(),
		vat.InexactFloat64(),
		total.InexactFloat64(),
	}); err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		if err := f.SetCellStyle(RegisterSheet, "G2", fmt.Sprintf("I%d", totalsLine-1), amount); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(RegisterSheet, fmt.Sprintf("A%d", totalsLine), fmt.Sprintf("I%d", totalsLine), boldAmount); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(RegisterSheet, "A", "F", 16); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(RegisterSheet, "D", "D", 28); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write register: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, line int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	return f.SetSheetRow(RegisterSheet, cell, &values)
}
