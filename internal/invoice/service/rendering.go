package service

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/garagebook/internal/accountcontext"
	"github.com/smallbiznis/garagebook/internal/invoice/calc"
	"github.com/smallbiznis/garagebook/internal/invoice/domain"
	"github.com/smallbiznis/garagebook/internal/observability/logger"
	"github.com/smallbiznis/garagebook/internal/providers/pdf"
	"github.com/smallbiznis/garagebook/internal/report"
	"go.uber.org/zap"
)

const contentTypePDF = "application/pdf"

// RenderPDF fetches everything printed on the invoice and renders it.
func (s *Service) RenderPDF(ctx context.Context, id string) (domain.Document, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}

	doc, err := s.buildDocument(ctx, invoice)
	if err != nil {
		return domain.Document{}, err
	}

	rendered, err := s.renderer.RenderInvoice(ctx, doc)
	if err != nil {
		return domain.Document{}, fmt.Errorf("render invoice %s: %w", invoice.ID, err)
	}

	logger.WithContext(ctx, s.log).Debug("invoice rendered",
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int("pages", rendered.Pages),
	)
	return domain.Document{
		Filename:    rendered.Filename,
		ContentType: contentTypePDF,
		Content:     rendered.Content,
	}, nil
}

func (s *Service) buildDocument(ctx context.Context, invoice domain.Invoice) (pdf.InvoiceDocument, error) {
	account, err := s.accountRepo.FindByID(ctx, s.db, invoice.AccountID)
	if err != nil {
		return pdf.InvoiceDocument{}, err
	}
	sheet, err := s.jobSheetRepo.FindByID(ctx, s.db, invoice.AccountID, invoice.JobSheetID)
	if err != nil {
		return pdf.InvoiceDocument{}, err
	}
	if account == nil || sheet == nil {
		return pdf.InvoiceDocument{}, fmt.Errorf("invoice %s: account or job sheet missing", invoice.ID)
	}

	customer, err := s.customerRepo.FindByID(ctx, s.db, invoice.AccountID, sheet.CustomerID)
	if err != nil {
		return pdf.InvoiceDocument{}, err
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, s.db, invoice.AccountID, sheet.VehicleID)
	if err != nil {
		return pdf.InvoiceDocument{}, err
	}
	if customer == nil || vehicle == nil {
		return pdf.InvoiceDocument{}, fmt.Errorf("invoice %s: customer or vehicle missing", invoice.ID)
	}

	items, err := s.jobItemRepo.ListByJobSheet(ctx, s.db, sheet.ID)
	if err != nil {
		return pdf.InvoiceDocument{}, err
	}

	doc := pdf.InvoiceDocument{
		Garage: pdf.Garage{
			Name:      account.GarageName,
			Address:   account.Address,
			Phone:     account.Phone,
			VATNumber: account.VATNumber,
			LogoURL:   account.LogoURL,
		},
		Customer: pdf.Customer{
			Name:  customer.Name,
			Phone: customer.Phone,
			Email: customer.Email,
		},
		Vehicle: pdf.Vehicle{
			Registration: vehicle.Registration,
			Make:         vehicle.Make,
			Model:        vehicle.Model,
			Mileage:      vehicle.Mileage,
		},
		Number:              invoice.InvoiceNumber,
		Date:                time.Time(invoice.InvoiceDate),
		DueDate:             time.Time(invoice.DueDate),
		Status:              string(invoice.Status),
		VATExempt:           sheet.IsVATExempt,
		Subtotal:            invoice.Subtotal.Decimal,
		VATAmount:           invoice.VATAmount.Decimal,
		Total:               invoice.Total.Decimal,
		Notes:               invoice.Notes,
		PaymentInstructions: invoice.PaymentInstructions,
	}
	for _, item := range items {
		line := item.Line()
		doc.Items = append(doc.Items, pdf.Item{
			Type:        string(item.ItemType),
			Description: item.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			VATRate:     line.VATRate,
			Total:       calc.LineTotal(line, sheet.IsVATExempt),
		})
	}
	return doc, nil
}

// Export builds the account's invoice register spreadsheet.
func (s *Service) Export(ctx context.Context) (domain.Document, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.Document{}, domain.ErrInvalidAccount
	}

	entries, err := s.repo.Register(ctx, s.db, accountID)
	if err != nil {
		return domain.Document{}, err
	}

	rows := make([]report.RegisterRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, report.RegisterRow{
			Number:      e.InvoiceNumber,
			InvoiceDate: time.Time(e.InvoiceDate),
			DueDate:     time.Time(e.DueDate),
			Customer:    e.CustomerName,
			Vehicle:     e.Registration,
			Status:      string(e.Status),
			Subtotal:    e.Subtotal.Decimal,
			VAT:         e.VATAmount.Decimal,
			Total:       e.Total.Decimal,
		})
	}

	content, err := report.InvoiceRegister(rows)
	if err != nil {
		return domain.Document{}, err
	}
	s.metrics.RecordExport()

	garageName := ""
	account, err := s.accountRepo.FindByID(ctx, s.db, accountID)
	if err != nil {
		return domain.Document{}, err
	}
	if account != nil {
		garageName = account.GarageName
	}

	return domain.Document{
		Filename:    report.RegisterFilename(garageName, s.clock.Now()),
		ContentType: report.ContentTypeXLSX,
		Content:     content,
	}, nil
}
