package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/garagebook/internal/account/domain"
	"github.com/smallbiznis/garagebook/internal/accountcontext"
	"github.com/smallbiznis/garagebook/internal/clock"
	"github.com/smallbiznis/garagebook/internal/config"
	customerdomain "github.com/smallbiznis/garagebook/internal/customer/domain"
	"github.com/smallbiznis/garagebook/internal/invoice/calc"
	"github.com/smallbiznis/garagebook/internal/invoice/domain"
	"github.com/smallbiznis/garagebook/internal/invoice/format"
	jobitemdomain "github.com/smallbiznis/garagebook/internal/jobitem/domain"
	jobsheetdomain "github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	"github.com/smallbiznis/garagebook/internal/observability/logger"
	"github.com/smallbiznis/garagebook/internal/observability/metrics"
	"github.com/smallbiznis/garagebook/internal/providers/pdf"
	vehicledomain "github.com/smallbiznis/garagebook/internal/vehicle/domain"
	"github.com/smallbiznis/garagebook/pkg/db"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
	"github.com/smallbiznis/garagebook/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Invoicing    *config.InvoicingConfigHolder
	Metrics      *metrics.Metrics `optional:"true"`
	Renderer     pdf.Provider
	Repo         domain.Repository
	AccountSvc   accountdomain.Service
	AccountRepo  accountdomain.Repository
	JobSheetRepo jobsheetdomain.Repository
	JobItemRepo  jobitemdomain.Repository
	CustomerRepo customerdomain.Repository
	VehicleRepo  vehicledomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	invoicing *config.InvoicingConfigHolder
	metrics   *metrics.Metrics
	renderer  pdf.Provider

	repo         domain.Repository
	accountSvc   accountdomain.Service
	accountRepo  accountdomain.Repository
	jobSheetRepo jobsheetdomain.Repository
	jobItemRepo  jobitemdomain.Repository
	customerRepo customerdomain.Repository
	vehicleRepo  vehicledomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		invoicing: p.Invoicing,
		metrics:   p.Metrics,
		renderer:  p.Renderer,

		repo:         p.Repo,
		accountSvc:   p.AccountSvc,
		accountRepo:  p.AccountRepo,
		jobSheetRepo: p.JobSheetRepo,
		jobItemRepo:  p.JobItemRepo,
		customerRepo: p.CustomerRepo,
		vehicleRepo:  p.VehicleRepo,
	}
}

// Create issues the invoice for a job sheet. Totals come from the stored
// items. The insert and the sheet's move to Completed share a transaction,
// and the unique index on job_sheet_id rejects a concurrent second invoice.
func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.Invoice{}, domain.ErrInvalidAccount
	}

	sheetID, err := parseID(req.JobSheetID, domain.ErrInvalidJobSheet)
	if err != nil {
		return domain.Invoice{}, err
	}

	status := domain.StatusUnpaid
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status = domain.Status(raw)
		if !status.Valid() {
			return domain.Invoice{}, domain.ErrInvalidStatus
		}
	}

	account, err := s.accountSvc.Get(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}
	invoicing := s.invoicing.Get()

	invoiceDate := clock.Today(s.clock)
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}
	dueDate := invoiceDate.AddDate(0, 0, invoicing.DueDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}
	if dueDate.Before(invoiceDate) {
		return domain.Invoice{}, domain.ErrInvalidDueDate
	}

	notes := account.DefaultNotes
	if req.Notes != nil {
		notes = strings.TrimSpace(*req.Notes)
	}
	instructions := account.PaymentTerms
	if req.PaymentInstructions != nil {
		instructions = strings.TrimSpace(*req.PaymentInstructions)
	}

	var (
		invoice   domain.Invoice
		vatExempt bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sheet, err := s.jobSheetRepo.LockByID(ctx, tx, accountID, sheetID)
		if err != nil {
			return err
		}
		if sheet == nil {
			return domain.ErrJobSheetForbidden
		}

		existing, err := s.repo.FindByJobSheet(ctx, tx, accountID, sheetID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyInvoiced
		}

		items, err := s.jobItemRepo.ListByJobSheet(ctx, tx, sheetID)
		if err != nil {
			return err
		}
		totals := calc.InvoiceTotals(jobitemdomain.Lines(items), sheet.IsVATExempt)
		if !totals.Total.IsPositive() {
			return domain.ErrInvalidTotal
		}
		if !money.New(totals.Total).Fits() {
			return domain.ErrTotalTooLarge
		}

		now := s.clock.Now()
		number := ""
		if req.InvoiceNumber != nil {
			number = strings.TrimSpace(*req.InvoiceNumber)
		}
		if number == "" {
			seq, err := s.accountRepo.NextInvoiceSequence(ctx, tx, accountID, now)
			if err != nil {
				return err
			}
			number, err = format.FormatInvoiceNumber(invoicing.NumberTemplate, account.InvoicePrefix, invoiceDate, seq)
			if err != nil {
				return err
			}
		}

		invoice = domain.Invoice{
			ID:                  s.genID.Generate(),
			AccountID:           accountID,
			JobSheetID:          sheetID,
			InvoiceNumber:       number,
			InvoiceDate:         datatypes.Date(invoiceDate),
			DueDate:             datatypes.Date(dueDate),
			Subtotal:            money.New(totals.Subtotal),
			VATAmount:           money.New(totals.VATAmount),
			Total:               money.New(totals.Total),
			Status:              status,
			Notes:               notes,
			PaymentInstructions: instructions,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := s.repo.Insert(ctx, tx, &invoice); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyInvoiced
			}
			return err
		}

		vatExempt = sheet.IsVATExempt
		return s.jobSheetRepo.UpdateStatus(ctx, tx, sheetID, jobsheetdomain.StatusCompleted, now)
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.metrics.RecordInvoiceIssued(vatExempt, invoice.Total.InexactFloat64())
	logger.WithContext(ctx, s.log).Info("invoice issued",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("job_sheet_id", sheetID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
	)
	return invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.ListInvoiceResponse{}, domain.ErrInvalidAccount
	}

	filter := domain.ListInvoiceFilter{}
	if raw := strings.TrimSpace(req.JobSheetID); raw != "" {
		id, err := parseID(raw, domain.ErrInvalidJobSheet)
		if err != nil {
			return domain.ListInvoiceResponse{}, err
		}
		sheet, err := s.jobSheetRepo.FindByID(ctx, s.db, accountID, id)
		if err != nil {
			return domain.ListInvoiceResponse{}, err
		}
		if sheet == nil {
			return domain.ListInvoiceResponse{}, domain.ErrJobSheetForbidden
		}
		v := id.Int64()
		filter.JobSheetID = &v
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		filter.Status = domain.Status(raw)
		if !filter.Status.Valid() {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidStatus
		}
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	items, err := s.repo.List(ctx, s.db, accountID, filter, page)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, page.Limit(), func(invoice *domain.Invoice) string {
		return invoice.ID.String()
	})

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		invoices = append(invoices, *item)
	}
	return domain.ListInvoiceResponse{PageInfo: *pageInfo, Invoices: invoices}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.Invoice{}, domain.ErrInvalidAccount
	}

	invoiceID, err := parseID(id, domain.ErrInvalidID)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, accountID, invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *invoice, nil
}

// Update changes the status, notes and payment instructions. Totals, dates
// and the number are fixed once issued.
func (s *Service) Update(ctx context.Context, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	invoice, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	if req.Status != nil {
		status := domain.Status(strings.TrimSpace(*req.Status))
		if !status.Valid() {
			return domain.Invoice{}, domain.ErrInvalidStatus
		}
		invoice.Status = status
	}
	if req.Notes != nil {
		invoice.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.PaymentInstructions != nil {
		invoice.PaymentInstructions = strings.TrimSpace(*req.PaymentInstructions)
	}

	invoice.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, &invoice); err != nil {
		return domain.Invoice{}, err
	}
	return invoice, nil
}

func parseID(value string, invalid error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}
