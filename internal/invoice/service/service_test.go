package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	accountdomain "github.com/smallbiznis/garagebook/internal/account/domain"
	accountrepo "github.com/smallbiznis/garagebook/internal/account/repository"
	accountservice "github.com/smallbiznis/garagebook/internal/account/service"
	"github.com/smallbiznis/garagebook/internal/clock"
	"github.com/smallbiznis/garagebook/internal/config"
	customerrepo "github.com/smallbiznis/garagebook/internal/customer/repository"
	"github.com/smallbiznis/garagebook/internal/invoice/domain"
	"github.com/smallbiznis/garagebook/internal/invoice/repository"
	jobitemrepo "github.com/smallbiznis/garagebook/internal/jobitem/repository"
	jobsheetdomain "github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	jobsheetrepo "github.com/smallbiznis/garagebook/internal/jobsheet/repository"
	"github.com/smallbiznis/garagebook/internal/providers/pdf"
	"github.com/smallbiznis/garagebook/internal/report"
	"github.com/smallbiznis/garagebook/internal/testutil"
	vehiclerepo "github.com/smallbiznis/garagebook/internal/vehicle/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) RenderInvoice(ctx context.Context, doc pdf.InvoiceDocument) (pdf.Rendered, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(pdf.Rendered), args.Error(1)
}

type harness struct {
	*testutil.Fixture
	svc      domain.Service
	renderer *mockRenderer
	clock    *clock.FakeClock
}

func newHarness(t *testing.T, repo domain.Repository) *harness {
	t.Helper()
	f := testutil.New(t)
	clk := clock.NewFakeClock(testutil.Now)
	if repo == nil {
		repo = repository.Provide()
	}

	accounts := accountrepo.Provide()
	renderer := &mockRenderer{}
	svc := New(Params{
		DB:        f.DB,
		Log:       zap.NewNop(),
		GenID:     f.GenID,
		Clock:     clk,
		Invoicing: config.NewStaticInvoicingConfig(config.DefaultInvoicingConfig()),
		Renderer:  renderer,
		Repo:      repo,
		AccountSvc: accountservice.New(accountservice.Params{
			DB:    f.DB,
			Log:   zap.NewNop(),
			Clock: clk,
			Repo:  accounts,
		}),
		AccountRepo:  accounts,
		JobSheetRepo: jobsheetrepo.Provide(),
		JobItemRepo:  jobitemrepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
		VehicleRepo:  vehiclerepo.Provide(),
	})
	return &harness{Fixture: f, svc: svc, renderer: renderer, clock: clk}
}

func (h *harness) sheet(t *testing.T, accountID uuid.UUID, exempt bool) jobsheetdomain.JobSheet {
	t.Helper()
	sheet := h.JobSheet(t, h.Vehicle(t, h.Customer(t, accountID, "Jane Driver"), "AB12 CDE"), exempt)
	h.JobItem(t, sheet, "2", "100.00", "20.00")
	return sheet
}

func sheetStatus(t *testing.T, db *gorm.DB, id snowflake.ID) string {
	t.Helper()
	var status string
	require.NoError(t, db.Raw(`SELECT status FROM job_sheets WHERE id = ?`, id).Scan(&status).Error)
	return status
}

func TestCreateInvoiceComputesTotalsAndDefaults(t *testing.T) {
	h := newHarness(t, nil)
	ctx, accountID := testutil.Caller()
	sheet := h.sheet(t, accountID, false)

	invoice, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: sheet.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, "INV-001", invoice.InvoiceNumber)
	assert.Equal(t, "200.00", invoice.Subtotal.String())
	assert.Equal(t, "40.00", invoice.VATAmount.String())
	assert.Equal(t, "240.00", invoice.Total.String())
	assert.Equal(t, domain.StatusUnpaid, invoice.Status)
	assert.Equal(t, "2024-01-02", time.Time(invoice.InvoiceDate).Format("2006-01-02"))
	assert.Equal(t, "2024-01-16", time.Time(invoice.DueDate).Format("2006-01-02"))
	assert.Equal(t, accountdomain.DefaultPaymentTerms, invoice.PaymentInstructions)
	assert.Equal(t, "Completed", sheetStatus(t, h.DB, sheet.ID))
}

func TestCreateInvoiceStampsRowsWithServiceClock(t *testing.T) {
	h := newHarness(t, nil)
	ctx, accountID := testutil.Caller()
	sheet := h.sheet(t, accountID, false)

	h.clock.Advance(36 * time.Hour)
	want := h.clock.Now()

	_, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: sheet.ID.String()})
	require.NoError(t, err)

	var stamps struct {
		Sheet   time.Time
		Account time.Time
	}
	require.NoError(t, h.DB.Raw(`SELECT updated_at FROM job_sheets WHERE id = ?`, sheet.ID).Scan(&stamps.Sheet).Error)
	require.NoError(t, h.DB.Raw(`SELECT updated_at FROM accounts WHERE id = ?`, accountID).Scan(&stamps.Account).Error)
	assert.True(t, want.Equal(stamps.Sheet), "job sheet updated_at = %s", stamps.Sheet)
	assert.True(t, want.Equal(stamps.Account), "account updated_at = %s", stamps.Account)
}

func TestCreateInvoiceExemptSheet(t *testing.T) {
	h := newHarness(t, nil)
	ctx, accountID := testutil.Caller()
	sheet := h.sheet(t, accountID, true)

	invoice, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: sheet.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "200.00", invoice.Subtotal.String())
	assert.Equal(t, "0.00", invoice.VATAmount.String())
	assert.Equal(t, "200.00", invoice.Total.String())
}

func TestCreateInvoiceTwiceIsRejected(t *testing.T) {
	h := newHarness(t, nil)
	ctx, accountID := testutil.Caller()
	sheet := h.sheet(t, accountID, false)

	first, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: sheet.ID.String()})
	require.NoError(t, err)

	_, err = h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: sheet.ID.String()})
	assert.ErrorIs(t, err, domain.ErrAlreadyInvoiced)

	assert.EqualValues(t, 1, h.Count(t, "invoices", "job_sheet_id = ?", sheet.ID))
	got, err := h.svc.GetByID(ctx, first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, first.InvoiceNumber, got.InvoiceNumber)
}

// staleRepo never sees an existing invoice, like a request that lost the race.
type staleRepo struct {
	domain.Repository
}

func (staleRepo) FindByJobSheet(context.Context, *gorm.DB, uuid.UUID, snowflake.ID) (*domain.Invoice, error) {
	return nil, nil
}

func TestConcurrentDuplicateHitsUniqueIndex(t *testing.T) {
	h := newHarness(t, staleRepo{Repository: repository.Provide()})
	ctx, accountID := testutil.Caller()
	sheet := h.sheet(t, accountID, false)

	_, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: sheet.ID.String()})
	require.NoError(t, err)
	require.NoError(t, h.DB.Exec(`UPDATE job_sheets SET status = 'In Progress' WHERE id = ?`, sheet.ID).Error)

	_, err = h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: sheet.ID.String()})
	assert.ErrorIs(t, err, domain.ErrAlreadyInvoiced)
	assert.EqualValues(t, 1, h.Count(t, "invoices", "job_sheet_id = ?", sheet.ID))
	assert.Equal(t, "In Progress", sheetStatus(t, h.DB, sheet.ID), "rolled back with the insert")
}

func TestCreateInvoiceRules(t *testing.T) {
	h := newHarness(t, nil)
	ctx, accountID := testutil.Caller()
	_, other := testutil.Caller()

	empty := h.JobSheet(t, h.Vehicle(t, h.Customer(t, accountID, "Sam"), "XY34 ZZZ"), false)
	_, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: empty.ID.String()})
	assert.ErrorIs(t, err, domain.ErrInvalidTotal)

	foreign := h.sheet(t, other, false)
	_, err = h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: foreign.ID.String()})
	assert.ErrorIs(t, err, domain.ErrJobSheetForbidden)

	sheet := h.sheet(t, accountID, false)
	invoiceDate := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	dueDate := invoiceDate.AddDate(0, 0, -1)
	_, err = h.svc.Create(ctx, domain.CreateInvoiceRequest{
		JobSheetID:  sheet.ID.String(),
		InvoiceDate: &invoiceDate,
		DueDate:     &dueDate,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDueDate)

	_, err = h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: sheet.ID.String(), Status: "Overdue"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestCreateInvoiceRejectsTotalBeyondColumn(t *testing.T) {
	h := newHarness(t, nil)
	ctx, accountID := testutil.Caller()

	sheet := h.JobSheet(t, h.Vehicle(t, h.Customer(t, accountID, "Fleet Ltd"), "FL33 EET"), false)
	h.JobItem(t, sheet, "2", "99999999.99", "20.00")

	_, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: sheet.ID.String()})
	assert.ErrorIs(t, err, domain.ErrTotalTooLarge)
	assert.Zero(t, h.Count(t, "invoices", "job_sheet_id = ?", sheet.ID))
	assert.Equal(t, string(jobsheetdomain.StatusInProgress), sheetStatus(t, h.DB, sheet.ID))
}

func TestInvoiceNumbersFollowAccountSequence(t *testing.T) {
	h := newHarness(t, nil)
	ctx, accountID := testutil.Caller()

	first, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: h.sheet(t, accountID, false).ID.String()})
	require.NoError(t, err)
	custom := "  JOB-77 "
	second, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{
		JobSheetID:    h.sheet(t, accountID, false).ID.String(),
		InvoiceNumber: &custom,
	})
	require.NoError(t, err)
	third, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: h.sheet(t, accountID, false).ID.String()})
	require.NoError(t, err)

	assert.Equal(t, "INV-001", first.InvoiceNumber)
	assert.Equal(t, "JOB-77", second.InvoiceNumber)
	assert.Equal(t, "INV-002", third.InvoiceNumber)
}

func TestUpdateInvoice(t *testing.T) {
	h := newHarness(t, nil)
	ctx, accountID := testutil.Caller()
	invoice, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: h.sheet(t, accountID, false).ID.String()})
	require.NoError(t, err)

	paid := "Paid"
	notes := "Thanks"
	updated, err := h.svc.Update(ctx, domain.UpdateInvoiceRequest{ID: invoice.ID.String(), Status: &paid, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)
	assert.Equal(t, "Thanks", updated.Notes)
	assert.Equal(t, "240.00", updated.Total.String())

	bad := "Refunded"
	_, err = h.svc.Update(ctx, domain.UpdateInvoiceRequest{ID: invoice.ID.String(), Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	otherCtx, _ := testutil.Caller()
	_, err = h.svc.Update(otherCtx, domain.UpdateInvoiceRequest{ID: invoice.ID.String(), Status: &paid})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListInvoicesByJobSheet(t *testing.T) {
	h := newHarness(t, nil)
	ctx, accountID := testutil.Caller()
	sheet := h.sheet(t, accountID, false)
	_, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: sheet.ID.String()})
	require.NoError(t, err)
	_, err = h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: h.sheet(t, accountID, false).ID.String()})
	require.NoError(t, err)

	all, err := h.svc.List(ctx, domain.ListInvoiceRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Invoices, 2)

	one, err := h.svc.List(ctx, domain.ListInvoiceRequest{JobSheetID: sheet.ID.String()})
	require.NoError(t, err)
	require.Len(t, one.Invoices, 1)
	assert.Equal(t, sheet.ID, one.Invoices[0].JobSheetID)

	_, other := testutil.Caller()
	foreign := h.sheet(t, other, false)
	_, err = h.svc.List(ctx, domain.ListInvoiceRequest{JobSheetID: foreign.ID.String()})
	assert.ErrorIs(t, err, domain.ErrJobSheetForbidden)
}

func TestRenderPDFBuildsDocument(t *testing.T) {
	h := newHarness(t, nil)
	ctx, accountID := testutil.Caller()
	invoice, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: h.sheet(t, accountID, false).ID.String()})
	require.NoError(t, err)

	h.renderer.On("RenderInvoice", mock.Anything, mock.MatchedBy(func(doc pdf.InvoiceDocument) bool {
		return doc.Number == "INV-001" &&
			doc.Customer.Name == "Jane Driver" &&
			doc.Vehicle.Registration == "AB12 CDE" &&
			len(doc.Items) == 1 &&
			doc.Items[0].Total.StringFixed(2) == "240.00" &&
			doc.Total.StringFixed(2) == "240.00"
	})).Return(pdf.Rendered{Filename: "Invoice_INV-001.pdf", Content: []byte("%PDF-1.3"), Pages: 1}, nil)

	out, err := h.svc.RenderPDF(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Invoice_INV-001.pdf", out.Filename)
	assert.Equal(t, "application/pdf", out.ContentType)
	h.renderer.AssertExpectations(t)
}

func TestExportRegister(t *testing.T) {
	h := newHarness(t, nil)
	ctx, accountID := testutil.Caller()
	for i := 0; i < 2; i++ {
		_, err := h.svc.Create(ctx, domain.CreateInvoiceRequest{JobSheetID: h.sheet(t, accountID, false).ID.String()})
		require.NoError(t, err)
	}

	out, err := h.svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.ContentTypeXLSX, out.ContentType)
	assert.Equal(t, "Invoices_20240102.xlsx", out.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(out.Content))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(report.RegisterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "INV-001", rows[1][0])
	assert.Equal(t, "Jane Driver", rows[1][3])
	assert.Equal(t, "Total", rows[3][0])
}
