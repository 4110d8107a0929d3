package service

import (
	"testing"
	"time"

	"github.com/smallbiznis/garagebook/internal/clock"
	customerrepo "github.com/smallbiznis/garagebook/internal/customer/repository"
	"github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	"github.com/smallbiznis/garagebook/internal/jobsheet/repository"
	"github.com/smallbiznis/garagebook/internal/testutil"
	vehiclerepo "github.com/smallbiznis/garagebook/internal/vehicle/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *testutil.Fixture) {
	t.Helper()
	f := testutil.New(t)
	return New(Params{
		DB:           f.DB,
		Log:          zap.NewNop(),
		GenID:        f.GenID,
		Clock:        clock.NewFakeClock(testutil.Now),
		Repo:         repository.Provide(),
		CustomerRepo: customerrepo.Provide(),
		VehicleRepo:  vehiclerepo.Provide(),
	}), f
}

func day(d int) *time.Time {
	t := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateJobSheetDefaults(t *testing.T) {
	svc, f := newTestService(t)
	ctx, accountID := testutil.Caller()
	customer := f.Customer(t, accountID, "Jane")
	vehicle := f.Vehicle(t, customer, "AB12 CDE")

	sheet, err := svc.Create(ctx, domain.CreateJobSheetRequest{
		CustomerID:       customer.ID.String(),
		VehicleID:        vehicle.ID.String(),
		DateIn:           day(2),
		ReportedProblems: " Squeaky brakes ",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, sheet.Status)
	assert.False(t, sheet.IsVATExempt)
	assert.Equal(t, "Squeaky brakes", sheet.ReportedProblems)
	assert.Nil(t, sheet.DateOut)
}

func TestCreateJobSheetRejectsVehicleOfAnotherCustomer(t *testing.T) {
	svc, f := newTestService(t)
	ctx, accountID := testutil.Caller()
	jane := f.Customer(t, accountID, "Jane")
	sam := f.Customer(t, accountID, "Sam")
	samsCar := f.Vehicle(t, sam, "XY34 ZZZ")

	_, err := svc.Create(ctx, domain.CreateJobSheetRequest{
		CustomerID: jane.ID.String(),
		VehicleID:  samsCar.ID.String(),
		DateIn:     day(2),
	})
	assert.ErrorIs(t, err, domain.ErrVehicleForbidden)
}

func TestCreateJobSheetRejectsForeignCustomer(t *testing.T) {
	svc, f := newTestService(t)
	ctx, _ := testutil.Caller()
	_, other := testutil.Caller()
	customer := f.Customer(t, other, "Jane")
	vehicle := f.Vehicle(t, customer, "AB12 CDE")

	_, err := svc.Create(ctx, domain.CreateJobSheetRequest{
		CustomerID: customer.ID.String(),
		VehicleID:  vehicle.ID.String(),
		DateIn:     day(2),
	})
	assert.ErrorIs(t, err, domain.ErrCustomerForbidden)
}

func TestCreateJobSheetValidation(t *testing.T) {
	svc, f := newTestService(t)
	ctx, accountID := testutil.Caller()
	customer := f.Customer(t, accountID, "Jane")
	vehicle := f.Vehicle(t, customer, "AB12 CDE")

	base := domain.CreateJobSheetRequest{
		CustomerID: customer.ID.String(),
		VehicleID:  vehicle.ID.String(),
		DateIn:     day(5),
	}

	req := base
	req.DateIn = nil
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDateIn)

	req = base
	req.DateOut = day(4)
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDateOut)

	req = base
	req.Status = "Finished"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateJobSheet(t *testing.T) {
	svc, f := newTestService(t)
	ctx, accountID := testutil.Caller()
	vehicle := f.Vehicle(t, f.Customer(t, accountID, "Jane"), "AB12 CDE")
	sheet := f.JobSheet(t, vehicle, false)

	updated, err := svc.Update(ctx, domain.UpdateJobSheetRequest{
		ID:          sheet.ID.String(),
		DateOut:     day(3),
		Diagnosis:   strPtr("Worn pads"),
		Status:      strPtr("Completed"),
		IsVATExempt: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, "Worn pads", updated.Diagnosis)
	assert.True(t, updated.IsVATExempt)
	require.NotNil(t, updated.DateOut)

	cleared, err := svc.Update(ctx, domain.UpdateJobSheetRequest{ID: sheet.ID.String(), ClearDateOut: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.DateOut)

	_, err = svc.Update(ctx, domain.UpdateJobSheetRequest{ID: sheet.ID.String(), Status: strPtr("Done")})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.Update(ctx, domain.UpdateJobSheetRequest{ID: sheet.ID.String(), DateOut: day(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidDateOut)
}

func TestVATExemptLockedOnceInvoiced(t *testing.T) {
	svc, f := newTestService(t)
	ctx, accountID := testutil.Caller()
	vehicle := f.Vehicle(t, f.Customer(t, accountID, "Jane"), "AB12 CDE")
	sheet := f.JobSheet(t, vehicle, false)

	require.NoError(t, f.DB.Exec(
		`INSERT INTO invoices (id, account_id, job_sheet_id, invoice_number, invoice_date, due_date, subtotal, vat_amount, total, status, notes, payment_instructions, created_at, updated_at)
		 VALUES (?, ?, ?, 'INV-001', ?, ?, 100, 20, 120, 'Unpaid', '', '', ?, ?)`,
		f.GenID.Generate(), accountID, sheet.ID, testutil.Now, testutil.Now, testutil.Now, testutil.Now,
	).Error)

	_, err := svc.Update(ctx, domain.UpdateJobSheetRequest{ID: sheet.ID.String(), IsVATExempt: boolPtr(true)})
	assert.ErrorIs(t, err, domain.ErrVATExemptLocked)

	_, err = svc.Update(ctx, domain.UpdateJobSheetRequest{ID: sheet.ID.String(), IsVATExempt: boolPtr(false)})
	assert.NoError(t, err)
}

func TestDeleteJobSheetCascadesToInvoice(t *testing.T) {
	svc, f := newTestService(t)
	ctx, accountID := testutil.Caller()
	vehicle := f.Vehicle(t, f.Customer(t, accountID, "Jane"), "AB12 CDE")
	sheet := f.JobSheet(t, vehicle, false)
	f.JobItem(t, sheet, "2", "100.00", "20.00")
	require.NoError(t, f.DB.Exec(
		`INSERT INTO invoices (id, account_id, job_sheet_id, invoice_number, invoice_date, due_date, subtotal, vat_amount, total, status, notes, payment_instructions, created_at, updated_at)
		 VALUES (?, ?, ?, 'INV-001', ?, ?, 200, 40, 240, 'Unpaid', '', '', ?, ?)`,
		f.GenID.Generate(), accountID, sheet.ID, testutil.Now, testutil.Now, testutil.Now, testutil.Now,
	).Error)
	require.NoError(t, f.DB.Exec(
		`INSERT INTO attachments (id, job_sheet_id, file_name, file_url, file_type, created_at) VALUES (?, ?, 'a.jpg', 'https://x/a.jpg', 'image/jpeg', ?)`,
		f.GenID.Generate(), sheet.ID, testutil.Now,
	).Error)

	require.NoError(t, svc.Delete(ctx, sheet.ID.String()))

	assert.Zero(t, f.Count(t, "job_sheets", "id = ?", sheet.ID))
	assert.Zero(t, f.Count(t, "job_items", "job_sheet_id = ?", sheet.ID))
	assert.Zero(t, f.Count(t, "invoices", "job_sheet_id = ?", sheet.ID))
	assert.Zero(t, f.Count(t, "attachments", "job_sheet_id = ?", sheet.ID))
}

func TestListJobSheetsFilters(t *testing.T) {
	svc, f := newTestService(t)
	ctx, accountID := testutil.Caller()
	jane := f.Customer(t, accountID, "Jane")
	sam := f.Customer(t, accountID, "Sam")
	f.JobSheet(t, f.Vehicle(t, jane, "AA11 AAA"), false)
	f.JobSheet(t, f.Vehicle(t, sam, "BB22 BBB"), false)

	all, err := svc.List(ctx, domain.ListJobSheetRequest{})
	require.NoError(t, err)
	assert.Len(t, all.JobSheets, 2)

	janes, err := svc.List(ctx, domain.ListJobSheetRequest{CustomerID: jane.ID.String()})
	require.NoError(t, err)
	require.Len(t, janes.JobSheets, 1)
	assert.Equal(t, jane.ID, janes.JobSheets[0].CustomerID)

	drafts, err := svc.List(ctx, domain.ListJobSheetRequest{Status: "Draft"})
	require.NoError(t, err)
	assert.Empty(t, drafts.JobSheets)

	_, err = svc.List(ctx, domain.ListJobSheetRequest{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGetJobSheetOfAnotherAccount(t *testing.T) {
	svc, f := newTestService(t)
	ctx, _ := testutil.Caller()
	_, other := testutil.Caller()
	sheet := f.JobSheet(t, f.Vehicle(t, f.Customer(t, other, "Jane"), "AB12 CDE"), false)

	_, err := svc.GetByID(ctx, sheet.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, sheet.ID.String()), domain.ErrNotFound)
}
