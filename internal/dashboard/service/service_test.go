package service

import (
	"testing"

	"github.com/smallbiznis/garagebook/internal/dashboard/domain"
	jobsheetrepo "github.com/smallbiznis/garagebook/internal/jobsheet/repository"
	"github.com/smallbiznis/garagebook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStats(t *testing.T) {
	f := testutil.New(t)
	svc := NewService(Params{DB: f.DB, Log: zap.NewNop(), JobSheetRepo: jobsheetrepo.Provide()})
	ctx, accountID := testutil.Caller()
	_, other := testutil.Caller()

	customer := f.Customer(t, accountID, "Jane")
	vehicle := f.Vehicle(t, customer, "AB12 CDE")
	sheets := make([]int64, 0, 6)
	for i := 0; i < 6; i++ {
		sheets = append(sheets, f.JobSheet(t, vehicle, false).ID.Int64())
	}
	f.JobSheet(t, f.Vehicle(t, f.Customer(t, other, "Sam"), "XY34 ZZZ"), false)

	insert := `INSERT INTO invoices (id, account_id, job_sheet_id, invoice_number, invoice_date, due_date, subtotal, vat_amount, total, status, notes, payment_instructions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, '', '', ?, ?)`
	for i, inv := range []struct {
		total  string
		status string
	}{
		{"120.00", "Unpaid"},
		{"80.50", "Unpaid"},
		{"300.00", "Paid"},
	} {
		require.NoError(t, f.DB.Exec(insert,
			f.GenID.Generate(), accountID, sheets[i], "INV", testutil.Now, testutil.Now,
			inv.total, "0", inv.total, inv.status, testutil.Now, testutil.Now,
		).Error)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, stats.JobSheets)
	assert.EqualValues(t, 3, stats.Invoices)
	assert.EqualValues(t, 1, stats.Customers)
	assert.EqualValues(t, 1, stats.Vehicles)
	assert.EqualValues(t, 2, stats.UnpaidInvoices)
	assert.Equal(t, "200.50", stats.UnpaidTotal.String())
	assert.Len(t, stats.RecentJobSheets, domain.RecentJobSheetLimit)
}

func TestStatsEmptyAccount(t *testing.T) {
	f := testutil.New(t)
	svc := NewService(Params{DB: f.DB, Log: zap.NewNop(), JobSheetRepo: jobsheetrepo.Provide()})
	ctx, _ := testutil.Caller()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.JobSheets)
	assert.Equal(t, "0.00", stats.UnpaidTotal.String())
	assert.NotNil(t, stats.RecentJobSheets)
}
