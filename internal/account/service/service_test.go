package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/garagebook/internal/account/domain"
	"github.com/smallbiznis/garagebook/internal/account/repository"
	"github.com/smallbiznis/garagebook/internal/accountcontext"
	"github.com/smallbiznis/garagebook/internal/clock"
	"github.com/smallbiznis/garagebook/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, domain.Repository) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Account{}))

	repo := repository.Provide()
	svc := New(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)),
		Repo:  repo,
	})
	return svc, repo
}

func callerContext() context.Context {
	return accountcontext.WithIdentity(context.Background(), accountcontext.Identity{
		AccountID: uuid.New(),
		Email:     "owner@garage.test",
	})
}

func strPtr(s string) *string { return &s }

func TestGetCreatesAccountOnFirstAccess(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := callerContext()

	first, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "owner@garage.test", first.Email)
	assert.Equal(t, "INV-", first.InvoicePrefix)
	assert.Equal(t, "60.00", first.HourlyRate.String())
	assert.Equal(t, "Due within 14 days", first.PaymentTerms)

	second, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetWithoutIdentity(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidAccount)
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := callerContext()

	rate := decimal.RequireFromString("75.5")
	account, created, err := svc.Upsert(ctx, domain.UpdateSettingsRequest{
		GarageName: strPtr("  Ace Motors "),
		HourlyRate: &rate,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Ace Motors", account.GarageName)
	assert.Equal(t, "75.50", account.HourlyRate.String())

	account, created, err = svc.Upsert(ctx, domain.UpdateSettingsRequest{
		Phone:         strPtr("01234 567890"),
		InvoicePrefix: strPtr(""),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Ace Motors", account.GarageName)
	assert.Equal(t, "01234 567890", account.Phone)
	assert.Equal(t, "INV-", account.InvoicePrefix)

	stored, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "01234 567890", stored.Phone)
	assert.Equal(t, "75.50", stored.HourlyRate.String())
}

func TestUpsertValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := callerContext()

	negative := decimal.NewFromInt(-1)
	_, _, err := svc.Upsert(ctx, domain.UpdateSettingsRequest{HourlyRate: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidHourlyRate)

	for _, raw := range []string{
		"ftp://logo",
		"http://169.254.169.254/latest/meta-data/",
		"http://127.0.0.1:6379/",
		"http://localhost:5432/x.png",
		"http://192.168.0.10/logo.png",
	} {
		_, _, err = svc.Upsert(ctx, domain.UpdateSettingsRequest{LogoURL: strPtr(raw)})
		assert.ErrorIs(t, err, domain.ErrInvalidLogoURL, raw)
	}

	account, _, err := svc.Upsert(ctx, domain.UpdateSettingsRequest{LogoURL: strPtr("https://cdn.example.com/logo.png")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/logo.png", account.LogoURL)

	zero := decimal.Zero
	account, _, err = svc.Upsert(ctx, domain.UpdateSettingsRequest{HourlyRate: &zero})
	require.NoError(t, err)
	assert.Equal(t, "0.00", account.HourlyRate.String())
}

func TestNextInvoiceSequence(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := callerContext()

	account, err := svc.Get(ctx)
	require.NoError(t, err)

	dbConn := svc.(*Service).db
	stamp := time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)
	for want := int64(1); want <= 3; want++ {
		seq, err := repo.NextInvoiceSequence(ctx, dbConn, account.ID, stamp)
		require.NoError(t, err)
		assert.Equal(t, want, seq)
	}

	stored, err := repo.FindByID(ctx, dbConn, account.ID)
	require.NoError(t, err)
	assert.True(t, stamp.Equal(stored.UpdatedAt), "updated_at follows the caller's clock")

	_, err = repo.NextInvoiceSequence(ctx, dbConn, uuid.New(), stamp)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
