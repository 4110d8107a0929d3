package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest carries the garage profile. Nil fields keep their
// current value.
type UpdateSettingsRequest struct {
	GarageName    *string
	Address       *string
	Phone         *string
	VATNumber     *string
	HourlyRate    *decimal.Decimal
	InvoicePrefix *string
	PaymentTerms  *string
	DefaultNotes  *string
	LogoURL       *string
}

type Service interface {
	// Get returns the caller's account, creating it on first access.
	Get(ctx context.Context) (Account, error)
	// Upsert applies the request and reports whether the account was created.
	Upsert(ctx context.Context, req UpdateSettingsRequest) (Account, bool, error)
}

var (
	ErrInvalidAccount    = errors.New("invalid_account")
	ErrInvalidHourlyRate = errors.New("invalid_hourly_rate")
	ErrInvalidLogoURL    = errors.New("invalid_logo_url")
	ErrNotFound          = errors.New("not_found")
)
