package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, account *Account) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Account, error)
	Update(ctx context.Context, db *gorm.DB, account *Account) error
	// NextInvoiceSequence increments and returns the per-account invoice counter.
	NextInvoiceSequence(ctx context.Context, db *gorm.DB, id uuid.UUID, now time.Time) (int64, error)
}
