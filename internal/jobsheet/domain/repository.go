package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sheet *JobSheet) error
	FindByID(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) (*JobSheet, error)
	// LockByID is FindByID holding a row lock until the transaction ends.
	// Writes that depend on the sheet not being invoiced take it first.
	LockByID(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) (*JobSheet, error)
	List(ctx context.Context, db *gorm.DB, accountID uuid.UUID, filter ListJobSheetFilter, page pagination.Pagination) ([]*JobSheet, error)
	Recent(ctx context.Context, db *gorm.DB, accountID uuid.UUID, limit int) ([]JobSheet, error)
	Update(ctx context.Context, db *gorm.DB, sheet *JobSheet) error
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status, now time.Time) error
	HasInvoice(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
	// Delete removes the sheet with its items, invoice and attachments.
	Delete(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) error
}
