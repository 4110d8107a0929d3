package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) (*Invoice, error)
	FindByJobSheet(ctx context.Context, db *gorm.DB, accountID uuid.UUID, jobSheetID snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, accountID uuid.UUID, filter ListInvoiceFilter, page pagination.Pagination) ([]*Invoice, error)
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	// Register returns every invoice of the account ordered by invoice date.
	Register(ctx context.Context, db *gorm.DB, accountID uuid.UUID) ([]RegisterEntry, error)
}
