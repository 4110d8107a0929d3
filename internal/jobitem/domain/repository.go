package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is not account scoped. Callers check ownership of the parent
// job sheet first.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *JobItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*JobItem, error)
	ListByJobSheet(ctx context.Context, db *gorm.DB, jobSheetID snowflake.ID) ([]JobItem, error)
	Update(ctx context.Context, db *gorm.DB, item *JobItem) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
