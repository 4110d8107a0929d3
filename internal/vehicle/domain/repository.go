package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, vehicle *Vehicle) error
	FindByID(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) (*Vehicle, error)
	List(ctx context.Context, db *gorm.DB, accountID uuid.UUID, filter ListVehicleFilter, page pagination.Pagination) ([]*Vehicle, error)
	Update(ctx context.Context, db *gorm.DB, vehicle *Vehicle) error
	Delete(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) error
	HasJobSheets(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) (bool, error)
}
