package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/internal/vehicle/domain"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, vehicle *domain.Vehicle) error {
	return db.WithContext(ctx).Create(vehicle).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		Limit(1).
		Find(&vehicle).Error
	if err != nil {
		return nil, err
	}
	if vehicle.ID == 0 {
		return nil, nil
	}
	return &vehicle, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, accountID uuid.UUID, filter domain.ListVehicleFilter, page pagination.Pagination) ([]*domain.Vehicle, error) {
	scope, err := pagination.Apply(page, "id")
	if err != nil {
		return nil, err
	}

	var vehicles []*domain.Vehicle
	stmt := db.WithContext(ctx).
		Model(&domain.Vehicle{}).
		Where("account_id = ?", accountID)
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if err := stmt.Scopes(scope).Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, vehicle *domain.Vehicle) error {
	return db.WithContext(ctx).
		Model(&domain.Vehicle{}).
		Where("account_id = ? AND id = ?", vehicle.AccountID, vehicle.ID).
		Updates(map[string]any{
			"customer_id":  vehicle.CustomerID,
			"registration": vehicle.Registration,
			"make":         vehicle.Make,
			"model":        vehicle.Model,
			"vin":          vehicle.VIN,
			"mileage":      vehicle.Mileage,
			"fuel_type":    vehicle.FuelType,
			"mot_due_date": vehicle.MOTDueDate,
			"updated_at":   vehicle.UpdatedAt,
		}).Error
}

func (r *repo) HasJobSheets(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("job_sheets").
		Where("account_id = ? AND vehicle_id = ?", accountID, id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sheets := `SELECT id FROM job_sheets WHERE account_id = ? AND vehicle_id = ?`
		stmts := []string{
			`DELETE FROM invoices WHERE job_sheet_id IN (` + sheets + `)`,
			`DELETE FROM job_items WHERE job_sheet_id IN (` + sheets + `)`,
			`DELETE FROM attachments WHERE job_sheet_id IN (` + sheets + `)`,
			`DELETE FROM job_sheets WHERE account_id = ? AND vehicle_id = ?`,
			`DELETE FROM vehicles WHERE account_id = ? AND id = ?`,
		}
		for _, stmt := range stmts {
			if err := tx.Exec(stmt, accountID, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
