package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sheet *domain.JobSheet) error {
	return db.WithContext(ctx).Create(sheet).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) (*domain.JobSheet, error) {
	var sheet domain.JobSheet
	err := db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		Limit(1).
		Find(&sheet).Error
	if err != nil {
		return nil, err
	}
	if sheet.ID == 0 {
		return nil, nil
	}
	return &sheet, nil
}

func (r *repo) LockByID(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) (*domain.JobSheet, error) {
	return r.FindByID(ctx, db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), accountID, id)
}

func (r *repo) List(ctx context.Context, db *gorm.DB, accountID uuid.UUID, filter domain.ListJobSheetFilter, page pagination.Pagination) ([]*domain.JobSheet, error) {
	scope, err := pagination.Apply(page, "id")
	if err != nil {
		return nil, err
	}

	var sheets []*domain.JobSheet
	stmt := db.WithContext(ctx).
		Model(&domain.JobSheet{}).
		Where("account_id = ?", accountID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.VehicleID != nil {
		stmt = stmt.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if err := stmt.Scopes(scope).Find(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

func (r *repo) Recent(ctx context.Context, db *gorm.DB, accountID uuid.UUID, limit int) ([]domain.JobSheet, error) {
	var sheets []domain.JobSheet
	err := db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&sheets).Error
	if err != nil {
		return nil, err
	}
	return sheets, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, sheet *domain.JobSheet) error {
	return db.WithContext(ctx).
		Model(&domain.JobSheet{}).
		Where("account_id = ? AND id = ?", sheet.AccountID, sheet.ID).
		Updates(map[string]any{
			"date_in":           sheet.DateIn,
			"date_out":          sheet.DateOut,
			"reported_problems": sheet.ReportedProblems,
			"diagnosis":         sheet.Diagnosis,
			"technician_name":   sheet.TechnicianName,
			"status":            sheet.Status,
			"is_vat_exempt":     sheet.IsVATExempt,
			"updated_at":        sheet.UpdatedAt,
		}).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.Status, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE job_sheets SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		now,
		id,
	).Error
}

func (r *repo) HasInvoice(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM invoices WHERE job_sheet_id = ?`, id).
		Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range []string{
			`DELETE FROM invoices WHERE job_sheet_id = ?`,
			`DELETE FROM job_items WHERE job_sheet_id = ?`,
			`DELETE FROM attachments WHERE job_sheet_id = ?`,
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}
		return tx.Exec(`DELETE FROM job_sheets WHERE account_id = ? AND id = ?`, accountID, id).Error
	})
}
