package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/garagebook/internal/jobitem/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, item *domain.JobItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.JobItem, error) {
	var item domain.JobItem
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) ListByJobSheet(ctx context.Context, db *gorm.DB, jobSheetID snowflake.ID) ([]domain.JobItem, error) {
	var items []domain.JobItem
	err := db.WithContext(ctx).
		Where("job_sheet_id = ?", jobSheetID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, item *domain.JobItem) error {
	return db.WithContext(ctx).
		Model(&domain.JobItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"item_type":   item.ItemType,
			"description": item.Description,
			"quantity":    item.Quantity,
			"unit_price":  item.UnitPrice,
			"vat_rate":    item.VATRate,
			"updated_at":  item.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM job_items WHERE id = ?`, id).Error
}
