package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/garagebook/internal/attachment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, attachment *domain.Attachment) error {
	return db.WithContext(ctx).Create(attachment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&attachment).Error
	if err != nil {
		return nil, err
	}
	if attachment.ID == 0 {
		return nil, nil
	}
	return &attachment, nil
}

func (r *repo) ListByJobSheet(ctx context.Context, db *gorm.DB, jobSheetID snowflake.ID) ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	err := db.WithContext(ctx).
		Where("job_sheet_id = ?", jobSheetID).
		Order("id ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM attachments WHERE id = ?`, id).Error
}
