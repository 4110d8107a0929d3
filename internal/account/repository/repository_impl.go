package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/internal/account/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, account *domain.Account) error {
	return db.WithContext(ctx).Create(account).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == uuid.Nil {
		return nil, nil
	}
	return &account, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, account *domain.Account) error {
	return db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"email":          account.Email,
			"garage_name":    account.GarageName,
			"address":        account.Address,
			"phone":          account.Phone,
			"vat_number":     account.VATNumber,
			"hourly_rate":    account.HourlyRate,
			"invoice_prefix": account.InvoicePrefix,
			"payment_terms":  account.PaymentTerms,
			"default_notes":  account.DefaultNotes,
			"logo_url":       account.LogoURL,
			"updated_at":     account.UpdatedAt,
		}).Error
}

func (r *repo) NextInvoiceSequence(ctx context.Context, db *gorm.DB, id uuid.UUID, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE accounts SET invoice_seq = invoice_seq + 1, updated_at = ? WHERE id = ?`,
		now,
		id,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, domain.ErrNotFound
	}

	var seq int64
	if err := db.WithContext(ctx).
		Raw(`SELECT invoice_seq FROM accounts WHERE id = ?`, id).
		Scan(&seq).Error; err != nil {
		return 0, err
	}
	return seq, nil
}
