package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/internal/invoice/domain"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) (*domain.Invoice, error) {
	return r.findOne(ctx, db, "account_id = ? AND id = ?", accountID, id)
}

func (r *repo) FindByJobSheet(ctx context.Context, db *gorm.DB, accountID uuid.UUID, jobSheetID snowflake.ID) (*domain.Invoice, error) {
	return r.findOne(ctx, db, "account_id = ? AND job_sheet_id = ?", accountID, jobSheetID)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, query string, args ...any) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Where(query, args...).
		Limit(1).
		Find(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, accountID uuid.UUID, filter domain.ListInvoiceFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	scope, err := pagination.Apply(page, "id")
	if err != nil {
		return nil, err
	}

	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("account_id = ?", accountID)
	if filter.JobSheetID != nil {
		stmt = stmt.Where("job_sheet_id = ?", *filter.JobSheetID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if err := stmt.Scopes(scope).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("account_id = ? AND id = ?", invoice.AccountID, invoice.ID).
		Updates(map[string]any{
			"status":               invoice.Status,
			"notes":                invoice.Notes,
			"payment_instructions": invoice.PaymentInstructions,
			"updated_at":           invoice.UpdatedAt,
		}).Error
}

func (r *repo) Register(ctx context.Context, db *gorm.DB, accountID uuid.UUID) ([]domain.RegisterEntry, error) {
	var entries []domain.RegisterEntry
	err := db.WithContext(ctx).Raw(`
		SELECT i.*, c.name AS customer_name, v.registration AS registration
		FROM invoices i
		JOIN job_sheets s ON s.id = i.job_sheet_id
		JOIN customers c ON c.id = s.customer_id
		JOIN vehicles v ON v.id = s.vehicle_id
		WHERE i.account_id = ?
		ORDER BY i.invoice_date ASC, i.id ASC`,
		accountID,
	).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
