package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/internal/customer/domain"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, account_id, name, phone, email, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.AccountID,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, account_id, name, phone, email, created_at, updated_at
		 FROM customers WHERE account_id = ? AND id = ?`,
		accountID,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, accountID uuid.UUID, filter domain.ListCustomerFilter, page pagination.Pagination) ([]*domain.Customer, error) {
	scope, err := pagination.Apply(page, "id")
	if err != nil {
		return nil, err
	}

	var customers []*domain.Customer
	stmt := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("account_id = ?", accountID)
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+filter.Name+"%")
	}
	if err := stmt.Scopes(scope).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET name = ?, phone = ?, email = ?, updated_at = ?
		 WHERE account_id = ? AND id = ?`,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.UpdatedAt,
		customer.AccountID,
		customer.ID,
	).Error
}

// Delete removes the customer together with its vehicles, job sheets and
// everything hanging off them.
func (r *repo) Delete(ctx context.Context, db *gorm.DB, accountID uuid.UUID, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sheets := `SELECT id FROM job_sheets WHERE account_id = ? AND customer_id = ?`
		stmts := []string{
			`DELETE FROM invoices WHERE job_sheet_id IN (` + sheets + `)`,
			`DELETE FROM job_items WHERE job_sheet_id IN (` + sheets + `)`,
			`DELETE FROM attachments WHERE job_sheet_id IN (` + sheets + `)`,
			`DELETE FROM job_sheets WHERE account_id = ? AND customer_id = ?`,
			`DELETE FROM vehicles WHERE account_id = ? AND customer_id = ?`,
			`DELETE FROM customers WHERE account_id = ? AND id = ?`,
		}
		for _, stmt := range stmts {
			if err := tx.Exec(stmt, accountID, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
