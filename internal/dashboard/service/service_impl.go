package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/garagebook/internal/accountcontext"
	"github.com/smallbiznis/garagebook/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/garagebook/internal/invoice/domain"
	jobsheetdomain "github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	"github.com/smallbiznis/garagebook/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	JobSheetRepo jobsheetdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	jobSheetRepo jobsheetdomain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("dashboard.service"),
		jobSheetRepo: p.JobSheetRepo,
	}
}

type statsRow struct {
	JobSheets      int64           `gorm:"column:job_sheets"`
	Invoices       int64           `gorm:"column:invoices"`
	Customers      int64           `gorm:"column:customers"`
	Vehicles       int64           `gorm:"column:vehicles"`
	UnpaidInvoices int64           `gorm:"column:unpaid_invoices"`
	UnpaidTotal    decimal.Decimal `gorm:"column:unpaid_total"`
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.Stats{}, domain.ErrInvalidAccount
	}

	var row statsRow
	query := `
		SELECT
			(SELECT COUNT(*) FROM job_sheets WHERE account_id = @account) AS job_sheets,
			(SELECT COUNT(*) FROM invoices WHERE account_id = @account) AS invoices,
			(SELECT COUNT(*) FROM customers WHERE account_id = @account) AS customers,
			(SELECT COUNT(*) FROM vehicles WHERE account_id = @account) AS vehicles,
			(SELECT COUNT(*) FROM invoices WHERE account_id = @account AND status = @unpaid) AS unpaid_invoices,
			(SELECT COALESCE(SUM(total), 0) FROM invoices WHERE account_id = @account AND status = @unpaid) AS unpaid_total`

	if err := s.db.WithContext(ctx).Raw(query, map[string]any{
		"account": accountID,
		"unpaid":  invoicedomain.StatusUnpaid,
	}).Scan(&row).Error; err != nil {
		return domain.Stats{}, err
	}

	recent, err := s.jobSheetRepo.Recent(ctx, s.db, accountID, domain.RecentJobSheetLimit)
	if err != nil {
		return domain.Stats{}, err
	}
	if recent == nil {
		recent = []jobsheetdomain.JobSheet{}
	}

	return domain.Stats{
		JobSheets:       row.JobSheets,
		Invoices:        row.Invoices,
		Customers:       row.Customers,
		Vehicles:        row.Vehicles,
		UnpaidInvoices:  row.UnpaidInvoices,
		UnpaidTotal:     money.New(row.UnpaidTotal),
		RecentJobSheets: recent,
	}, nil
}
