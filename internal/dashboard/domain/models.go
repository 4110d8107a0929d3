package domain

import (
	"context"
	"errors"

	jobsheetdomain "github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	"github.com/smallbiznis/garagebook/pkg/money"
)

const RecentJobSheetLimit = 5

// Stats summarises an account's workshop activity.
type Stats struct {
	JobSheets       int64                     `json:"jobSheets"`
	Invoices        int64                     `json:"invoices"`
	Customers       int64                     `json:"customers"`
	Vehicles        int64                     `json:"vehicles"`
	UnpaidInvoices  int64                     `json:"unpaidInvoices"`
	UnpaidTotal     money.Amount              `json:"unpaidTotal"`
	RecentJobSheets []jobsheetdomain.JobSheet `json:"recentJobSheets"`
}

type Service interface {
	Stats(ctx context.Context) (Stats, error)
}

var ErrInvalidAccount = errors.New("invalid_account")
