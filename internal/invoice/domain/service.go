package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/garagebook/pkg/db/pagination"
)

type ListInvoiceRequest struct {
	PageToken  string
	PageSize   int
	JobSheetID string
	Status     string
}

type ListInvoiceFilter struct {
	JobSheetID *int64
	Status     Status
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

// CreateInvoiceRequest carries no totals; they are computed from the job
// sheet's items. Nil fields fall back to the account defaults.
type CreateInvoiceRequest struct {
	JobSheetID          string
	InvoiceNumber       *string
	InvoiceDate         *time.Time
	DueDate             *time.Time
	Status              string
	Notes               *string
	PaymentInstructions *string
}

type UpdateInvoiceRequest struct {
	ID                  string
	Status              *string
	Notes               *string
	PaymentInstructions *string
}

// Document is a generated file ready to be served.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	Update(context.Context, UpdateInvoiceRequest) (Invoice, error)
	RenderPDF(ctx context.Context, id string) (Document, error)
	Export(ctx context.Context) (Document, error)
}

var (
	ErrInvalidAccount    = errors.New("invalid_account")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidJobSheet   = errors.New("invalid_job_sheet_id")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidDueDate    = errors.New("invalid_due_date")
	ErrInvalidTotal      = errors.New("invoice_total_not_positive")
	ErrTotalTooLarge     = errors.New("invoice_total_too_large")
	ErrJobSheetForbidden = errors.New("job_sheet_forbidden")
	ErrAlreadyInvoiced   = errors.New("job_sheet_already_invoiced")
	ErrNotFound          = errors.New("not_found")
)
