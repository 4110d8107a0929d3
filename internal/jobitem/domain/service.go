package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type JobItemInput struct {
	ItemType    string
	Description string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
	VATRate     *decimal.Decimal
}

type CreateJobItemRequest struct {
	JobSheetID string
	JobItemInput
}

type UpdateJobItemRequest struct {
	ID string
	JobItemInput
}

// ItemView adds the computed line amounts.
type ItemView struct {
	JobItem
	LineSubtotal string `json:"lineSubtotal"`
	LineVAT      string `json:"lineVat"`
	LineTotal    string `json:"lineTotal"`
}

type Service interface {
	List(ctx context.Context, jobSheetID string) ([]ItemView, error)
	Create(context.Context, CreateJobItemRequest) (ItemView, error)
	Update(context.Context, UpdateJobItemRequest) (ItemView, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidAccount     = errors.New("invalid_account")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidJobSheet    = errors.New("invalid_job_sheet_id")
	ErrInvalidItemType    = errors.New("invalid_item_type")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInvalidUnitPrice   = errors.New("invalid_unit_price")
	ErrInvalidVATRate     = errors.New("invalid_vat_rate")
	// ErrJobSheetForbidden covers a parent sheet that is missing or owned by
	// another account.
	ErrJobSheetForbidden = errors.New("job_sheet_forbidden")
	ErrJobSheetInvoiced  = errors.New("job_sheet_invoiced")
	ErrNotFound          = errors.New("not_found")
)
