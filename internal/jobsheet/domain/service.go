package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/garagebook/pkg/db/pagination"
)

type ListJobSheetRequest struct {
	PageToken  string
	PageSize   int
	Status     string
	CustomerID string
	VehicleID  string
}

type ListJobSheetFilter struct {
	Status     Status
	CustomerID *int64
	VehicleID  *int64
}

type ListJobSheetResponse struct {
	pagination.PageInfo
	JobSheets []JobSheet `json:"jobSheets"`
}

type CreateJobSheetRequest struct {
	CustomerID       string
	VehicleID        string
	DateIn           *time.Time
	DateOut          *time.Time
	ReportedProblems string
	Diagnosis        string
	TechnicianName   string
	Status           string
	IsVATExempt      bool
}

// UpdateJobSheetRequest leaves nil fields unchanged. DateOut is cleared when
// ClearDateOut is set.
type UpdateJobSheetRequest struct {
	ID               string
	DateIn           *time.Time
	DateOut          *time.Time
	ClearDateOut     bool
	ReportedProblems *string
	Diagnosis        *string
	TechnicianName   *string
	Status           *string
	IsVATExempt      *bool
}

type Service interface {
	Create(context.Context, CreateJobSheetRequest) (JobSheet, error)
	List(context.Context, ListJobSheetRequest) (ListJobSheetResponse, error)
	GetByID(ctx context.Context, id string) (JobSheet, error)
	Update(context.Context, UpdateJobSheetRequest) (JobSheet, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidAccount  = errors.New("invalid_account")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCustomer = errors.New("invalid_customer_id")
	ErrInvalidVehicle  = errors.New("invalid_vehicle_id")
	ErrInvalidDateIn   = errors.New("invalid_date_in")
	ErrInvalidDateOut  = errors.New("invalid_date_out")
	ErrInvalidStatus   = errors.New("invalid_status")
	// ErrVATExemptLocked is returned when the exemption flag changes on an
	// invoiced sheet.
	ErrVATExemptLocked   = errors.New("job_sheet_invoiced")
	ErrCustomerForbidden = errors.New("customer_forbidden")
	ErrVehicleForbidden  = errors.New("vehicle_forbidden")
	ErrNotFound          = errors.New("not_found")
)
