package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/garagebook/pkg/db/pagination"
)

type ListVehicleRequest struct {
	PageToken  string
	PageSize   int
	CustomerID string
}

type ListVehicleFilter struct {
	CustomerID *int64
}

type ListVehicleResponse struct {
	pagination.PageInfo
	Vehicles []Vehicle `json:"vehicles"`
}

// VehicleInput is shared by create and update.
type VehicleInput struct {
	CustomerID   string
	Registration string
	Make         string
	Model        string
	VIN          string
	Mileage      *int
	FuelType     string
	MOTDueDate   *time.Time
}

// MaxMileage is the largest value the mileage column holds.
const MaxMileage = 2147483647

type UpdateVehicleRequest struct {
	ID string
	VehicleInput
}

type Service interface {
	Create(context.Context, VehicleInput) (Vehicle, error)
	List(context.Context, ListVehicleRequest) (ListVehicleResponse, error)
	GetByID(ctx context.Context, id string) (Vehicle, error)
	Update(context.Context, UpdateVehicleRequest) (Vehicle, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidAccount      = errors.New("invalid_account")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidCustomer     = errors.New("invalid_customer_id")
	ErrInvalidRegistration = errors.New("invalid_registration")
	ErrInvalidMake         = errors.New("invalid_make")
	ErrInvalidModel        = errors.New("invalid_model")
	ErrInvalidMileage      = errors.New("invalid_mileage")
	ErrInvalidFuelType     = errors.New("invalid_fuel_type")
	// ErrHasJobSheets blocks moving a vehicle to another customer once job
	// sheets reference the current one.
	ErrHasJobSheets = errors.New("vehicle_has_job_sheets")
	// ErrCustomerForbidden is returned when the referenced customer does not
	// belong to the caller.
	ErrCustomerForbidden = errors.New("customer_forbidden")
	ErrNotFound          = errors.New("not_found")
)
