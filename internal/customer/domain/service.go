package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/garagebook/pkg/db/pagination"
)

type ListCustomerRequest struct {
	PageToken string
	PageSize  int
	Name      string
}

type ListCustomerFilter struct {
	Name string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	Name  string
	Phone string
	Email string
}

type UpdateCustomerRequest struct {
	ID    string
	Name  string
	Phone string
	Email string
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidAccount = errors.New("invalid_account")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidPhone   = errors.New("invalid_phone")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
