// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/pkg/money"
	"gorm.io/datatypes"
)

// Status represents invoice lifecycle states.
type Status string

const (
	StatusUnpaid    Status = "Unpaid"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusCancelled:
		return true
	default:
		return false
	}
}

// Invoice is issued once per job sheet. Totals are computed from the sheet's
// items at creation and never recomputed.
type Invoice struct {
	ID                  snowflake.ID   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	AccountID           uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"accountId"`
	JobSheetID          snowflake.ID   `gorm:"not null;uniqueIndex:ux_invoices_job_sheet" json:"jobSheetId"`
	InvoiceNumber       string         `gorm:"not null" json:"invoiceNumber"`
	InvoiceDate         datatypes.Date `gorm:"not null" json:"invoiceDate"`
	DueDate             datatypes.Date `gorm:"not null" json:"dueDate"`
	Subtotal            money.Amount   `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	VATAmount           money.Amount   `gorm:"column:vat_amount;type:numeric(10,2);not null" json:"vatAmount"`
	Total               money.Amount   `gorm:"type:numeric(10,2);not null" json:"total"`
	Status              Status         `gorm:"type:varchar(16);not null" json:"status"`
	Notes               string         `json:"notes"`
	PaymentInstructions string         `json:"paymentInstructions"`
	CreatedAt           time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updatedAt"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// RegisterEntry is an invoice joined with its customer for the register export.
type RegisterEntry struct {
	Invoice
	CustomerName string
	Registration string
}
