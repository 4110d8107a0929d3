package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusDraft      Status = "Draft"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

type JobSheet struct {
	ID               snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	AccountID        uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"accountId"`
	CustomerID       snowflake.ID    `gorm:"not null;index" json:"customerId"`
	VehicleID        snowflake.ID    `gorm:"not null;index" json:"vehicleId"`
	DateIn           datatypes.Date  `gorm:"not null" json:"dateIn"`
	DateOut          *datatypes.Date `json:"dateOut,omitempty"`
	ReportedProblems string          `json:"reportedProblems"`
	Diagnosis        string          `json:"diagnosis"`
	TechnicianName   string          `json:"technicianName"`
	Status           Status          `gorm:"type:varchar(32);not null" json:"status"`
	IsVATExempt      bool            `gorm:"column:is_vat_exempt;not null" json:"isVatExempt"`
	CreatedAt        time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt        time.Time       `gorm:"not null" json:"updatedAt"`
}
