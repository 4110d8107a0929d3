package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Vehicle struct {
	ID           snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	AccountID    uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"accountId"`
	CustomerID   snowflake.ID    `gorm:"not null;index" json:"customerId"`
	Registration string          `gorm:"not null" json:"registration"`
	Make         string          `gorm:"not null" json:"make"`
	Model        string          `gorm:"not null" json:"model"`
	VIN          string          `gorm:"column:vin" json:"vin,omitempty"`
	Mileage      int             `gorm:"not null" json:"mileage"`
	FuelType     string          `gorm:"not null" json:"fuelType"`
	MOTDueDate   *datatypes.Date `gorm:"column:mot_due_date" json:"motDueDate,omitempty"`
	CreatedAt    time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updatedAt"`
}
