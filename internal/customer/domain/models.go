package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type Customer struct {
	ID        snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`
	AccountID uuid.UUID    `gorm:"type:varchar(36);not null;index" json:"accountId"`
	Name      string       `gorm:"not null" json:"name"`
	Phone     string       `gorm:"not null" json:"phone"`
	Email     string       `json:"email,omitempty"`
	CreatedAt time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null" json:"updatedAt"`
}
