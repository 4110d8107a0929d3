package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/garagebook/internal/invoice/calc"
	"github.com/smallbiznis/garagebook/pkg/money"
)

type ItemType string

const (
	ItemTypeLabor ItemType = "Labor"
	ItemTypeParts ItemType = "Parts"
	ItemTypeOther ItemType = "Other"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeLabor, ItemTypeParts, ItemTypeOther:
		return true
	default:
		return false
	}
}

type JobItem struct {
	ID          snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`
	JobSheetID  snowflake.ID `gorm:"not null;index" json:"jobSheetId"`
	ItemType    ItemType     `gorm:"type:varchar(16);not null" json:"itemType"`
	Description string       `gorm:"not null" json:"description"`
	Quantity    money.Amount `gorm:"type:numeric(10,2);not null" json:"quantity"`
	UnitPrice   money.Amount `gorm:"type:numeric(10,2);not null" json:"unitPrice"`
	VATRate     money.Amount `gorm:"column:vat_rate;type:numeric(10,2);not null" json:"vatRate"`
	CreatedAt   time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updatedAt"`
}

func (i JobItem) Line() calc.Line {
	return calc.Line{
		Quantity:  i.Quantity.Decimal,
		UnitPrice: i.UnitPrice.Decimal,
		VATRate:   i.VATRate.Decimal,
	}
}

func Lines(items []JobItem) []calc.Line {
	lines := make([]calc.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.Line())
	}
	return lines
}
