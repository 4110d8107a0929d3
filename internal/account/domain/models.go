package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/pkg/money"
)

const (
	DefaultInvoicePrefix = "INV-"
	DefaultPaymentTerms  = "Due within 14 days"
)

var DefaultHourlyRate = money.MustString("60.00")

// Account is the garage owner. Its id is the identity provider subject.
type Account struct {
	ID            uuid.UUID    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email         string       `gorm:"not null" json:"email"`
	GarageName    string       `json:"garageName"`
	Address       string       `json:"address"`
	Phone         string       `json:"phone"`
	VATNumber     string       `gorm:"column:vat_number" json:"vatNumber"`
	HourlyRate    money.Amount `gorm:"type:numeric(10,2);not null" json:"hourlyRate"`
	InvoicePrefix string       `gorm:"not null" json:"invoicePrefix"`
	PaymentTerms  string       `json:"paymentTerms"`
	DefaultNotes  string       `json:"defaultNotes"`
	LogoURL       string       `gorm:"column:logo_url" json:"logoUrl"`
	InvoiceSeq    int64        `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updatedAt"`
}

func (Account) TableName() string { return "accounts" }

// NewAccount returns an account with the default garage profile.
func NewAccount(id uuid.UUID, email string, now time.Time) Account {
	return Account{
		ID:            id,
		Email:         email,
		HourlyRate:    DefaultHourlyRate,
		InvoicePrefix: DefaultInvoicePrefix,
		PaymentTerms:  DefaultPaymentTerms,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
