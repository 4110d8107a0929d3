package pdf

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceDocument is a fully fetched snapshot of everything printed on an
// invoice. Rendering never goes back to the database.
type InvoiceDocument struct {
	Garage   Garage
	Customer Customer
	Vehicle  Vehicle

	Number              string
	Date                time.Time
	DueDate             time.Time
	Status              string
	VATExempt           bool
	Items               []Item
	Subtotal            decimal.Decimal
	VATAmount           decimal.Decimal
	Total               decimal.Decimal
	Notes               string
	PaymentInstructions string
}

type Garage struct {
	Name      string
	Address   string
	Phone     string
	VATNumber string
	LogoURL   string
}

type Customer struct {
	Name  string
	Phone string
	Email string
}

type Vehicle struct {
	Registration string
	Make         string
	Model        string
	Mileage      int
}

type Item struct {
	Type        string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal
	Total       decimal.Decimal
}

// Image is a decoded logo ready to embed.
type Image struct {
	Data      []byte
	Extension string
}
