// Package testutil seeds an in-memory database for service tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/garagebook/internal/accountcontext"
	customerdomain "github.com/smallbiznis/garagebook/internal/customer/domain"
	jobitemdomain "github.com/smallbiznis/garagebook/internal/jobitem/domain"
	jobsheetdomain "github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	"github.com/smallbiznis/garagebook/internal/migration"
	vehicledomain "github.com/smallbiznis/garagebook/internal/vehicle/domain"
	"github.com/smallbiznis/garagebook/pkg/db"
	"github.com/smallbiznis/garagebook/pkg/money"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var Now = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

// Fixture is a migrated database with an id generator.
type Fixture struct {
	DB    *gorm.DB
	GenID *snowflake.Node
}

func New(t *testing.T) *Fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &Fixture{DB: conn, GenID: node}
}

// Caller returns a context for a fresh account.
func Caller() (context.Context, uuid.UUID) {
	accountID := uuid.New()
	ctx := accountcontext.WithIdentity(context.Background(), accountcontext.Identity{
		AccountID: accountID,
		Email:     "owner@garage.test",
	})
	return ctx, accountID
}

func (f *Fixture) Customer(t *testing.T, accountID uuid.UUID, name string) customerdomain.Customer {
	t.Helper()
	c := customerdomain.Customer{
		ID:        f.GenID.Generate(),
		AccountID: accountID,
		Name:      name,
		Phone:     "07000 000000",
		CreatedAt: Now,
		UpdatedAt: Now,
	}
	require.NoError(t, f.DB.Create(&c).Error)
	return c
}

func (f *Fixture) Vehicle(t *testing.T, customer customerdomain.Customer, registration string) vehicledomain.Vehicle {
	t.Helper()
	v := vehicledomain.Vehicle{
		ID:           f.GenID.Generate(),
		AccountID:    customer.AccountID,
		CustomerID:   customer.ID,
		Registration: registration,
		Make:         "Ford",
		Model:        "Focus",
		Mileage:      45210,
		FuelType:     "Petrol",
		CreatedAt:    Now,
		UpdatedAt:    Now,
	}
	require.NoError(t, f.DB.Create(&v).Error)
	return v
}

func (f *Fixture) JobSheet(t *testing.T, vehicle vehicledomain.Vehicle, vatExempt bool) jobsheetdomain.JobSheet {
	t.Helper()
	s := jobsheetdomain.JobSheet{
		ID:          f.GenID.Generate(),
		AccountID:   vehicle.AccountID,
		CustomerID:  vehicle.CustomerID,
		VehicleID:   vehicle.ID,
		DateIn:      datatypes.Date(Now),
		Status:      jobsheetdomain.StatusInProgress,
		IsVATExempt: vatExempt,
		CreatedAt:   Now,
		UpdatedAt:   Now,
	}
	require.NoError(t, f.DB.Create(&s).Error)
	return s
}

func (f *Fixture) JobItem(t *testing.T, sheet jobsheetdomain.JobSheet, quantity, unitPrice, vatRate string) jobitemdomain.JobItem {
	t.Helper()
	i := jobitemdomain.JobItem{
		ID:          f.GenID.Generate(),
		JobSheetID:  sheet.ID,
		ItemType:    jobitemdomain.ItemTypeParts,
		Description: "Brake pads",
		Quantity:    money.New(decimal.RequireFromString(quantity)),
		UnitPrice:   money.New(decimal.RequireFromString(unitPrice)),
		VATRate:     money.New(decimal.RequireFromString(vatRate)),
		CreatedAt:   Now,
		UpdatedAt:   Now,
	}
	require.NoError(t, f.DB.Create(&i).Error)
	return i
}

// Count returns the number of rows in table matching the where clause.
func (f *Fixture) Count(t *testing.T, table, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.DB.Table(table).Where(where, args...).Count(&n).Error)
	return n
}
