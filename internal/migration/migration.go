package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	accountdomain "github.com/smallbiznis/garagebook/internal/account/domain"
	attachmentdomain "github.com/smallbiznis/garagebook/internal/attachment/domain"
	customerdomain "github.com/smallbiznis/garagebook/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/garagebook/internal/invoice/domain"
	jobitemdomain "github.com/smallbiznis/garagebook/internal/jobitem/domain"
	jobsheetdomain "github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	vehicledomain "github.com/smallbiznis/garagebook/internal/vehicle/domain"
	"gorm.io/gorm"
)

// RunMigrations applies the embedded postgres schema.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&accountdomain.Account{},
		&customerdomain.Customer{},
		&vehicledomain.Vehicle{},
		&jobsheetdomain.JobSheet{},
		&jobitemdomain.JobItem{},
		&invoicedomain.Invoice{},
		&attachmentdomain.Attachment{},
	}
}

// AutoMigrate creates the schema from the models. It is used for sqlite and
// mysql, where the embedded postgres SQL does not apply. Cascades are done
// by the repositories, so no foreign keys are declared here.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
