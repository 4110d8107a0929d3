package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/smallbiznis/garagebook/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
}

func TestInitMigrationEnforcesOneInvoicePerSheet(t *testing.T) {
	body, err := fs.ReadFile(embeddedMigrations, migrationsDir+"/000001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE UNIQUE INDEX IF NOT EXISTS ux_invoices_job_sheet ON invoices (job_sheet_id)")
	assert.Contains(t, string(body), "REFERENCES job_sheets (id) ON DELETE CASCADE")
}

func TestAutoMigrateCreatesTables(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(conn))

	for _, table := range []string{"accounts", "customers", "vehicles", "job_sheets", "job_items", "invoices", "attachments"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
	assert.True(t, conn.Migrator().HasIndex("invoices", "ux_invoices_job_sheet"))
}
