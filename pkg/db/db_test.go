package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smallbiznis/garagebook/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection refused")))
	assert.True(t, IsDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyErr(fmt.Errorf("create invoice: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsDuplicateKeyErr(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsDuplicateKeyErr(errors.New("Error 1062: Duplicate entry")))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: invoices.job_sheet_id")))
}

func TestDialect(t *testing.T) {
	for _, typ := range []string{TypePostgres, TypeMySQL, TypeSQLite, TypeSQLitePure} {
		d, err := Dialect(config.Config{DBType: typ, DBPath: "test.db"})
		require.NoError(t, err, typ)
		assert.NotNil(t, d)
	}

	_, err := Dialect(config.Config{DBType: "oracle"})
	assert.Error(t, err)
}

func TestTranslateErrorOnlyWhereSupported(t *testing.T) {
	for typ, want := range map[string]bool{
		TypePostgres:   true,
		TypeMySQL:      true,
		TypeSQLite:     true,
		TypeSQLitePure: false,
	} {
		d, err := Dialect(config.Config{DBType: typ, DBPath: "test.db"})
		require.NoError(t, err, typ)
		assert.Equal(t, want, translatesErrors(d), typ)
	}
}

func TestNewTestDatabaseReportsDuplicates(t *testing.T) {
	conn, err := NewTest()
	require.NoError(t, err)
	assert.False(t, conn.Config.TranslateError)

	type row struct {
		ID   int    `gorm:"primaryKey"`
		Code string `gorm:"uniqueIndex"`
	}
	require.NoError(t, conn.AutoMigrate(&row{}))
	require.NoError(t, conn.Create(&row{ID: 1, Code: "A"}).Error)
	err = conn.Create(&row{ID: 2, Code: "A"}).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKeyErr(err), err.Error())
}

func TestSQLiteDSNEnablesForeignKeys(t *testing.T) {
	assert.Equal(t, "garagebook.db?_pragma=foreign_keys(1)", sqliteDSN("", "_pragma=foreign_keys(1)"))
	assert.Equal(t, "file:x.db?mode=rwc&_foreign_keys=on", sqliteDSN("file:x.db?mode=rwc", "_foreign_keys=on"))
}

func TestNewTestDatabase(t *testing.T) {
	conn, err := NewTest()
	require.NoError(t, err)

	var fk int
	require.NoError(t, conn.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}
