package db

import (
	"fmt"
	"strings"

	puresqlite "github.com/glebarez/sqlite"
	"github.com/smallbiznis/garagebook/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	TypePostgres   = "postgres"
	TypeMySQL      = "mysql"
	TypeSQLite     = "sqlite"
	TypeSQLitePure = "sqlite-pure"
)

func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.DBType)) {
	case TypeMySQL:
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)), nil
	case TypePostgres:
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
			cfg.DBSSLMode,
		)), nil
	case TypeSQLite:
		return sqlite.Open(sqliteDSN(cfg.DBPath, "_foreign_keys=on")), nil
	case TypeSQLitePure:
		return puresqlite.Open(sqliteDSN(cfg.DBPath, "_pragma=foreign_keys(1)")), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.DBType)
	}
}

// sqliteDSN turns on foreign keys so ON DELETE CASCADE holds on sqlite too.
// The cgo and pure drivers spell the pragma differently.
func sqliteDSN(path, fkParam string) string {
	if strings.TrimSpace(path) == "" {
		path = "garagebook.db"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + fkParam
}
