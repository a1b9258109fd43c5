package store

import (
	"fmt"
	"strings"

	"earn-chain/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Open connects to the configured database. SQLite is embedded and limited to a
// single connection, which makes every transaction a single writer.
func Open(driver, dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	switch driver {
	case DriverSQLite, "":
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + sqlitePragmas
		db, err := gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	case DriverPostgres:
		db, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates or updates the users, ads and clicks tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Ad{}, &models.Click{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
