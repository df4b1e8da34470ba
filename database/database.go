package database

import (
	"fmt"
	"net/url"

	"entitlements-app/internal/domain/plans"
	"entitlements-app/internal/domain/subscriptions"
	"entitlements-app/internal/domain/upgrades"
	"entitlements-app/internal/domain/users"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// partialIndexes are the uniqueness rules AutoMigrate cannot express.
// Both postgres and sqlite accept the WHERE clause.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_upgrade_requests_one_pending
		ON upgrade_requests (account_id) WHERE status = 'pending'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_subscriptions_one_active
		ON subscriptions (account_id) WHERE is_active`,
}

// Open connects without migrating.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite has one writer; a single connection serialises transactions.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}
	return db, nil
}

// Migrate creates or updates every table and the partial unique indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.Account{},
		&plans.Plan{},
		&subscriptions.Subscription{},
		&upgrades.UpgradeRequest{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create partial index: %w", err)
		}
	}
	return nil
}

// InitDB opens, migrates and publishes the shared handle.
func InitDB(driver, dsn string) error {
	db, err := Open(driver, dsn)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}

	DB = db
	log.Info().Str("driver", db.Dialector.Name()).Msg("database connected and migrated")
	return nil
}

// SQLiteDSN builds a file DSN with a busy timeout so writers wait instead of failing.
func SQLiteDSN(path string) string {
	return path + "?" + url.Values{
		"_pragma": []string{
			"busy_timeout(5000)",
			"journal_mode(WAL)",
			"foreign_keys(1)",
		},
	}.Encode()
}
