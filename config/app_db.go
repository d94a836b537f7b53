package config

import (
	"fmt"
	"strings"

	"github.com/superblogger/waitlist/internal/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase opens the SQL record store selected by store (postgres or sqlite).
func NewDatabase(logger *log.Logger, store string, cfg DatabaseSettings) (*gorm.DB, error) {
	dialector, err := buildDialector(logger, store, cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err, "store", store)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Failed to get database instance", "error", err)
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if store == StoreSQLite {
		// sqlite serializes writers; more than one open connection only produces SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		logger.Error("Database ping failed", "error", err)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully", "store", store)
	return gdb, nil
}

func buildDialector(logger *log.Logger, store string, cfg DatabaseSettings) (gorm.Dialector, error) {
	switch store {
	case StoreSQLite:
		logger.Info("Opening sqlite database", "path", cfg.SQLitePath)
		return sqlite.Open(cfg.SQLitePath), nil
	case StorePostgres:
		return postgres.Open(buildPostgresDSN(logger, cfg)), nil
	default:
		return nil, fmt.Errorf("store %q is not backed by a SQL database", store)
	}
}

func buildPostgresDSN(logger *log.Logger, cfg DatabaseSettings) string {
	if strings.TrimSpace(cfg.URL) != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
		return cfg.URL
	}

	ssl := cfg.SSLMode
	if ssl == "" {
		ssl = "require"
	}

	logger.Info("Connecting to database",
		"host", cfg.Host,
		"port", cfg.Port,
		"user", cfg.User,
		"dbname", cfg.Name,
		"sslmode", ssl,
	)

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, ssl,
	)
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		logger.Error("Cannot migrate: db is empty")
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database migration completed successfully")

	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	} else {
		logger.Info("Database closed successfully")
	}
}
