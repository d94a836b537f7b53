package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/superblogger/waitlist/config"
	"github.com/superblogger/waitlist/internal/log"
	"github.com/superblogger/waitlist/pkg/migrations"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		if err := runMigrate(logger); err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			os.Exit(1)
		}

		logger.Info("Database migrations completed")
		return

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

// runMigrate applies the SQL migrations to the postgres store. The sqlite store is
// migrated with the server's --auto-migrate flag instead.
func runMigrate(logger *log.Logger) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	if settings.Store != config.StorePostgres {
		return fmt.Errorf("migrate requires WAITLIST_STORE=%s, got %q", config.StorePostgres, settings.Store)
	}

	db, err := config.NewDatabase(logger, settings.Store, settings.Database)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get SQL DB instance: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close SQL DB after migration", "error", err.Error())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return migrations.Up(ctx, sqlDB, migrations.Config{Dir: settings.Database.MigrationsDir, Logger: logger})
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate          Apply the postgres waitlist schema and exit")
}
