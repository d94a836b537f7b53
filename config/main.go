package config

import (
	"context"
	"time"

	"github.com/superblogger/waitlist/config/router"
	"github.com/superblogger/waitlist/internal/log"
	"github.com/superblogger/waitlist/internal/models"
	"github.com/superblogger/waitlist/pkg/notion"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	// DB is nil unless a SQL store is selected.
	DB *gorm.DB
	// NotionClient is nil unless the Notion store is selected.
	NotionClient    *notion.Client
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Settings        *Settings
	TracingShutdown func(context.Context) error
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	settings, err := LoadSettings()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		return nil, err
	}

	return BuildApplicationConfiguration(logger, settings, autoMigrate)
}

// BuildApplicationConfiguration wires the infrastructure for already-parsed settings.
func BuildApplicationConfiguration(logger *log.Logger, settings *Settings, autoMigrate bool) (*ApplicationConfig, error) {
	if !logger.SetLevel(settings.LogLevel) {
		logger.Warn("Unknown LOG_LEVEL; keeping current level", "level", settings.LogLevel)
	}

	if autoMigrate {
		if err := settings.AutoMigrateAllowed(); err != nil {
			return nil, err
		}
		if settings.AppEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingShutdown, err := setupTracing(logger, settings.Tracing)
	if err != nil {
		return nil, err
	}

	routerService := router.CreateRouterService(logger, NewRouterConfig(settings))

	appConfig := &ApplicationConfig{
		RouterService:   routerService,
		Logger:          logger,
		Settings:        settings,
		TracingShutdown: tracingShutdown,
	}

	// Releases whatever was built so far, tracer provider included.
	fail := func(err error) (*ApplicationConfig, error) {
		appConfig.Cleanup()
		return nil, err
	}

	switch settings.Store {
	case StoreNotion:
		client, err := notion.NewClient(notion.Config{
			APIKey:     settings.Notion.APIKey,
			BaseURL:    settings.Notion.BaseURL,
			Version:    settings.Notion.Version,
			Registerer: routerService.Registerer(),
		})
		if err != nil {
			return fail(err)
		}
		appConfig.NotionClient = client
		logger.Info("Using Notion record store", "database_id", settings.Notion.DatabaseID)

		if autoMigrate {
			logger.Warn("--auto-migrate has no effect with the Notion store")
		}
	default:
		db, err := NewDatabase(logger, settings.Store, settings.Database)
		if err != nil {
			return fail(err)
		}
		appConfig.DB = db

		if autoMigrate {
			if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
				return fail(err)
			}
		}
	}

	appConfig.Cache = settings.Cache.NewCacheOrMemory(logger)

	logger.Info("Application configuration loaded successfully", "store", settings.Store, "on_query_error", settings.OnQueryError)

	return appConfig, nil
}

func NewRouterConfig(settings *Settings) *router.RouterConfig {
	return &router.RouterConfig{
		Port:                  settings.Port,
		GinMode:               settings.GinMode,
		RequestTimeout:        settings.RequestTimeout,
		TracingEnabled:        settings.Tracing.Enabled,
		ServiceName:           settings.Tracing.ServiceName,
		MetricsEnabled:        settings.HTTP.MetricsEnabled,
		TrustedProxies:        settings.HTTP.TrustedProxies,
		CORSAllowedOrigins:    settings.HTTP.CORSAllowedOrigins,
		MaxRequestBodyBytes:   settings.HTTP.MaxRequestBodyBytes,
		HSTSEnabled:           settings.HSTSActive(),
		HSTSMaxAge:            settings.HTTP.HSTSMaxAge,
		HSTSIncludeSubdomains: settings.HTTP.HSTSIncludeSubdomains,
	}
}
