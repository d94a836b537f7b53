package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superblogger/waitlist/internal/log"
)

func TestBuildApplicationConfiguration_NotionStore(t *testing.T) {
	settings := &Settings{
		Store:        StoreNotion,
		OnQueryError: "proceed",
		LogLevel:     "error",
		Notion:       NotionSettings{APIKey: "secret_abc", DatabaseID: "db-1"},
	}

	appConfig, err := BuildApplicationConfiguration(log.NewLoggerWithJSONOutput(), settings, false)
	require.NoError(t, err)
	t.Cleanup(appConfig.Cleanup)

	assert.NotNil(t, appConfig.NotionClient)
	assert.Nil(t, appConfig.DB)
	assert.IsType(t, &MemoryCache{}, appConfig.Cache)
	assert.NotNil(t, appConfig.RouterService)
}

func TestBuildApplicationConfiguration_SQLiteStoreWithAutoMigrate(t *testing.T) {
	settings := &Settings{
		AppEnv:       "test",
		Store:        StoreSQLite,
		OnQueryError: "abort",
		Database:     DatabaseSettings{SQLitePath: "file::memory:?cache=shared"},
	}

	appConfig, err := BuildApplicationConfiguration(log.NewLoggerWithJSONOutput(), settings, true)
	require.NoError(t, err)
	t.Cleanup(appConfig.Cleanup)

	require.NotNil(t, appConfig.DB)
	assert.Nil(t, appConfig.NotionClient)
	assert.True(t, appConfig.DB.Migrator().HasTable("waitlist_entries"))
}

func TestBuildApplicationConfiguration_RejectsAutoMigrateInProduction(t *testing.T) {
	settings := &Settings{AppEnv: "production", Store: StoreSQLite, OnQueryError: "proceed"}

	_, err := BuildApplicationConfiguration(log.NewLoggerWithJSONOutput(), settings, true)
	assert.Error(t, err)
}

func TestNewRouterConfig_CarriesHTTPSettings(t *testing.T) {
	settings := &Settings{
		AppEnv: "production",
		Port:   "9090",
		HTTP: HTTPSettings{
			MetricsEnabled:      true,
			CORSAllowedOrigins:  []string{"https://superblogger.site"},
			MaxRequestBodyBytes: 2048,
			HSTSMaxAge:          60,
		},
	}

	cfg := NewRouterConfig(settings)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.HSTSEnabled)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, int64(2048), cfg.MaxRequestBodyBytes)
	assert.Equal(t, []string{"https://superblogger.site"}, cfg.CORSAllowedOrigins)
}

func TestBuildApplicationConfiguration_ShutsDownTracingOnStoreFailure(t *testing.T) {
	cases := []struct {
		name     string
		settings *Settings
	}{
		{
			name: "invalid notion base url",
			settings: &Settings{
				Store:        StoreNotion,
				OnQueryError: "proceed",
				Notion:       NotionSettings{APIKey: "secret_abc", DatabaseID: "db-1", BaseURL: "not a url"},
			},
		},
		{
			name: "unopenable sqlite file",
			settings: &Settings{
				Store:        StoreSQLite,
				OnQueryError: "proceed",
				Database:     DatabaseSettings{SQLitePath: "/nonexistent-dir/waitlist.db"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shutdowns := 0
			original := setupTracing
			setupTracing = func(*log.Logger, TracingSettings) (func(context.Context) error, error) {
				return func(context.Context) error {
					shutdowns++
					return nil
				}, nil
			}
			t.Cleanup(func() { setupTracing = original })

			appConfig, err := BuildApplicationConfiguration(log.NewLoggerWithJSONOutput(), tc.settings, false)

			assert.Error(t, err)
			assert.Nil(t, appConfig)
			assert.Equal(t, 1, shutdowns)
		})
	}
}
