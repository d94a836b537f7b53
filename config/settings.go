package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/superblogger/waitlist/pkg/constants"
)

const (
	StoreNotion   = "notion"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Settings is the whole process configuration. It is parsed once at startup and passed
// down explicitly; nothing below config reads the environment.
type Settings struct {
	AppEnv         string        `env:"APP_ENV"`
	Port           string        `env:"APP_PORT" envDefault:"8080"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	GinMode        string        `env:"GIN_MODE"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Store selects the record store backend: notion, postgres or sqlite.
	Store string `env:"WAITLIST_STORE" envDefault:"notion"`
	// OnQueryError decides what a failed duplicate check does: proceed or abort.
	OnQueryError string `env:"WAITLIST_ON_QUERY_ERROR" envDefault:"proceed"`

	Notion   NotionSettings
	Database DatabaseSettings
	Cache    CacheSettings
	Preview  PreviewSettings
	Tracing  TracingSettings
	HTTP     HTTPSettings
}

type NotionSettings struct {
	APIKey     string `env:"NOTION_API_KEY"`
	DatabaseID string `env:"NOTION_WAITLIST_DATABASE_ID"`
	BaseURL    string `env:"NOTION_API_BASE_URL" envDefault:"https://api.notion.com/v1"`
	Version    string `env:"NOTION_VERSION" envDefault:"2022-06-28"`
}

type DatabaseSettings struct {
	// URL takes precedence over the discrete POSTGRES_* values.
	URL             string        `env:"APP_DATABASE_URL"`
	Host            string        `env:"POSTGRES_HOST"`
	Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
	User            string        `env:"POSTGRES_USER"`
	Password        string        `env:"POSTGRES_PASSWORD"`
	Name            string        `env:"POSTGRES_DB_NAME"`
	SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"require"`
	SQLitePath      string        `env:"SQLITE_PATH" envDefault:"waitlist.db"`
	// MigrationsDir overrides the embedded SQL migrations for `cli migrate`.
	MigrationsDir   string        `env:"MIGRATIONS_DIR"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1m"`
}

type CacheSettings struct {
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
}

type PreviewSettings struct {
	CacheTTL time.Duration `env:"OG_CACHE_TTL" envDefault:"24h"`
}

type TracingSettings struct {
	Enabled      bool   `env:"OTEL_TRACES_ENABLED" envDefault:"false"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"superblogger-waitlist"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"http://localhost:4318"`
}

type HTTPSettings struct {
	MetricsEnabled        bool     `env:"METRICS_ENABLED" envDefault:"true"`
	TrustedProxies        []string `env:"TRUSTED_PROXIES" envSeparator:","`
	CORSAllowedOrigins    []string `env:"CORS_ALLOWED_ORIGIN" envSeparator:","`
	MaxRequestBodyBytes   int64    `env:"MAX_REQUEST_BODY_BYTES" envDefault:"1048576"`
	HSTSEnabled           string   `env:"HSTS_ENABLED"`
	HSTSMaxAge            int64    `env:"HSTS_MAX_AGE" envDefault:"31536000"`
	HSTSIncludeSubdomains bool     `env:"HSTS_INCLUDE_SUBDOMAINS" envDefault:"true"`
}

// LoadSettings parses the process environment. Call InitializeEnvFile first so .env values
// are visible.
func LoadSettings() (*Settings, error) {
	settings := &Settings{}
	if err := env.Parse(settings); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	settings.normalize()

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

func (s *Settings) normalize() {
	s.AppEnv = strings.ToLower(strings.TrimSpace(s.AppEnv))
	s.Store = strings.ToLower(strings.TrimSpace(s.Store))
	s.OnQueryError = strings.ToLower(strings.TrimSpace(s.OnQueryError))

	s.Notion.APIKey = sanitizeEnv(s.Notion.APIKey)
	s.Notion.DatabaseID = sanitizeEnv(s.Notion.DatabaseID)
	s.Database.URL = sanitizeEnv(s.Database.URL)
	s.Database.Host = sanitizeEnv(s.Database.Host)
	s.Database.User = sanitizeEnv(s.Database.User)
	s.Database.Password = sanitizeEnv(s.Database.Password)
	s.Database.Name = sanitizeEnv(s.Database.Name)
	s.Database.MigrationsDir = strings.TrimSpace(s.Database.MigrationsDir)

	if s.RequestTimeout <= 0 {
		s.RequestTimeout = constants.DefaultRequestTimeout
	}
}

// Validate reports startup-level misconfiguration. Credentials for the selected store are
// required here so that a bad deployment never starts serving requests.
func (s *Settings) Validate() error {
	switch s.OnQueryError {
	case "proceed", "abort":
	default:
		return fmt.Errorf("invalid WAITLIST_ON_QUERY_ERROR %q (allowed: proceed, abort)", s.OnQueryError)
	}

	missing := []string{}

	switch s.Store {
	case StoreNotion:
		if s.Notion.APIKey == "" {
			missing = append(missing, "NOTION_API_KEY")
		}
		if s.Notion.DatabaseID == "" {
			missing = append(missing, "NOTION_WAITLIST_DATABASE_ID")
		}
	case StorePostgres:
		if s.Database.URL == "" {
			if s.Database.Host == "" {
				missing = append(missing, "POSTGRES_HOST")
			}
			if s.Database.User == "" {
				missing = append(missing, "POSTGRES_USER")
			}
			if s.Database.Name == "" {
				missing = append(missing, "POSTGRES_DB_NAME")
			}
		}
	case StoreSQLite:
		if strings.TrimSpace(s.Database.SQLitePath) == "" {
			missing = append(missing, "SQLITE_PATH")
		}
	default:
		return fmt.Errorf("invalid WAITLIST_STORE %q (allowed: %s, %s, %s)", s.Store, StoreNotion, StorePostgres, StoreSQLite)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars for %s store: %s", s.Store, strings.Join(missing, ", "))
	}

	return nil
}

// HSTSActive resolves the HSTS default: on in production unless HSTS_ENABLED says otherwise.
func (s *Settings) HSTSActive() bool {
	if raw := strings.TrimSpace(s.HTTP.HSTSEnabled); raw != "" {
		if enabled, err := strconv.ParseBool(raw); err == nil {
			return enabled
		}
	}
	return s.AppEnv == "production" || s.AppEnv == "prod"
}

// AutoMigrateAllowed rejects --auto-migrate outside development-like APP_ENV values, so a
// production process never alters its schema on boot.
func (s *Settings) AutoMigrateAllowed() error {
	switch appEnv := strings.ToLower(strings.TrimSpace(s.AppEnv)); appEnv {
	case "", "dev", "development", "local", "test", "testing":
		return nil
	default:
		return fmt.Errorf("--auto-migrate is not allowed when APP_ENV=%q (allowed: \"\", dev, development, local, test, testing)", appEnv)
	}
}

func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	return s
}
