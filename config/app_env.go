package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/superblogger/waitlist/internal/log"
)

// dotenvSettings is read before anything else, so it cannot come from the .env file itself.
type dotenvSettings struct {
	Skip bool   `env:"SKIP_DOTENV"`
	Path string `env:"DOTENV_PATH" envDefault:".env"`
}

// InitializeEnvFile copies DOTENV_PATH (default .env) into the process environment.
// Variables that are already set win over the file. It reports whether a file was loaded.
func InitializeEnvFile(logger *log.Logger) bool {
	opts, err := env.ParseAs[dotenvSettings]()
	if err != nil {
		logger.Warn("Invalid dotenv settings; skipping .env file", "error", err.Error())
		return false
	}

	if opts.Skip {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return false
	}

	if err := godotenv.Load(opts.Path); err != nil {
		logger.Warn("No .env file loaded", "path", opts.Path, "error", err.Error())
		return false
	}

	logger.Info("Environment variables loaded from .env file", "path", opts.Path)
	return true
}
