package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config carries the application-level settings. Match rule sets are
// per-match and travel with the match itself; these are only the process
// defaults and runtime knobs.
type Config struct {
	App struct {
		Env      string
		LogLevel string
	}
	Defaults struct {
		Format         string
		Overs          int
		PlayersPerSide int
	}
}

var appConfig *Config
var once sync.Once

// LoadConfig loads configuration from environment variables into the Config
// struct. It's designed to be called once.
func LoadConfig() (*Config, error) {
	// Load .env file. It's okay if it doesn't exist, especially in
	// production where env vars are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.Defaults.Format = getEnv("DEFAULT_FORMAT", "T20")

	var err error
	cfg.Defaults.Overs, err = getEnvAsInt("DEFAULT_OVERS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_OVERS: %w", err)
	}
	cfg.Defaults.PlayersPerSide, err = getEnvAsInt("DEFAULT_PLAYERS_PER_SIDE", 11)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_PLAYERS_PER_SIDE: %w", err)
	}

	appConfig = cfg
	return cfg, nil
}

// Initialize loads the configuration once.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		_, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
		}
	})
	return loadErr
}

// GetConfig returns the loaded application configuration. Call Initialize
// first.
func GetConfig() *Config {
	if appConfig == nil {
		panic("configuration not loaded; call config.Initialize() first")
	}
	return appConfig
}

// Level parses the configured log level, falling back to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.App.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as an integer or return a
// default value.
func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got '%s'", key, valueStr)
	}
	return value, nil
}
