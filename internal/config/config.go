package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port         string        `env:"PORT" envDefault:"8009"`
	RedisURL     string        `env:"REDIS_URL"` // empty disables the result cache
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	JWTSecret    string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	AuthDisabled bool          `env:"AUTH_DISABLED" envDefault:"false"`
	CORSOrigins  string        `env:"CORS_ORIGINS" envDefault:"*"`
	BatchWorkers int           `env:"BATCH_WORKERS" envDefault:"4"`
	MaxBodyBytes int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
	Dev      bool   `env:"DEV" envDefault:"false"`
}

// Load reads a .env file from the working directory if one exists, then
// parses configuration from the environment. Variables already set in the
// environment win over the file.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit .env paths. Missing files are skipped.
func LoadFiles(paths ...string) (*Config, error) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.BatchWorkers < 1 {
		return nil, fmt.Errorf("BATCH_WORKERS must be at least 1, got %d", cfg.BatchWorkers)
	}
	if cfg.MaxBodyBytes < 1 {
		return nil, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}
	return cfg, nil
}
