package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MigrationsPath  string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type Config struct {
	App struct {
		Port string
	}
	Postgres PostgresConfig
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. Database settings are required; the rest have defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = envOrDefault("APP_PORT", "8080")

	for _, required := range []struct {
		name  string
		value *string
	}{
		{"DB_HOST", &cfg.Postgres.Host},
		{"DB_PORT", &cfg.Postgres.Port},
		{"DB_USER", &cfg.Postgres.User},
		{"DB_PASSWORD", &cfg.Postgres.Password},
		{"DB_NAME", &cfg.Postgres.DBName},
	} {
		*required.value = os.Getenv(required.name)
		if *required.value == "" {
			return nil, fmt.Errorf("%s is required", required.name)
		}
	}

	cfg.Postgres.SSLMode = envOrDefault("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = envOrDefault("DB_MIGRATIONS_PATH", "migrations")

	maxConns, err := envOrDefaultInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	minConns, err := envOrDefaultInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}
	cfg.Postgres.MaxConns = int32(maxConns)
	cfg.Postgres.MinConns = int32(minConns)
	cfg.Postgres.MaxConnLifetime = 30 * time.Minute

	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envOrDefaultInt(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return value, nil
}
