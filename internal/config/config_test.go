package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/northwind-orders/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "northwind")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("DB_MAX_CONNS", "20")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "require", cfg.Postgres.SSLMode)
	assert.Equal(t, int32(20), cfg.Postgres.MaxConns)
	assert.Equal(t, int32(2), cfg.Postgres.MinConns)
	assert.Equal(t, "migrations", cfg.Postgres.MigrationsPath)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_SSLMODE", "")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "")

	_, err := config.Load("")
	assert.ErrorContains(t, err, "DB_HOST is required")
}

func TestLoadBadInteger(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_CONNS", "lots")

	_, err := config.Load("")
	assert.ErrorContains(t, err, "DB_MAX_CONNS")
}
