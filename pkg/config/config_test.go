package config_test

import (
	"testing"
	"time"

	"github.com/chrisdamba/flighttrouble/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Address)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "flights", cfg.Database.Name)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":8080")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_DB", "flights_test")
	t.Setenv("MAX_CONNS", "10")
	t.Setenv("FLIGHT_CACHE_TTL", "30s")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.DSN(), "dbname=flights_test")
	assert.Contains(t, cfg.Database.DSN(), "pool_max_conns=10")
}

func TestNewConfigBadDuration(t *testing.T) {
	t.Setenv("SERVER_WRITE_TIMEOUT", "not-a-duration")

	_, err := config.NewConfig()
	assert.Error(t, err)
}
