package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DATABASE_URL", "DB_HOST", "EVENTS_ENABLED", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, "hotel.changes", cfg.Events.Queue)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("EVENTS_ENABLED", "yes")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
}

func TestDBConfig_DSN(t *testing.T) {
	t.Run("mysql with password", func(t *testing.T) {
		dsn, err := DBConfig{Driver: "mysql", User: "app", Pass: "secret", Host: "db", Port: "3306", Name: "hotel"}.DSN()
		require.NoError(t, err)
		assert.Equal(t, "app:secret@tcp(db:3306)/hotel?charset=utf8mb4&parseTime=false", dsn)
	})

	t.Run("mysql without password", func(t *testing.T) {
		dsn, err := DBConfig{Driver: "mysql", User: "root", Host: "localhost", Port: "3306", Name: "hotel"}.DSN()
		require.NoError(t, err)
		assert.Equal(t, "root@tcp(localhost:3306)/hotel?charset=utf8mb4&parseTime=false", dsn)
	})

	t.Run("postgres", func(t *testing.T) {
		dsn, err := DBConfig{Driver: "postgres", User: "app", Pass: "pw", Host: "pg", Port: "5432", Name: "hotel"}.DSN()
		require.NoError(t, err)
		assert.Equal(t, "host=pg port=5432 user=app dbname=hotel sslmode=disable password=pw", dsn)
	})

	t.Run("url wins", func(t *testing.T) {
		dsn, err := DBConfig{Driver: "mysql", URL: "u:p@tcp(x:1)/y", Host: "ignored"}.DSN()
		require.NoError(t, err)
		assert.Equal(t, "u:p@tcp(x:1)/y", dsn)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := DBConfig{Driver: "oracle"}.DSN()
		assert.Error(t, err)
	})
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	c := LoadRateLimitConfig()

	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 10*time.Second, c.TTL)
	assert.False(t, c.Enabled)
}

func TestLoadCacheConfig_Methods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head ,")

	c := LoadCacheConfig()

	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, c.Methods)
	assert.Equal(t, 30*time.Second, c.TTL)
}

func TestLoadRedisConfig_HostPortWins(t *testing.T) {
	t.Setenv("REDIS_ADDR", "elsewhere:1")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	assert.Equal(t, "cache:6380", LoadRedisConfig().Addr)
}
