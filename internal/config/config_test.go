package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:5173", cfg.Server.FrontendURL)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "users", cfg.Mongo.Collection)
	assert.Equal(t, "fixtures/users.json", cfg.Seed.Path)
	assert.Empty(t, cfg.NATS.URL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TRACKER_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("TRACKER_SERVER_FRONTENDURL", "https://app.example.com")
	t.Setenv("TRACKER_STORE_DRIVER", "SQLite")
	t.Setenv("TRACKER_STORE_TIMEOUT", "250ms")
	t.Setenv("TRACKER_SQLITE_PATH", "/tmp/users.db")
	t.Setenv("TRACKER_SEED_BUCKET", "fixtures")
	t.Setenv("TRACKER_NATS_URL", "nats://localhost:4222")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "https://app.example.com", cfg.Server.FrontendURL)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.Store.Timeout)
	assert.Equal(t, "/tmp/users.db", cfg.SQLite.Path)
	assert.Equal(t, "fixtures", cfg.Seed.Bucket)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("TRACKER_STORE_DRIVER", "firestore")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("TRACKER_STORE_TIMEOUT", "0s")

	_, err := Load()
	assert.Error(t, err)
}
