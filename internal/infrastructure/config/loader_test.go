package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useConfigDir(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	saved := ConfigPaths
	ConfigPaths = []string{dir}
	t.Cleanup(func() { ConfigPaths = saved })
}

func TestLoadConfig(t *testing.T) {
	t.Run("should read the environment file and apply defaults", func(t *testing.T) {
		// Arrange
		t.Setenv("ARENA_ENV", "Test")
		useConfigDir(t, map[string]string{"test.yaml": `
store:
  driver: memory
server:
  port: 18080
  readTimeout: 5
database:
  queryTimeout: 7
ledger:
  welcomeBonus: 150
`})

		// Act
		cfg, err := LoadConfig()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, Test, cfg.Environment)
		assert.Equal(t, DriverMemory, cfg.Store.Driver)
		assert.Equal(t, 18080, cfg.Server.Port)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 7*time.Second, cfg.Database.QueryTimeout)
		assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, int64(150), cfg.Ledger.WelcomeBonus)
		assert.Equal(t, int64(10), cfg.Ledger.MinDeposit)
		assert.Equal(t, 30, cfg.Ledger.OTPCooldownSeconds)
		assert.Equal(t, int64(5000), cfg.Transaction.LockTimeoutMs)
		assert.True(t, cfg.Audit.Enabled)
	})

	t.Run("should let environment variables win over the file", func(t *testing.T) {
		// Arrange
		t.Setenv("ARENA_ENV", "test")
		t.Setenv("ARENA_STORE_DRIVER", "redis")
		t.Setenv("ARENA_REDIS_ADDR", "cache:6380")
		t.Setenv("ARENA_DB_PASSWORD", "s3cret")
		t.Setenv("ARENA_TRANSACTION_LOCK_TIMEOUT_MS", "250")
		useConfigDir(t, map[string]string{"test.yaml": "store:\n  driver: file\n"})

		// Act
		cfg, err := LoadConfig()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, DriverRedis, cfg.Store.Driver)
		assert.Equal(t, "cache:6380", cfg.Redis.Addr)
		assert.Equal(t, "s3cret", cfg.Database.Password)
		assert.Equal(t, int64(250), cfg.Transaction.LockTimeoutMs)
	})

	t.Run("should fail without a file for the environment", func(t *testing.T) {
		t.Setenv("ARENA_ENV", "staging")
		useConfigDir(t, nil)

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
