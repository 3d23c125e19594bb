package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/config"
)

func validConfig() *Config {
	return &Config{
		Driver:        "postgres",
		Host:          "localhost",
		Port:          5432,
		Username:      "arena",
		Password:      "secret",
		Database:      "arena",
		SSLMode:       "disable",
		MaxOpenConns:  10,
		MaxIdleConns:  5,
		QueryTimeout:  5 * time.Second,
		LogLevel:      "info",
		RetryAttempts: 3,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing host", mutate: func(c *Config) { c.Host = "" }, wantErr: "host"},
		{name: "port out of range", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "port"},
		{name: "missing password", mutate: func(c *Config) { c.Password = "" }, wantErr: "password"},
		{name: "other driver", mutate: func(c *Config) { c.Driver = "mysql" }, wantErr: "driver"},
		{name: "bad ssl mode", mutate: func(c *Config) { c.SSLMode = "maybe" }, wantErr: "SSL"},
		{name: "no connections", mutate: func(c *Config) { c.MaxOpenConns = 0 }, wantErr: "open connections"},
		{name: "no timeout", mutate: func(c *Config) { c.QueryTimeout = 0 }, wantErr: "timeout"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()

			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	assert.Equal(t,
		"host=localhost port=5432 user=arena password=secret dbname=arena sslmode=disable",
		validConfig().DSN())
}

func TestCreateConfigFromViperConfig(t *testing.T) {
	t.Setenv("ARENA_DB_HOST", "")
	t.Setenv("ARENA_DB_PASSWORD", "from-env")

	conf := &config.Config{}
	conf.Database.Host = "db.internal"
	conf.Database.Port = "6543"
	conf.Database.Password = "from-file"
	conf.Database.SSLMode = "require"
	conf.Database.QueryTimeout = 3 * time.Second
	conf.Logger.Level = "warn"

	dbConf := CreateConfigFromViperConfig(conf)

	assert.Equal(t, "db.internal", dbConf.Host)
	assert.Equal(t, 5432, dbConf.Port)
	assert.Equal(t, "from-env", dbConf.Password)
	assert.Equal(t, "require", dbConf.SSLMode)
	assert.Equal(t, 3*time.Second, dbConf.QueryTimeout)
	assert.Equal(t, "warn", dbConf.LogLevel)
}

func TestParsePort(t *testing.T) {
	assert.Equal(t, 5432, ParsePort("5432"))
	assert.Zero(t, ParsePort("0"))
	assert.Zero(t, ParsePort("http"))
	assert.Zero(t, ParsePort("99999"))
}
