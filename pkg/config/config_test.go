// nolint: funlen
package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviefav/pkg/config"
)

func TestLoadConfig(t *testing.T) {
	t.Run("loads config from environment variables", func(t *testing.T) {
		envVars := map[string]string{
			"APP_ENV":                 "test",
			"PORT":                    "4100",
			"SENTRY_DSN":              "https://test@sentry.io/123",
			"ALLOW_ORIGINS":           "*",
			"CONSOLE_ENABLED":         "false",
			"SHUTDOWN_TIMEOUT":        "3s",
			"STORE_DRIVER":            "mongodb",
			"MONGO_CONNECTION_STRING": "mongodb://localhost:27017",
			"MONGO_DB_NAME":           "movieFav",
			"MONGO_DB_COLLECTION":     "favorites",
			"RAPIDAPI_KEY":            "secret-key",
			"SEARCH_RATE_LIMIT":       "2.5",
			"SEARCH_BREAKER_FAILURES": "3",
		}
		for key, value := range envVars {
			t.Setenv(key, value)
		}

		cfg, err := config.LoadConfig()

		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, 4100, cfg.Port)
		assert.Equal(t, "https://test@sentry.io/123", cfg.SentryDSN)
		assert.False(t, cfg.ConsoleEnabled)
		assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, config.DriverMongoDB, cfg.Store.Driver)
		assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.ConnectionString)
		assert.Equal(t, "movieFav", cfg.Mongo.DBName)
		assert.Equal(t, "favorites", cfg.Mongo.Collection)
		assert.Equal(t, "secret-key", cfg.Search.APIKey)
		assert.Equal(t, 2.5, cfg.Search.RateLimit)
		assert.Equal(t, uint32(3), cfg.Search.BreakerFailures)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := config.LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, 4000, cfg.Port)
		assert.True(t, cfg.ConsoleEnabled)
		assert.Equal(t, config.DriverMongoDB, cfg.Store.Driver)
		assert.Equal(t, "https://imdb188.p.rapidapi.com/api/v1/searchIMDB", cfg.Search.URL)
		assert.Equal(t, "imdb188.p.rapidapi.com", cfg.Search.APIHost)
		assert.Equal(t, uint32(0), cfg.Search.BreakerFailures, "breaker is off unless configured")
	})

	t.Run("handles invalid port number", func(t *testing.T) {
		t.Setenv("PORT", "invalid")

		cfg, err := config.LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "load config error")
	})

	t.Run("handles invalid boolean value", func(t *testing.T) {
		t.Setenv("ENABLE_SSL", "not-a-boolean")

		cfg, err := config.LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "load config error")
	})
}

func TestValidate(t *testing.T) {
	t.Run("mongodb requires the connection string", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Store.Driver = config.DriverMongoDB
		cfg.Mongo.DBName = "movieFav"
		cfg.Mongo.Collection = "favorites"

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "MONGO_CONNECTION_STRING")
	})

	t.Run("dynamodb requires region and table", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Store.Driver = config.DriverDynamoDB

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DDB_REGION")
		assert.Contains(t, err.Error(), "DDB_FAVORITES_TABLE")
	})

	t.Run("postgres accepts a complete config", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Store.Driver = config.DriverPostgres
		cfg.DB.Name, cfg.DB.Host, cfg.DB.User = "favorites", "localhost", "moviefav"

		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects unknown drivers", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Store.Driver = "sqlite"

		assert.Error(t, cfg.Validate())
	})
}
