package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMongoDB  = "mongodb"
	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv          string        `envconfig:"APP_ENV"`
	Port            int           `envconfig:"PORT" default:"4000"`
	SentryDSN       string        `envconfig:"SENTRY_DSN"`
	AllowOrigins    string        `envconfig:"ALLOW_ORIGINS"`
	StaticDir       string        `envconfig:"STATIC_DIR"`
	ConsoleEnabled  bool          `envconfig:"CONSOLE_ENABLED" default:"true"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	Store struct {
		Driver string `envconfig:"STORE_DRIVER" default:"mongodb"`
	}
	Mongo struct {
		ConnectionString string `envconfig:"MONGO_CONNECTION_STRING"`
		DBName           string `envconfig:"MONGO_DB_NAME"`
		Collection       string `envconfig:"MONGO_DB_COLLECTION"`
	}
	DB struct {
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT" default:"5432"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	DynamoDB struct {
		Region         string `envconfig:"DDB_REGION"`
		Endpoint       string `envconfig:"DDB_ENDPOINT"`
		AccessKey      string `envconfig:"DDB_ACCESS_KEY"`
		SecretKey      string `envconfig:"DDB_SECRET_KEY"`
		SessionToken   string `envconfig:"DDB_SESSION_TOKEN"`
		FavoritesTable string `envconfig:"DDB_FAVORITES_TABLE"`
	}
	Search struct {
		URL             string        `envconfig:"SEARCH_API_URL" default:"https://imdb188.p.rapidapi.com/api/v1/searchIMDB"`
		APIKey          string        `envconfig:"RAPIDAPI_KEY"`
		APIHost         string        `envconfig:"RAPIDAPI_HOST" default:"imdb188.p.rapidapi.com"`
		RateLimit       float64       `envconfig:"SEARCH_RATE_LIMIT"`
		RateBurst       int           `envconfig:"SEARCH_RATE_BURST" default:"1"`
		BreakerFailures uint32        `envconfig:"SEARCH_BREAKER_FAILURES" default:"0"`
		BreakerTimeout  time.Duration `envconfig:"SEARCH_BREAKER_TIMEOUT" default:"30s"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env files, ignore the error
	_ = godotenv.Load()
	_ = godotenv.Load("credentials/.env")

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}

// Validate checks the keys the selected store driver cannot start without.
func (c *Config) Validate() error {
	var missing []string
	require := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	switch c.Store.Driver {
	case DriverMongoDB:
		require("MONGO_CONNECTION_STRING", c.Mongo.ConnectionString)
		require("MONGO_DB_NAME", c.Mongo.DBName)
		require("MONGO_DB_COLLECTION", c.Mongo.Collection)
	case DriverDynamoDB:
		require("DDB_REGION", c.DynamoDB.Region)
		require("DDB_FAVORITES_TABLE", c.DynamoDB.FavoritesTable)
	case DriverPostgres:
		require("DB_NAME", c.DB.Name)
		require("DB_HOST", c.DB.Host)
		require("DB_USER", c.DB.User)
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if len(missing) > 0 {
		return errors.New("config: missing required " + strings.Join(missing, ", "))
	}
	return nil
}
