package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	Environment string   `env:"ENVIRONMENT" envDefault:"dev"`
	CORSOrigins []string `env:"ALLOW_ORIGIN" envSeparator:"," envDefault:"http://localhost:3000"`

	// Document store
	StoreDriver      string        `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoHost        string        `env:"MONGO_HOST" envDefault:"localhost"`
	MongoPort        int           `env:"MONGO_PORT" envDefault:"27017"`
	MongoUser        string        `env:"MONGO_USER"`
	MongoPassword    string        `env:"MONGO_PASSWORD"`
	MongoDB          string        `env:"MONGO_DB" envDefault:"assistant"`
	MongoTimeout     time.Duration `env:"MONGO_TIMEOUT" envDefault:"10s"`
	CollectionPrefix string        `env:"COLLECTION_PREFIX"`

	// LLM Configuration
	APIBaseURL            string        `env:"API_BASE_URL"`
	APIKey                string        `env:"API_KEY"`
	ModelName             string        `env:"MODEL_NAME" envDefault:"gpt-4o-mini"`
	GenerationMaxTokens   int           `env:"GENERATION_MAX_TOKENS" envDefault:"1024"`
	GenerationTemperature float32       `env:"GENERATION_TEMPERATURE" envDefault:"1.2"`
	GenerationRateLimit   int           `env:"GENERATION_RATE_LIMIT" envDefault:"10"`
	GenerationRateWindow  time.Duration `env:"GENERATION_RATE_WINDOW" envDefault:"60s"`
	StreamKeepAlive       time.Duration `env:"STREAM_KEEPALIVE" envDefault:"10s"`

	// Logging
	LogDir      string `env:"LOG_DIR"`
	LogMaxFiles int    `env:"LOG_MAX_FILES" envDefault:"10"`

	// Debug flags
	Debug bool `env:"DEBUG"`
}

// Load reads .env files for the current environment and parses the process
// environment. Variables already set take precedence over file values.
func Load() (*Config, error) {
	loadEnvFiles(getEnv("ENVIRONMENT", "dev"))

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	if _, ok := os.LookupEnv("COLLECTION_PREFIX"); !ok {
		cfg.CollectionPrefix = getCollectionPrefix(cfg.Environment)
	}
	if _, ok := os.LookupEnv("DEBUG"); !ok {
		cfg.Debug = cfg.Environment != "prod"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads .env.<environment> and then .env. Production relies on
// the real environment only. Missing files are ignored.
func loadEnvFiles(environment string) {
	if environment == "prod" {
		return
	}
	_ = godotenv.Load(".env." + environment)
	_ = godotenv.Load()
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.Environment {
	case "dev", "test", "prod":
	default:
		result = multierror.Append(result, fmt.Errorf("ENVIRONMENT must be dev, test or prod, got %q", c.Environment))
	}

	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoHost == "" {
			result = multierror.Append(result, errors.New("MONGO_HOST is required for the mongo store"))
		}
		if c.MongoPort <= 0 || c.MongoPort > 65535 {
			result = multierror.Append(result, fmt.Errorf("MONGO_PORT out of range: %d", c.MongoPort))
		}
		if c.MongoDB == "" {
			result = multierror.Append(result, errors.New("MONGO_DB is required for the mongo store"))
		}
	case StoreMemory:
	default:
		result = multierror.Append(result, fmt.Errorf("STORE_DRIVER must be %s or %s, got %q", StoreMongo, StoreMemory, c.StoreDriver))
	}

	if c.GenerationMaxTokens <= 0 {
		result = multierror.Append(result, fmt.Errorf("GENERATION_MAX_TOKENS must be positive, got %d", c.GenerationMaxTokens))
	}
	if c.GenerationTemperature < 0 || c.GenerationTemperature > 2 {
		result = multierror.Append(result, fmt.Errorf("GENERATION_TEMPERATURE must be within [0, 2], got %v", c.GenerationTemperature))
	}
	if c.GenerationRateLimit <= 0 {
		result = multierror.Append(result, fmt.Errorf("GENERATION_RATE_LIMIT must be positive, got %d", c.GenerationRateLimit))
	}
	if c.GenerationRateWindow <= 0 {
		result = multierror.Append(result, fmt.Errorf("GENERATION_RATE_WINDOW must be positive, got %s", c.GenerationRateWindow))
	}
	if c.StreamKeepAlive < 0 {
		result = multierror.Append(result, fmt.Errorf("STREAM_KEEPALIVE must not be negative, got %s", c.StreamKeepAlive))
	}
	if c.Environment == "prod" && c.APIKey == "" {
		result = multierror.Append(result, errors.New("API_KEY is required in prod"))
	}

	return result.ErrorOrNil()
}

// getCollectionPrefix returns the collection prefix based on environment.
// Production collections carry no prefix so existing data stays addressable.
func getCollectionPrefix(env string) string {
	switch env {
	case "prod":
		return ""
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
