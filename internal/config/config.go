package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

// Config is the service configuration, read from the environment (a local
// .env file is autoloaded by main).
type Config struct {
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// StoreDriver selects the document store: dynamodb or memory.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"dynamodb"`

	// StrictTransitions rejects status overwrites of already decided records.
	StrictTransitions bool `env:"LIFECYCLE_STRICT_TRANSITIONS" envDefault:"false"`

	AWS    AWSConfig
	Tables TablesConfig
}

// AWSConfig holds DynamoDB connection settings. Local DynamoDB does not
// validate credentials, but the AWS SDK requires them.
type AWSConfig struct {
	Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:"local"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:"local"`
	Endpoint        string `env:"DYNAMODB_ENDPOINT"`
}

type TablesConfig struct {
	Quotes   string `env:"QUOTES_TABLE" envDefault:"quotes"`
	Orders   string `env:"ORDERS_TABLE" envDefault:"orders"`
	Invoices string `env:"INVOICES_TABLE" envDefault:"invoices"`
	Guards   string `env:"GUARDS_TABLE" envDefault:"lifecycle_guards"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case StoreDynamoDB, StoreMemory:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return Config{}, fmt.Errorf("invalid HTTP_PORT %d", cfg.HTTPPort)
	}
	return cfg, nil
}
