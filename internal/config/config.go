package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/jannat-miftahul/plantnet/internal/domain"
	"github.com/jannat-miftahul/plantnet/pkg/validator"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development" validate:"oneof=development staging production"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// HTTP server
	HTTPPort int `env:"CATALOG_HTTP_PORT" envDefault:"8020"`

	// Upstream plants API
	PlantsAPIURL    string        `env:"PLANTS_API_URL" envDefault:"http://localhost:8080/api" validate:"required,url"`
	RefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL" envDefault:"5m"`

	// Storefront taxonomy. Categories are ids; display names and price
	// ranges come from the domain defaults.
	Categories []string `env:"CATALOG_CATEGORIES" envDefault:"indoor,outdoor,succulent,flowering,herbs" envSeparator:","`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"catalog-service"`

	// Redis snapshot backup
	RedisEnabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate catalog config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks invariants the struct tags cannot express.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("refresh interval too small: %s", c.RefreshInterval)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("kafka enabled but no brokers configured")
	}
	return nil
}

// Taxonomy builds the storefront taxonomy from the configured categories.
func (c *Config) Taxonomy() domain.Taxonomy {
	return domain.NewTaxonomy(c.Categories, domain.DefaultPriceRanges())
}
