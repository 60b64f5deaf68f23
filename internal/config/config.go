package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds process configuration sourced from the environment.
// A local .env file is honored when present so the API can run outside
// of container orchestration during development.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8017"`
	DBURL    string `envconfig:"DB_URL" required:"true"`
	RedisURL string `envconfig:"REDIS_URL" required:"true"`

	// Release switches gin into release mode and hides error details
	// from HTTP responses.
	Release bool `envconfig:"RELEASE" default:"false"`

	QueueConcurrency int `envconfig:"QUEUE_CONCURRENCY" default:"10"`
}

// Load reads .env (best effort) and binds environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
