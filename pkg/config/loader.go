package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from the process environment using `env` struct tags,
// falling back to `envDefault` values for unset variables.
//
// Example:
//
//	type Config struct {
//	    SearchURL string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
//	    HTTPPort  int    `env:"HTTP_PORT" envDefault:"8085"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
