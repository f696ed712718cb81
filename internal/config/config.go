package config

import (
	"strings"
	"time"

	"github.com/utafrali/catalog-readpath/pkg/config"
)

// Config holds the full service configuration, loaded from the environment.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8085"`

	// SearchEngine selects the primary backend: "elasticsearch" or "memory"
	// (the latter for local development without a cluster).
	SearchEngine string `env:"SEARCH_ENGINE" envDefault:"elasticsearch"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	Elasticsearch ElasticsearchConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Cache         CacheConfig
}

// ElasticsearchConfig configures the search engine backend.
type ElasticsearchConfig struct {
	URL   string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	Index string `env:"ELASTICSEARCH_INDEX" envDefault:"catalog_entries"`
}

// PostgresConfig configures the system-of-record connection.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"catalog"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"catalog_secret"`
	DBName   string `env:"POSTGRES_DB" envDefault:"catalog"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// RedisConfig configures the response cache store.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// KafkaConfig configures the catalog event consumers. An empty broker list
// disables consumption.
type KafkaConfig struct {
	Brokers string `env:"KAFKA_BROKERS" envDefault:""`
	GroupID string `env:"KAFKA_GROUP_ID" envDefault:"catalog-readpath"`
}

// BrokerList splits the comma-separated broker string, dropping empties.
func (c KafkaConfig) BrokerList() []string {
	if c.Brokers == "" {
		return nil
	}
	parts := strings.Split(c.Brokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

// CacheConfig configures the response cache layer.
type CacheConfig struct {
	Enabled   bool          `env:"CACHE_ENABLED" envDefault:"true"`
	SearchTTL time.Duration `env:"CACHE_SEARCH_TTL" envDefault:"60s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
