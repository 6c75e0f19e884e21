package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Service    Service
	Database   Database
	Auth       Auth
	SQS        SQS
	Consumer   Consumer
	ClickHouse ClickHouse
	Redis      Redis
}

type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	Host        string `envconfig:"SERVICE_HOST" default:"localhost:8080"`
}

type Database struct {
	Driver          string `envconfig:"DATABASE_DRIVER" default:"sqlite3"`
	DSN             string `envconfig:"DATABASE_DSN" default:"file:stats.db?_busy_timeout=5000"`
	MaxOpenConns    int    `envconfig:"DATABASE_MAX_OPEN_CONNS" default:"10"`
	ConnMaxLifetime int    `envconfig:"DATABASE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// Auth holds the shared secret checked against the X-API-Key header.
// An empty secret disables the check.
type Auth struct {
	APIKey string `envconfig:"AUTH_API_KEY"`
}

type SQS struct {
	Endpoint string `envconfig:"SQS_ENDPOINT"`
	QueueURL string `envconfig:"SQS_QUEUE_URL"`
	Region   string `envconfig:"SQS_REGION" default:"eu-central-1"`
}

// Enabled reports whether async ingestion is configured.
func (s SQS) Enabled() bool {
	return s.QueueURL != ""
}

type Consumer struct {
	BatchSizeMax    int    `envconfig:"CONSUMER_BATCH_SIZE_MAX" default:"50"`
	BatchTimeoutSec int    `envconfig:"CONSUMER_BATCH_TIMEOUT_SEC" default:"5"`
	HealthCheckPort string `envconfig:"CONSUMER_HEALTH_CHECK_PORT" default:"8081"`
}

type ClickHouse struct {
	Host            string `envconfig:"CLICKHOUSE_HOST"`
	Port            string `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	Database        string `envconfig:"CLICKHOUSE_DB" default:"default"`
	User            string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password        string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	UseTLS          bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// Enabled reports whether the event archive is configured.
func (c ClickHouse) Enabled() bool {
	return c.Host != ""
}

type Redis struct {
	Addr         string        `envconfig:"REDIS_ADDR"`
	Password     string        `envconfig:"REDIS_PASSWORD"`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	DashboardTTL time.Duration `envconfig:"REDIS_DASHBOARD_TTL" default:"30s"`
}

// Enabled reports whether the dashboard cache is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Consumer.BatchSizeMax <= 0 {
		return nil, fmt.Errorf("CONSUMER_BATCH_SIZE_MAX must be positive, got %d", cfg.Consumer.BatchSizeMax)
	}

	return &cfg, nil
}
