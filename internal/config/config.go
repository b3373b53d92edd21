package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    Server    `yaml:"server"`
	X         X         `yaml:"x"`
	Database  Database  `yaml:"database"`
	Retention Retention `yaml:"retention"`
	S3        S3        `yaml:"s3"`
	Metrics   Metrics   `yaml:"metrics"`
	Log       Log       `yaml:"log"`
}

// S3 holds S3/MinIO report archive configuration
type S3 struct {
	Enabled         bool   `yaml:"enabled" env:"S3_ENABLED" env-default:"false"`
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET" env-default:"bot-radar"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	PublicURL       string `yaml:"public_url" env:"S3_PUBLIC_URL" env-default:"http://localhost:9000/bot-radar"`
}

// Server holds HTTP server configuration
type Server struct {
	Host         string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Address returns the full server address
func (s Server) Address() string {
	return s.Host + ":" + s.Port
}

// X holds X (Twitter) API configuration
type X struct {
	BaseURL     string        `yaml:"base_url" env:"X_BASE_URL" env-default:"https://api.twitter.com"`
	APIVersion  string        `yaml:"api_version" env:"X_API_VERSION" env-default:"2"`
	BearerToken string        `yaml:"bearer_token" env:"X_BEARER_TOKEN"`
	Timeout     time.Duration `yaml:"timeout" env:"X_TIMEOUT" env-default:"15s"`

	// Client-side rate limit; X allows 300 user lookups per 15 minutes for app auth
	RPS   float64 `yaml:"rps" env:"X_RPS" env-default:"0.33"`
	Burst int     `yaml:"burst" env:"X_BURST" env-default:"5"`
}

// Enabled reports whether profile lookups can be made
func (x X) Enabled() bool {
	return x.BearerToken != ""
}

// Database holds database configuration
type Database struct {
	// PostgreSQL; history is kept in memory when empty
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`

	// Connection pool settings
	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" env:"DB_CONN_LIFETIME" env-default:"5m"`
}

// Retention holds history retention configuration
type Retention struct {
	Enabled  bool          `yaml:"enabled" env:"RETENTION_ENABLED" env-default:"false"`
	Interval time.Duration `yaml:"interval" env:"RETENTION_INTERVAL" env-default:"1h"`
	MaxAge   time.Duration `yaml:"max_age" env:"RETENTION_MAX_AGE" env-default:"720h"`
}

// Metrics holds Prometheus configuration
type Metrics struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path" env:"METRICS_PATH" env-default:"/metrics"`
}

// Log holds logging configuration
type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// MustLoad loads configuration from environment and panics on error
func MustLoad() Config {
	// Load .env file if exists (for development)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
