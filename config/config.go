package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting of the API, read from the environment
type Config struct {
	Postgres  PostgresConfig
	HTTP      HTTPConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Rounds    RoundPolicy
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	DB       string `env:"POSTGRES_DB" envDefault:"hackathon"`
	TimeZone string `env:"POSTGRES_TIMEZONE" envDefault:"UTC"`
}

// DSN builds the connection string used by the postgres driver
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable TimeZone=%s",
		p.Host, p.Port, p.User, p.DB, p.Password, p.TimeZone)
}

type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
}

// RateLimitConfig configures the per-client token bucket
type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RATE_LIMIT_RPS" envDefault:"100"`
	Burst             int     `env:"RATE_LIMIT_BURST" envDefault:"150"`
}

// Load reads an optional .env file then parses the environment
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	// a missing .env file is fine, the environment may already be populated
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Rounds.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
