// Package config loads runtime settings from the environment and holds the
// domain constants shared by services.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// HTTPConfig describes the HTTP server.
type HTTPConfig struct {
	Port         string        `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// Addr returns the listen address, accepting both "8080" and ":8080".
func (h HTTPConfig) Addr() string {
	if h.Port == "" {
		return ":8080"
	}
	if h.Port[0] == ':' {
		return h.Port
	}
	return ":" + h.Port
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"168h"`
}

// EmailConfig is the SMTP relay. An empty Host disables real delivery.
type EmailConfig struct {
	Host     string `env:"EMAIL_HOST"`
	Port     int    `env:"EMAIL_PORT" envDefault:"587"`
	User     string `env:"EMAIL_USER"`
	Password string `env:"EMAIL_PASSWORD"`
	// From falls back to User.
	From string `env:"EMAIL_FROM"`
}

func (e EmailConfig) Enabled() bool {
	return e.Host != ""
}

// S3Config points at the bucket holding message attachments.
type S3Config struct {
	Bucket    string `env:"S3_BUCKET"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	Endpoint  string `env:"S3_ENDPOINT"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
}

func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Config aggregates every setting of the service.
type Config struct {
	Env              string `env:"ENV" envDefault:"dev"`
	HTTP             HTTPConfig
	DBDSN            string `env:"DB_DSN" envDefault:"host=localhost user=user password=password dbname=alumnihub port=5432 sslmode=disable"`
	Redis            RedisConfig
	JWT              JWTConfig
	FrontendURL      string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	Email            EmailConfig
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	S3               S3Config
	// CORSOrigins defaults to FrontendURL.
	CORSOrigins []string `env:"CORS_ORIGINS"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	if cfg.Email.From == "" {
		cfg.Email.From = cfg.Email.User
	}
	cfg.CORSOrigins = cleanList(cfg.CORSOrigins)
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{cfg.FrontendURL}
	}
	return &cfg, nil
}

// Validate rejects settings that are unsafe to run with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		if c.Env == "prod" {
			return errors.New("JWT_SECRET must be set in prod")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

func cleanList(in []string) []string {
	var out []string
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
