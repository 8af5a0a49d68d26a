package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port string

	DBProvider  string // "postgres" or "mysql"
	DatabaseDSN string

	JWT    JWTConfig
	Images ImageConfig
	SMTP   SMTPConfig

	FrontendURL string
	BackendURL  string

	CacheCapacity int
}

type JWTConfig struct {
	Secret              string
	Issuer              string
	Audience            string
	AccessTokenMinutes  int
	RefreshTokenMinutes int
}

type ImageConfig struct {
	MaxBytes     int
	JPEGQuality  int
	AllowedTypes []string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        envOr("PORT", "3000"),
		DBProvider:  envOr("DB_PROVIDER", "postgres"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		JWT: JWTConfig{
			Secret:              os.Getenv("JWT_SECRET"),
			Issuer:              envOr("JWT_ISSUER", "gamehub"),
			Audience:            envOr("JWT_AUDIENCE", "gamehub"),
			AccessTokenMinutes:  envIntOr("JWT_ACCESS_MINUTES", 15),
			RefreshTokenMinutes: envIntOr("JWT_REFRESH_MINUTES", 10080),
		},
		Images: ImageConfig{
			MaxBytes:     envIntOr("IMAGE_MAX_BYTES", 5*1024*1024),
			JPEGQuality:  envIntOr("IMAGE_JPEG_QUALITY", 75),
			AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png"},
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envIntOr("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOr("SMTP_FROM", "no-reply@gamehub.dev"),
		},
		FrontendURL:   envOr("FRONTEND_URL", "http://localhost:5173"),
		BackendURL:    envOr("BACKEND_URL", "http://localhost:3000"),
		CacheCapacity: envIntOr("CACHE_CAPACITY", 500),
	}

	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN environment variable is not set")
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}
