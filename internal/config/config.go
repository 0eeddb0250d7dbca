package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultPostgresDSN = "host=localhost user=postgres password=postgres dbname=milkatm port=5432 sslmode=disable"
	defaultSQLiteDSN   = "milkatm.db"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	HTTPPort       string
	DatabaseDriver string
	DatabaseDSN    string
	JWTSecret      string
	CORSOrigins    string
	LogLevel       string
	SessionTTL     time.Duration
	RememberMeTTL  time.Duration
}

// Load reads an optional .env file and the environment. Missing or weak
// secrets stop the process.
func Load(log *logrus.Logger) *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn(".env could not be read, using the process environment")
	}

	cfg, err := FromEnv()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	if cfg.DatabaseDriver == DriverPostgres && cfg.DatabaseDSN == defaultPostgresDSN {
		log.Warn("DATABASE_DSN is the default value, set your own Postgres connection for production")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		log.Warn("CORS_ALLOWED_ORIGINS is the default value, set your own domain for production")
	}
	return cfg
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	driver := strings.ToLower(getEnv("DATABASE_DRIVER", DriverPostgres))
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, driver)
	}
	defaultDSN := defaultPostgresDSN
	if driver == DriverSQLite {
		defaultDSN = defaultSQLiteDSN
	}

	sessionHours, err := getEnvInt("SESSION_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	rememberHours, err := getEnvInt("REMEMBER_ME_TTL_HOURS", 24*30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDriver: driver,
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SessionTTL:     time.Duration(sessionHours) * time.Hour,
		RememberMeTTL:  time.Duration(rememberHours) * time.Hour,
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET must be at least 32 characters")
	}
	if cfg.RememberMeTTL < cfg.SessionTTL {
		cfg.RememberMeTTL = cfg.SessionTTL
	}
	return cfg, nil
}

// CORSOriginList splits the comma separated origins.
func (c *Config) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return v, nil
}
