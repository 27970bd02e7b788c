// Package config reads process settings from the environment, after loading
// a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL     string
	HTTPPort        string
	LogLevel        string
	JWTSecret       string
	JWTExpiresIn    time.Duration
	MaxPayloadBytes int64
	AdminEmail      string
	AdminPassword   string
	ShutdownTimeout time.Duration
}

const (
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultJWTExpiresIn    = 24 * time.Hour
	defaultMaxPayloadBytes = 1 << 20
	defaultAdminEmail      = "admin@aescore.local"
	defaultShutdownTimeout = 10 * time.Second
)

// Load applies the .env files (missing files are fine) and then reads the
// environment. Variables already set in the environment win over .env.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the environment only.
func FromEnv() (Config, error) {
	c := Config{
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTPPort:      envOr("HTTP_PORT", defaultPort),
		LogLevel:      envOr("LOG_LEVEL", defaultLogLevel),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminEmail:    strings.ToLower(envOr("ADMIN_EMAIL", defaultAdminEmail)),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is empty"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is empty"))
	}
	if _, err := strconv.ParseUint(c.HTTPPort, 10, 16); err != nil {
		errs = append(errs, fmt.Errorf("HTTP_PORT %q: %w", c.HTTPPort, err))
	}

	var err error
	if c.JWTExpiresIn, err = durationEnv("JWT_EXPIRES_IN", defaultJWTExpiresIn); err != nil {
		errs = append(errs, err)
	}
	if c.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		errs = append(errs, err)
	}
	c.MaxPayloadBytes = defaultMaxPayloadBytes
	if s := os.Getenv("MAX_PAYLOAD_BYTES"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("MAX_PAYLOAD_BYTES %q: must be a positive integer", s))
		} else {
			c.MaxPayloadBytes = n
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return c, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s %q: must be a positive duration", key, s)
	}
	return d, nil
}
