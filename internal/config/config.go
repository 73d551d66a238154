package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid marks configuration values that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Port string

	// Storage
	DatabasePath string

	// Auth for write endpoints; empty disables it
	APIKey string

	// Upload limits
	MaxUploadBytes int64

	// Engine options file (TOML); empty uses built-in defaults
	EngineConfigPath string

	// HTTP server
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logging
	LogLevel string

	// PDF
	PDFFallbackPdftotext bool
}

const (
	defaultMaxUploadBytes = 20 << 20 // 20MB
	defaultReadTimeout    = 30 * time.Second
	defaultWriteTimeout   = 60 * time.Second
)

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DatabasePath: envOr("DATABASE_PATH", "recipes.db"),

		APIKey: os.Getenv("RECIPEBOX_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),

		EngineConfigPath: os.Getenv("ENGINE_CONFIG"),

		ReadTimeout:  envDuration("READ_TIMEOUT", defaultReadTimeout),
		WriteTimeout: envDuration("WRITE_TIMEOUT", defaultWriteTimeout),

		LogLevel: envOr("LOG_LEVEL", "info"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	return cfg
}

func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: PORT must be a number between 1 and 65535, got %q", ErrInvalid, c.Port)
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("%w: DATABASE_PATH is required", ErrInvalid)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: LOG_LEVEL %q", ErrInvalid, s)
	}
	return level, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
