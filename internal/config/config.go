// Package config builds cache settings from an optional .env file and the
// process environment, and sets up logging.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourusername/minicache/pkg/cache"
)

// Environment variables recognised by Load.
const (
	EnvCleanupIntervalMs = "MINICACHE_CLEANUP_INTERVAL_MS"
	EnvExpiryIndex       = "MINICACHE_EXPIRY_INDEX"
	EnvLogLevel          = "MINICACHE_LOG_LEVEL"
)

var (
	ErrInvalidInterval = errors.New("config: invalid cleanup interval")
	ErrInvalidValue    = errors.New("config: invalid value")
)

// Config is the resolved process configuration.
type Config struct {
	Cache    cache.Config
	LogLevel slog.Level
}

// Load reads path (skipped when empty or missing) and then lets the process
// environment override anything the file set.
func Load(path string) (Config, error) {
	values := map[string]string{}
	if path != "" {
		fileValues, err := godotenv.Read(path)
		switch {
		case err == nil:
			values = fileValues
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	for _, key := range []string{EnvCleanupIntervalMs, EnvExpiryIndex, EnvLogLevel} {
		if v, ok := os.LookupEnv(key); ok {
			values[key] = v
		}
	}
	return Parse(values)
}

// Parse builds a Config from raw key/value pairs. Missing keys keep defaults.
func Parse(values map[string]string) (Config, error) {
	cfg := Config{
		Cache:    cache.Config{CleanupInterval: cache.DefaultCleanupInterval},
		LogLevel: slog.LevelInfo,
	}

	if raw := strings.TrimSpace(values[EnvCleanupIntervalMs]); raw != "" {
		ms, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q: %w", ErrInvalidInterval, EnvCleanupIntervalMs, raw, err)
		}
		if ms == 0 {
			return Config{}, fmt.Errorf("%w: %s must be positive", ErrInvalidInterval, EnvCleanupIntervalMs)
		}
		cfg.Cache.CleanupInterval = time.Duration(ms) * time.Millisecond
	}

	if raw := strings.TrimSpace(values[EnvExpiryIndex]); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, EnvExpiryIndex, raw, err)
		}
		cfg.Cache.ExpiryIndex = on
	}

	if raw := strings.TrimSpace(values[EnvLogLevel]); raw != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, EnvLogLevel, raw, err)
		}
	}
	return cfg, nil
}
