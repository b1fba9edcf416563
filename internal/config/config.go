package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings showcase reads at startup.
type Config struct {
	Source           string
	Currency         string
	PlaceholderImage string
	ImageTimeout     time.Duration
	ConfirmDuration  time.Duration
	LogFile          string
}

const (
	defaultConfigPath      = "~/.config/showcase/config.toml"
	defaultLogFile         = "~/.local/state/showcase/showcase.log"
	defaultCurrency        = "PKR"
	defaultImageTimeout    = 10 * time.Second
	defaultConfirmDuration = 2 * time.Second
)

// Environment variables that override the config file.
const (
	EnvSource   = "SHOWCASE_SOURCE"
	EnvCurrency = "SHOWCASE_CURRENCY"
	EnvLogFile  = "SHOWCASE_LOG_FILE"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Currency:        defaultCurrency,
		ImageTimeout:    defaultImageTimeout,
		ConfirmDuration: defaultConfirmDuration,
		LogFile:         mustExpand(defaultLogFile),
	}
}

// Load parses the config file at path (the default location when empty),
// falling back to defaults when it is missing, then applies environment
// overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg.applyEnv()
		return cfg, nil
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Source           string `toml:"source"`
		Currency         string `toml:"currency"`
		PlaceholderImage string `toml:"placeholder_image"`
		ImageTimeout     string `toml:"image_timeout"`
		ConfirmDuration  string `toml:"confirm_duration"`
		LogFile          string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Source = expandSource(raw.Source)
	if currency := strings.TrimSpace(raw.Currency); currency != "" {
		cfg.Currency = currency
	}
	if placeholder := strings.TrimSpace(raw.PlaceholderImage); placeholder != "" {
		cfg.PlaceholderImage = mustExpand(placeholder)
	}
	if cfg.ImageTimeout, err = parseDuration("image_timeout", raw.ImageTimeout, defaultImageTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ConfirmDuration, err = parseDuration("confirm_duration", raw.ConfirmDuration, defaultConfirmDuration); err != nil {
		return Config{}, err
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadDotEnv adds variables from the given .env files to the process
// environment. Missing files are skipped and variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvSource)); v != "" {
		c.Source = expandSource(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvCurrency)); v != "" {
		c.Currency = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		c.LogFile = mustExpand(v)
	}
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse config: %s must be positive, got %s", key, trimmed)
	}
	return d, nil
}

// expandSource expands a leading ~ in local paths and leaves URLs alone.
func expandSource(source string) string {
	trimmed := strings.TrimSpace(source)
	if strings.HasPrefix(trimmed, "~") {
		return mustExpand(trimmed)
	}
	return trimmed
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
