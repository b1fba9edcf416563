package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvSource, EnvCurrency, EnvLogFile} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Currency != defaultCurrency {
		t.Fatalf("Currency = %q, want %q", cfg.Currency, defaultCurrency)
	}
	if cfg.ImageTimeout != defaultImageTimeout {
		t.Fatalf("ImageTimeout = %v, want %v", cfg.ImageTimeout, defaultImageTimeout)
	}
	if cfg.ConfirmDuration != defaultConfirmDuration {
		t.Fatalf("ConfirmDuration = %v, want %v", cfg.ConfirmDuration, defaultConfirmDuration)
	}
	want := filepath.Join(home, ".local/state/showcase/showcase.log")
	if cfg.LogFile != want {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, want)
	}
	if cfg.Source != "" {
		t.Fatalf("Source = %q, want empty", cfg.Source)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
source = "  ~/catalog/products.json  "
currency = " USD "
placeholder_image = "~/ph.png"
image_timeout = "3s"
confirm_duration = " 1500ms "
log_file = "  ~/logs/showcase.log  "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source != filepath.Join(home, "catalog/products.json") {
		t.Fatalf("Source = %q, want it under HOME", cfg.Source)
	}
	if cfg.Currency != "USD" {
		t.Fatalf("Currency = %q, want USD", cfg.Currency)
	}
	if cfg.PlaceholderImage != filepath.Join(home, "ph.png") {
		t.Fatalf("PlaceholderImage = %q", cfg.PlaceholderImage)
	}
	if cfg.ImageTimeout != 3*time.Second {
		t.Fatalf("ImageTimeout = %v, want 3s", cfg.ImageTimeout)
	}
	if cfg.ConfirmDuration != 1500*time.Millisecond {
		t.Fatalf("ConfirmDuration = %v, want 1.5s", cfg.ConfirmDuration)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_URLSourceIsVerbatim(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`source = "https://shop.example/products.json"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source != "https://shop.example/products.json" {
		t.Fatalf("Source = %q, want URL unchanged", cfg.Source)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvSource, "https://env.example/items.json")
	t.Setenv(EnvCurrency, "EUR")
	t.Setenv(EnvLogFile, "~/env.log")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
source = "/data/products.json"
currency = "USD"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source != "https://env.example/items.json" {
		t.Fatalf("Source = %q, want env value", cfg.Source)
	}
	if cfg.Currency != "EUR" {
		t.Fatalf("Currency = %q, want EUR", cfg.Currency)
	}
	if cfg.LogFile != filepath.Join(home, "env.log") {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, filepath.Join(home, "env.log"))
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	cases := map[string]string{
		"toml":     `currency = [`,
		"duration": `image_timeout = "soon"`,
		"negative": `confirm_duration = "-1s"`,
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		_, err := Load(path)
		if err == nil {
			t.Fatalf("%s: Load returned nil error, want parse error", name)
		}
		if !strings.Contains(err.Error(), "parse config") {
			t.Fatalf("%s: Load error = %q, want it to mention parse config", name, err.Error())
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SHOWCASE_CURRENCY=GBP\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	os.Unsetenv(EnvCurrency)

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	if got := os.Getenv(EnvCurrency); got != "GBP" {
		t.Fatalf("%s = %q, want GBP", EnvCurrency, got)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
