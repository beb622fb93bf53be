// Package config handles TOML-based configuration loading and validation.
// The file is parsed as data only; nothing in it is executed.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"seasonvar/internal/store"
)

const appName = "seasonvar"

// Config holds all application configuration.
type Config struct {
	Base         string        `toml:"base"`
	Timeout      time.Duration `toml:"timeout"`
	CacheTTL     time.Duration `toml:"cache_ttl"`
	CacheBackend string        `toml:"cache_backend"`
	CachePath    string        `toml:"cache_path"`
	CachePrefix  string        `toml:"cache_prefix"`
	RateLimit    float64       `toml:"rate_limit"`
	UserAgent    string        `toml:"user_agent"`
	LogLevel     string        `toml:"log_level"`
	LogFormat    string        `toml:"log_format"`
	Listen       string        `toml:"listen"`
	Debug        bool          `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Base:         "https://seasonvar.ru",
		Timeout:      10 * time.Second,
		CacheTTL:     6 * time.Hour,
		CacheBackend: store.BackendSQLite,
		CachePrefix:  "seasonvar_",
		RateLimit:    4,
		UserAgent:    "Mozilla/5.0",
		LogLevel:     "info",
		LogFormat:    "text",
		Listen:       "127.0.0.1:8089",
		Debug:        false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.Base == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	u, err := url.Parse(c.Base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base %q must be an absolute http(s) URL", c.Base)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	// zero keeps entries only as a fallback: every listing is refetched
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl cannot be negative, got %s", c.CacheTTL)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative, got %v", c.RateLimit)
	}

	if !slices.Contains(store.Backends(), strings.ToLower(c.CacheBackend)) {
		return fmt.Errorf("unsupported cache backend %q (valid: %s)", c.CacheBackend, strings.Join(store.Backends(), ", "))
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("unsupported log level %q (valid: debug, info, warn, error)", c.LogLevel)
	}

	validFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validFormats[strings.ToLower(c.LogFormat)] {
		return fmt.Errorf("unsupported log format %q (valid: text, json)", c.LogFormat)
	}

	return nil
}

// ResolveCachePath returns the cache database path, defaulting to the
// XDG cache directory. A leading ~/ is expanded.
func (c *Config) ResolveCachePath() (string, error) {
	dir := c.CachePath
	if dir == "" {
		return defaultCachePath()
	}
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}

func defaultCachePath() (string, error) {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheDir, appName, "cache.db"), nil
}
