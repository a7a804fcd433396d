// ABOUTME: Configuration loader for the venue console
// ABOUTME: Merges defaults, config.yaml, .env and environment variables

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL         = "http://localhost:8000/api"
	DefaultPollInterval   = 1500 * time.Millisecond
	DefaultNotifyInterval = 60 * time.Second

	appDirName = "venue-console"
	fileName   = "config.yaml"
)

type Config struct {
	// Backend
	APIURL      string
	HTTPTimeout time.Duration // 0 means no timeout
	AllProxy    string        // optional ssh+socks5:// tunnel

	// Polling
	PollInterval   time.Duration // chat room refresh
	NotifyInterval time.Duration // unread notification badge

	// Local state
	ConfigDir string

	// Logging
	LogLevel  string
	LogFormat string
}

// fileConfig mirrors config.yaml. Durations are Go duration strings ("1500ms").
type fileConfig struct {
	APIURL         string `yaml:"api_url"`
	HTTPTimeout    string `yaml:"http_timeout"`
	AllProxy       string `yaml:"all_proxy"`
	PollInterval   string `yaml:"poll_interval"`
	NotifyInterval string `yaml:"notify_interval"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		PollInterval:   DefaultPollInterval,
		NotifyInterval: DefaultNotifyInterval,
		ConfigDir:      DefaultConfigDir(),
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load builds the effective configuration. Priority, lowest first:
// defaults, <config dir>/config.yaml, ./.env, environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if dir := os.Getenv("VENUE_CONFIG_DIR"); dir != "" {
		cfg.ConfigDir = dir
	}

	if err := cfg.applyFile(filepath.Join(cfg.ConfigDir, fileName)); err != nil {
		return nil, err
	}

	cfg.APIURL = ensureScheme(getEnv("VENUE_API_URL", cfg.APIURL))
	cfg.AllProxy = getEnv("VENUE_ALL_PROXY", cfg.AllProxy)
	cfg.HTTPTimeout = getEnvDuration("VENUE_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.PollInterval = getEnvDuration("VENUE_POLL_INTERVAL", cfg.PollInterval)
	cfg.NotifyInterval = getEnvDuration("VENUE_NOTIFY_INTERVAL", cfg.NotifyInterval)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url is required")
	}
	if c.PollInterval < 100*time.Millisecond {
		return fmt.Errorf("poll interval must be at least 100ms, got %s", c.PollInterval)
	}
	if c.NotifyInterval < time.Second {
		return fmt.Errorf("notify interval must be at least 1s, got %s", c.NotifyInterval)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}

// Path returns the config.yaml location inside the config dir
func (c *Config) Path() string {
	return filepath.Join(c.ConfigDir, fileName)
}

// applyFile overlays config.yaml. A missing file is not an error; keys that
// are absent keep their current values.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if fc.APIURL != "" {
		c.APIURL = fc.APIURL
	}
	if fc.AllProxy != "" {
		c.AllProxy = fc.AllProxy
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		c.LogFormat = fc.LogFormat
	}
	for _, d := range []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"http_timeout", fc.HTTPTimeout, &c.HTTPTimeout},
		{"poll_interval", fc.PollInterval, &c.PollInterval},
		{"notify_interval", fc.NotifyInterval, &c.NotifyInterval},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: invalid %s %q: %w", path, d.key, d.raw, err)
		}
		*d.dst = v
	}
	return nil
}

// DefaultConfigDir returns the XDG-compliant config directory for the console.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appDirName)
	}
	return filepath.Join(home, ".config", appDirName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration accepts a Go duration ("2s") or a bare number of milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
