package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the philodex API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Carousel CarouselConfig `yaml:"carousel"`
	Sessions SessionsConfig `yaml:"sessions"`
	Featured FeaturedConfig `yaml:"featured"`
	Votes    VotesConfig    `yaml:"votes"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds operator authentication settings for /admin routes.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	// CORSOrigins lists browser origins allowed to call the API. Empty disables CORS.
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig holds vote store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // memory, valkey, redis (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CatalogConfig points at the static data asset.
type CatalogConfig struct {
	Source     string `yaml:"source"` // http(s) URL or file path, .json or .yaml
	TimeoutSec int    `yaml:"timeout_sec"`
}

// CarouselConfig holds paging geometry for new browse sessions.
type CarouselConfig struct {
	PhilosopherPageSize int    `yaml:"philosopher_page_size"`
	ArgumentPageSize    int    `yaml:"argument_page_size"`
	ItemStride          int    `yaml:"item_stride"`
	Mode                string `yaml:"mode"` // clamped, cyclic
}

// SessionsConfig holds browse session expiry.
type SessionsConfig struct {
	IdleTTLSec int `yaml:"idle_ttl_sec"`
	CleanupSec int `yaml:"cleanup_interval_sec"`
}

// FeaturedConfig holds the featured rotation schedule.
type FeaturedConfig struct {
	Schedule string `yaml:"schedule"` // cron expression or descriptor
}

// VotesConfig holds vote storage and throttling.
type VotesConfig struct {
	Key           string  `yaml:"key"`
	RatePerSecond float64 `yaml:"rate_per_second"` // 0 disables throttling
	Burst         int     `yaml:"burst"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Catalog.TimeoutSec <= 0 {
		c.Catalog.TimeoutSec = 10
	}
	if c.Carousel.PhilosopherPageSize <= 0 {
		c.Carousel.PhilosopherPageSize = 3
	}
	if c.Carousel.ArgumentPageSize <= 0 {
		c.Carousel.ArgumentPageSize = 4
	}
	if c.Carousel.ItemStride <= 0 {
		c.Carousel.ItemStride = 330
	}
	if c.Carousel.Mode == "" {
		c.Carousel.Mode = "clamped"
	}
	if c.Sessions.IdleTTLSec <= 0 {
		c.Sessions.IdleTTLSec = 1800
	}
	if c.Sessions.CleanupSec <= 0 {
		c.Sessions.CleanupSec = 300
	}
	if c.Featured.Schedule == "" {
		c.Featured.Schedule = "@daily"
	}
	if c.Votes.Key == "" {
		c.Votes.Key = "philodex:votes"
	}
	if c.Votes.Burst <= 0 {
		c.Votes.Burst = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "memory":
	case "valkey", "redis":
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be \"memory\", \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	if c.Catalog.Source == "" {
		return fmt.Errorf("catalog.source is required")
	}
	switch c.Carousel.Mode {
	case "clamped", "cyclic":
	default:
		return fmt.Errorf("carousel.mode must be \"clamped\" or \"cyclic\", got %q", c.Carousel.Mode)
	}
	if c.Votes.RatePerSecond < 0 {
		return fmt.Errorf("votes.rate_per_second must not be negative, got %v", c.Votes.RatePerSecond)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
