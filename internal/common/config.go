package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Backend     BackendConfig `toml:"backend"`
	Upload      UploadConfig  `toml:"upload"`
	Polling     PollingConfig `toml:"polling"`
	Cache       CacheConfig   `toml:"cache"`
	Logging     LoggingConfig `toml:"logging"`
	UI          UIConfig      `toml:"ui"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host"`
}

// BackendConfig points at the RAG backend service. All API calls go to BaseURL + "/api/v1".
type BackendConfig struct {
	BaseURL string `toml:"base_url" validate:"required,url"`
	Timeout string `toml:"timeout" validate:"required"` // e.g. "30s"
}

type UploadConfig struct {
	MaxSizeMB int `toml:"max_size_mb" validate:"min=1"`
}

// PollingConfig controls the dashboard pollers. Each interval owns an independent timer.
type PollingConfig struct {
	HealthInterval string `toml:"health_interval" validate:"required"` // default "10s"
	StatsInterval  string `toml:"stats_interval" validate:"required"`  // default "30s"
}

type CacheConfig struct {
	TTL string `toml:"ttl"` // How long a fetched resource is served without refetching ("0s" = always refetch)
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

type UIConfig struct {
	ClientDebug  bool   `toml:"client_debug"`  // Enable browser console logging of live messages
	TemplatesDir string `toml:"templates_dir"` // Optional directory whose pages/ and partials/ override the embedded templates
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 3000,
			Host: "localhost",
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Timeout: "30s",
		},
		Upload: UploadConfig{
			MaxSizeMB: 50,
		},
		Polling: PollingConfig{
			HealthInterval: "10s",
			StatsInterval:  "30s",
		},
		Cache: CacheConfig{
			TTL: "10s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> .env -> env
// Later files override earlier files. CLI flags are applied afterwards by ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// A local .env only fills variables that are not already set in the process environment
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PEDOMAN_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("PEDOMAN_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PEDOMAN_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Backend configuration
	if baseURL := os.Getenv("PEDOMAN_BACKEND_URL"); baseURL != "" {
		config.Backend.BaseURL = baseURL
	}
	if timeout := os.Getenv("PEDOMAN_BACKEND_TIMEOUT"); timeout != "" {
		config.Backend.Timeout = timeout
	}

	if maxSize := os.Getenv("PEDOMAN_UPLOAD_MAX_SIZE_MB"); maxSize != "" {
		if m, err := strconv.Atoi(maxSize); err == nil {
			config.Upload.MaxSizeMB = m
		}
	}

	// Polling configuration
	if interval := os.Getenv("PEDOMAN_POLLING_HEALTH_INTERVAL"); interval != "" {
		config.Polling.HealthInterval = interval
	}
	if interval := os.Getenv("PEDOMAN_POLLING_STATS_INTERVAL"); interval != "" {
		config.Polling.StatsInterval = interval
	}

	if ttl := os.Getenv("PEDOMAN_CACHE_TTL"); ttl != "" {
		config.Cache.TTL = ttl
	}

	// Logging configuration
	if level := os.Getenv("PEDOMAN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("PEDOMAN_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if debug := os.Getenv("PEDOMAN_UI_CLIENT_DEBUG"); debug != "" {
		if d, err := strconv.ParseBool(debug); err == nil {
			config.UI.ClientDebug = d
		}
	}
	if dir := os.Getenv("PEDOMAN_UI_TEMPLATES_DIR"); dir != "" {
		config.UI.TemplatesDir = dir
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string, backendURL string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if backendURL != "" {
		config.Backend.BaseURL = backendURL
	}
}

// Validate checks struct tags and that every duration string parses.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	durations := map[string]string{
		"backend.timeout":         c.Backend.Timeout,
		"polling.health_interval": c.Polling.HealthInterval,
		"polling.stats_interval":  c.Polling.StatsInterval,
	}
	for name, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid configuration: %s=%q: %w", name, value, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid configuration: %s must be positive", name)
		}
	}
	if c.Cache.TTL != "" {
		if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
			return fmt.Errorf("invalid configuration: cache.ttl=%q: %w", c.Cache.TTL, err)
		}
	}

	return nil
}

// BackendTimeout returns the parsed backend timeout (validated on load).
func (c *Config) BackendTimeout() time.Duration {
	return parseDurationOr(c.Backend.Timeout, 30*time.Second)
}

func (c *Config) HealthInterval() time.Duration {
	return parseDurationOr(c.Polling.HealthInterval, 10*time.Second)
}

func (c *Config) StatsInterval() time.Duration {
	return parseDurationOr(c.Polling.StatsInterval, 30*time.Second)
}

func (c *Config) CacheTTL() time.Duration {
	return parseDurationOr(c.Cache.TTL, 0)
}

// MaxUploadBytes is the client-side upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) * 1024 * 1024
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
