// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/bangumi/internal/dateutil"
)

// Config holds the application configuration.
type Config struct {
	Source  SourceConfig  `toml:"source"`
	Guide   GuideConfig   `toml:"guide"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
	LLM     LLMConfig     `toml:"llm"`
	UI      UIConfig      `toml:"ui"`
}

// SourceConfig locates the EPG documents.
type SourceConfig struct {
	ServicesURL string `toml:"services_url"` // e.g., "http://localhost:40772/api/services"
	ChannelsURL string `toml:"channels_url"`
	ProgramsURL string `toml:"programs_url"`
	Attempts    uint   `toml:"attempts"`
	Timeout     string `toml:"timeout"` // e.g., "30s"
}

// TimeoutDuration returns the parsed fetch timeout.
func (s SourceConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// GuideConfig holds grid layout settings.
type GuideConfig struct {
	Days                int     `toml:"days"`
	Timezone            string  `toml:"timezone"` // IANA name, e.g., "Asia/Tokyo"
	PxPerMinute         float64 `toml:"px_per_minute"`
	IncludeServiceTypes []int   `toml:"include_service_types"`
	InitialTab          string  `toml:"initial_tab"`       // "GR", "BS" or "CS"
	LogoURLTemplate     string  `toml:"logo_url_template"` // {serviceId}, {networkId}, {id}
}

// Location resolves the configured time zone.
func (g GuideConfig) Location() (*time.Location, error) {
	return dateutil.LoadLocation(g.Timezone)
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"` // e.g., "127.0.0.1:8080"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `toml:"level"` // "debug", "info", "warn", "error"
	File       string `toml:"file"`  // empty logs to stderr
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "ollama", "lmstudio" or "openai"
	Model    string `toml:"model"`    // e.g., "llama3.2"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Attempts: 3,
			Timeout:  "30s",
		},
		Guide: GuideConfig{
			Days:                8,
			Timezone:            "Asia/Tokyo",
			PxPerMinute:         2,
			IncludeServiceTypes: []int{1},
			InitialTab:          "GR",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.2",
			BaseURL:  "http://localhost:11434",
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "bangumi.db"
	}
	return filepath.Join(home, ".local", "share", "bangumi", "bangumi.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "bangumi", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	// Source overrides
	if v := os.Getenv("BANGUMI_SERVICES_URL"); v != "" {
		cfg.Source.ServicesURL = v
	}
	if v := os.Getenv("BANGUMI_CHANNELS_URL"); v != "" {
		cfg.Source.ChannelsURL = v
	}
	if v := os.Getenv("BANGUMI_PROGRAMS_URL"); v != "" {
		cfg.Source.ProgramsURL = v
	}
	if v := os.Getenv("BANGUMI_SOURCE_TIMEOUT"); v != "" {
		cfg.Source.Timeout = v
	}

	// Guide overrides
	if v := os.Getenv("BANGUMI_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BANGUMI_DAYS: %w", err)
		}
		cfg.Guide.Days = n
	}
	if v := os.Getenv("BANGUMI_TIMEZONE"); v != "" {
		cfg.Guide.Timezone = v
	}
	if v := os.Getenv("BANGUMI_INITIAL_TAB"); v != "" {
		cfg.Guide.InitialTab = v
	}
	if v := os.Getenv("BANGUMI_INCLUDE_SERVICE_TYPES"); v != "" {
		types, err := parseInts(v)
		if err != nil {
			return fmt.Errorf("BANGUMI_INCLUDE_SERVICE_TYPES: %w", err)
		}
		cfg.Guide.IncludeServiceTypes = types
	}
	if v := os.Getenv("BANGUMI_LOGO_URL_TEMPLATE"); v != "" {
		cfg.Guide.LogoURLTemplate = v
	}

	// Storage overrides
	if v := os.Getenv("BANGUMI_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	// Server overrides
	if v := os.Getenv("BANGUMI_ADDR"); v != "" {
		cfg.Server.Addr = v
	}

	// Log overrides
	if v := os.Getenv("BANGUMI_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("BANGUMI_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	// LLM overrides
	if v := os.Getenv("BANGUMI_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("BANGUMI_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("BANGUMI_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	// UI overrides
	if v := os.Getenv("BANGUMI_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}

	return nil
}

func parseInts(s string) ([]int, error) {
	var result []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 0, 32)
		if err != nil {
			return nil, err
		}
		result = append(result, int(n))
	}
	return result, nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var (
	validTabs      = []string{"GR", "BS", "CS"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validProviders = []string{"ollama", "lmstudio", "openai"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Guide.Days < 1 || c.Guide.Days > 31 {
		return fmt.Errorf("days must be between 1 and 31, got %d", c.Guide.Days)
	}
	if c.Guide.PxPerMinute <= 0 {
		return errors.New("px_per_minute must be positive")
	}
	if _, err := c.Guide.Location(); err != nil {
		return err
	}
	if !slices.Contains(validTabs, strings.ToUpper(c.Guide.InitialTab)) {
		return fmt.Errorf("invalid initial_tab: %s", c.Guide.InitialTab)
	}
	if len(c.Guide.IncludeServiceTypes) == 0 {
		return errors.New("at least one include_service_types entry must be configured")
	}

	if c.Source.Attempts == 0 {
		return errors.New("attempts must be at least 1")
	}
	if d, err := time.ParseDuration(c.Source.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("timeout must be a positive duration, got %q", c.Source.Timeout)
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if c.Server.Addr == "" {
		return errors.New("addr must be set")
	}
	if !slices.Contains(validLogLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.LLM.Provider != "" && !slices.Contains(validProviders, strings.ToLower(c.LLM.Provider)) {
		return fmt.Errorf("invalid llm provider: %s", c.LLM.Provider)
	}
	return nil
}

// HasSource returns true if all three source endpoints are configured.
func (c *Config) HasSource() bool {
	return c.Source.ServicesURL != "" && c.Source.ChannelsURL != "" && c.Source.ProgramsURL != ""
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
