package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Guide.Days != 8 {
		t.Errorf("expected days 8, got %d", cfg.Guide.Days)
	}
	if cfg.Guide.Timezone != "Asia/Tokyo" {
		t.Errorf("expected timezone Asia/Tokyo, got %s", cfg.Guide.Timezone)
	}
	if cfg.Guide.PxPerMinute != 2 {
		t.Errorf("expected px_per_minute 2, got %v", cfg.Guide.PxPerMinute)
	}
	if len(cfg.Guide.IncludeServiceTypes) != 1 || cfg.Guide.IncludeServiceTypes[0] != 1 {
		t.Errorf("expected include_service_types [1], got %v", cfg.Guide.IncludeServiceTypes)
	}
	if cfg.Guide.InitialTab != "GR" {
		t.Errorf("expected initial_tab GR, got %s", cfg.Guide.InitialTab)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.LLM.Provider)
	}
	if cfg.Source.TimeoutDuration() != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Source.TimeoutDuration())
	}
	if cfg.HasSource() {
		t.Error("expected no source endpoints by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Guide.Days != 8 {
		t.Errorf("expected default days, got %d", cfg.Guide.Days)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[source]
services_url = "http://tuner:40772/api/services"
channels_url = "http://tuner:40772/api/channels"
programs_url = "http://tuner:40772/api/programs"
attempts = 5
timeout = "10s"

[guide]
days = 3
timezone = "UTC"
px_per_minute = 3.5
include_service_types = [1, 2]
initial_tab = "BS"

[llm]
provider = "lmstudio"
model = "qwen2.5"
base_url = "http://localhost:1234"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.HasSource() {
		t.Error("expected source endpoints to be set")
	}
	if cfg.Source.Attempts != 5 {
		t.Errorf("expected attempts 5, got %d", cfg.Source.Attempts)
	}
	if cfg.Source.TimeoutDuration() != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Source.TimeoutDuration())
	}
	if cfg.Guide.Days != 3 {
		t.Errorf("expected days 3, got %d", cfg.Guide.Days)
	}
	if cfg.Guide.PxPerMinute != 3.5 {
		t.Errorf("expected px_per_minute 3.5, got %v", cfg.Guide.PxPerMinute)
	}
	if len(cfg.Guide.IncludeServiceTypes) != 2 {
		t.Errorf("expected 2 service types, got %v", cfg.Guide.IncludeServiceTypes)
	}
	if cfg.Guide.InitialTab != "BS" {
		t.Errorf("expected initial_tab BS, got %s", cfg.Guide.InitialTab)
	}
	loc, err := cfg.Guide.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("expected UTC location, got %v (%v)", loc, err)
	}
	if cfg.LLM.Provider != "lmstudio" {
		t.Errorf("expected provider lmstudio, got %s", cfg.LLM.Provider)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	// Untouched sections keep defaults
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("expected default addr, got %s", cfg.Server.Addr)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[guide\ndays = "), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[guide]
days = 3
timezone = "UTC"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("BANGUMI_DAYS", "5")
	t.Setenv("BANGUMI_INCLUDE_SERVICE_TYPES", "1, 0xC0")
	t.Setenv("BANGUMI_PROGRAMS_URL", "file:///tmp/programs.json")
	t.Setenv("BANGUMI_LLM_MODEL", "mistral")
	t.Setenv("BANGUMI_ADDR", ":9090")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Guide.Days != 5 {
		t.Errorf("expected days 5 from env, got %d", cfg.Guide.Days)
	}
	// File value should be kept when no env override
	if cfg.Guide.Timezone != "UTC" {
		t.Errorf("expected timezone UTC from file, got %s", cfg.Guide.Timezone)
	}
	if got := cfg.Guide.IncludeServiceTypes; len(got) != 2 || got[1] != 0xC0 {
		t.Errorf("expected service types [1 192], got %v", got)
	}
	if cfg.Source.ProgramsURL != "file:///tmp/programs.json" {
		t.Errorf("expected programs url from env, got %s", cfg.Source.ProgramsURL)
	}
	if cfg.LLM.Model != "mistral" {
		t.Errorf("expected model mistral from env, got %s", cfg.LLM.Model)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090 from env, got %s", cfg.Server.Addr)
	}
}

func TestLoadFrom_InvalidEnv(t *testing.T) {
	t.Setenv("BANGUMI_DAYS", "eight")

	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for non-numeric BANGUMI_DAYS")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero days", func(c *Config) { c.Guide.Days = 0 }},
		{"too many days", func(c *Config) { c.Guide.Days = 40 }},
		{"non-positive px per minute", func(c *Config) { c.Guide.PxPerMinute = 0 }},
		{"unknown timezone", func(c *Config) { c.Guide.Timezone = "Mars/Olympus" }},
		{"unknown tab", func(c *Config) { c.Guide.InitialTab = "SKY" }},
		{"no service types", func(c *Config) { c.Guide.IncludeServiceTypes = nil }},
		{"zero attempts", func(c *Config) { c.Source.Attempts = 0 }},
		{"bad timeout", func(c *Config) { c.Source.Timeout = "soon" }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad provider", func(c *Config) { c.LLM.Provider = "copilot" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_LowercaseTab(t *testing.T) {
	cfg := Default()
	cfg.Guide.InitialTab = "cs"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected lowercase tab to validate, got %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Source.ServicesURL = "http://tuner/api/services"
	cfg.Guide.Days = 4
	cfg.Guide.LogoURLTemplate = "http://tuner/api/services/{id}/logo"
	cfg.UI.Theme = "latte"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Source.ServicesURL != "http://tuner/api/services" {
		t.Errorf("expected services url to round-trip, got %s", loaded.Source.ServicesURL)
	}
	if loaded.Guide.Days != 4 {
		t.Errorf("expected days 4, got %d", loaded.Guide.Days)
	}
	if loaded.Guide.LogoURLTemplate != "http://tuner/api/services/{id}/logo" {
		t.Errorf("expected logo template to round-trip, got %s", loaded.Guide.LogoURLTemplate)
	}
	if loaded.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", loaded.UI.Theme)
	}
}
