package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"seconds", 30 * time.Second, "30s"},
		{"minutes", 5 * time.Minute, "5m0s"},
		{"milliseconds", 150 * time.Millisecond, "150ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Duration{tt.duration}
			result, err := d.MarshalText()

			if err != nil {
				t.Errorf("MarshalText() error = %v", err)
				return
			}

			if string(result) != tt.expected {
				t.Errorf("MarshalText() = %v, want %v", string(result), tt.expected)
			}
		})
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := Default()

	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if cfg.General.LogFormat != "text" {
		t.Errorf("General.LogFormat = %v, want text", cfg.General.LogFormat)
	}
	if cfg.Engine.DefaultInput != "c" || cfg.Engine.DefaultOutput != "l" {
		t.Errorf("Engine defaults = %q/%q, want c/l", cfg.Engine.DefaultInput, cfg.Engine.DefaultOutput)
	}
	if cfg.Engine.MaxCommandLength != 64*1024 {
		t.Errorf("Engine.MaxCommandLength = %v, want 65536", cfg.Engine.MaxCommandLength)
	}
	if cfg.UI.Debounce.Duration != 150*time.Millisecond {
		t.Errorf("UI.Debounce = %v, want 150ms", cfg.UI.Debounce.Duration)
	}
	if cfg.UI.Manual {
		t.Error("UI.Manual = true, want live processing by default")
	}
	if cfg.Server.Port != 8765 {
		t.Errorf("Server.Port = %v, want 8765", cfg.Server.Port)
	}
	if cfg.Server.MaxMessageSize != 1<<20 {
		t.Errorf("Server.MaxMessageSize = %v, want 1MiB", cfg.Server.MaxMessageSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("Load() error = %v, want not found", err)
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[general]
log_level = "debug"
log_file = "$TEXTOMAT_TEST_DIR/textomat.log"

[engine]
default_output = "j"
initial_command = "h"

[server]
port = 9999
read_timeout = "5s"

[macros]
csv = "o:c;{args}"
`)
	t.Setenv("TEXTOMAT_TEST_DIR", "/tmp/logs")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}
	if cfg.General.LogFile != "/tmp/logs/textomat.log" {
		t.Errorf("General.LogFile = %v, want expanded path", cfg.General.LogFile)
	}
	if cfg.Engine.DefaultOutput != "j" || cfg.Engine.InitialCommand != "h" {
		t.Errorf("Engine = %+v", cfg.Engine)
	}
	if cfg.Server.Port != 9999 || cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Macros["csv"] != "o:c;{args}" {
		t.Errorf("Macros = %v", cfg.Macros)
	}

	// Check defaults were applied for missing values
	if cfg.Engine.DefaultInput != "c" {
		t.Errorf("Engine.DefaultInput = %v, want c (default)", cfg.Engine.DefaultInput)
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
ui:
  vertical: true
  debounce: 1s
server:
  host: 0.0.0.0
  allowed_origins: ["http://localhost:3000"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.UI.Vertical || cfg.UI.Debounce.Duration != time.Second {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8765 {
		t.Errorf("Server = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown toml key", "config.toml", "[engine]\ncolour = 1\n"},
		{"unknown yaml key", "config.yml", "engine:\n  colour: 1\n"},
		{"bad duration", "config.toml", "[ui]\ndebounce = \"soon\"\n"},
		{"bad level", "config.toml", "[general]\nlog_level = \"loud\"\n"},
		{"bad port", "config.toml", "[server]\nport = 70000\n"},
		{"empty macro", "config.toml", "[macros]\nx = \" \"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			if !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
				t.Errorf("Load() error = %v, want invalid config", err)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv(EnvConfig, "")
	originalWd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(originalWd)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Server.Port != 8765 {
		t.Errorf("Server.Port = %v, want default", cfg.Server.Port)
	}

	path := writeConfig(t, "env.toml", "[server]\nport = 1234\n")
	t.Setenv(EnvConfig, path)
	cfg, err = LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Server.Port != 1234 {
		t.Errorf("Server.Port = %v, want 1234 from %s", cfg.Server.Port, EnvConfig)
	}
}
