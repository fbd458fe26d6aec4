package config

import (
	"os"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test default values
	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.ServerName != "transcript-analyzer" {
		t.Errorf("Expected default server name to be 'transcript-analyzer', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.LogFormat != "json" {
		t.Errorf("Expected default log format to be 'json', got '%s'", cfg.LogFormat)
	}

	if cfg.MaxFileSize != 50*1024*1024 {
		t.Errorf("Expected default max file size to be 50MB, got %d", cfg.MaxFileSize)
	}

	if cfg.GraduationCredits != 128.0 {
		t.Errorf("Expected default graduation credits to be 128, got %v", cfg.GraduationCredits)
	}

	if cfg.PassingFloor != 1.7 {
		t.Errorf("Expected default passing floor to be 1.7, got %v", cfg.PassingFloor)
	}

	// Test that transcript directory is set to current working directory by default
	currentDir, _ := os.Getwd()
	if cfg.TranscriptDirectory != currentDir {
		t.Errorf("Expected default transcript directory to be '%s', got '%s'", currentDir, cfg.TranscriptDirectory)
	}
}

func validTestConfig(dir string) *Config {
	return &Config{
		Mode:                "stdio",
		Host:                "127.0.0.1",
		Port:                8080,
		TranscriptDirectory: dir,
		GraduationCredits:   128,
		PassingFloor:        1.7,
		MinTableRows:        5,
		LogLevel:            "info",
		LogFormat:           "json",
		MaxFileSize:         1024,
	}
}

func TestConfigValidate(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config - stdio mode",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid config - server mode",
			mutate:  func(c *Config) { c.Mode = "server" },
			wantErr: false,
		},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Mode = "invalid" },
			wantErr: true,
		},
		{
			name: "invalid port - too low (server mode)",
			mutate: func(c *Config) {
				c.Mode = "server"
				c.Port = 0
			},
			wantErr: true,
		},
		{
			name: "invalid port - too high (server mode)",
			mutate: func(c *Config) {
				c.Mode = "server"
				c.Port = 70000
			},
			wantErr: true,
		},
		{
			name:    "invalid port ignored in stdio mode",
			mutate:  func(c *Config) { c.Port = 0 },
			wantErr: false,
		},
		{
			name:    "empty transcript directory",
			mutate:  func(c *Config) { c.TranscriptDirectory = "" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "invalid" },
			wantErr: true,
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: true,
		},
		{
			name:    "invalid max file size",
			mutate:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: true,
		},
		{
			name:    "invalid graduation credits",
			mutate:  func(c *Config) { c.GraduationCredits = 0 },
			wantErr: true,
		},
		{
			name:    "negative passing floor",
			mutate:  func(c *Config) { c.PassingFloor = -1 },
			wantErr: true,
		},
		{
			name:    "min table rows below two",
			mutate:  func(c *Config) { c.MinTableRows = 1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig(tempDir)
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{
		Host: "192.168.1.1",
		Port: 9090,
	}

	expected := "192.168.1.1:9090"
	if got := cfg.Address(); got != expected {
		t.Errorf("Config.Address() = %v, want %v", got, expected)
	}
}

func TestConfigIsDebug(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     bool
	}{
		{name: "debug level", logLevel: "debug", want: true},
		{name: "info level", logLevel: "info", want: false},
		{name: "warn level", logLevel: "warn", want: false},
		{name: "error level", logLevel: "error", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			if got := cfg.IsDebug(); got != tt.want {
				t.Errorf("Config.IsDebug() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:                "server",
		Host:                "localhost",
		Port:                8080,
		TranscriptDirectory: "/home/user/transcripts",
		LogLevel:            "debug",
		MaxFileSize:         1024,
	}

	result := cfg.String()

	expectedSubstrings := []string{
		"Mode: server",
		"Host: localhost",
		"Port: 8080",
		"TranscriptDirectory: /home/user/transcripts",
		"LogLevel: debug",
		"MaxFileSize: 1024",
	}

	for _, substr := range expectedSubstrings {
		if !strings.Contains(result, substr) {
			t.Errorf("Config.String() result doesn't contain expected substring: %s\nGot: %s", substr, result)
		}
	}
}

func TestConfigValidateCreatesMissingDirectory(t *testing.T) {
	tempParent := t.TempDir()
	missing := tempParent + "/transcripts"

	cfg := validTestConfig(missing)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v", err)
	}

	if _, err := os.Stat(missing); err != nil {
		t.Errorf("Validate should have created the directory: %v", err)
	}
}

func TestConfigValidateLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	validLevels := []string{"debug", "info", "warn", "error"}
	invalidLevels := []string{"DEBUG", "INFO", "trace", "fatal", ""}

	for _, level := range validLevels {
		t.Run("valid_"+level, func(t *testing.T) {
			cfg := validTestConfig(tempDir)
			cfg.LogLevel = level

			if err := cfg.Validate(); err != nil {
				t.Errorf("Config.Validate() should accept log level '%s', got error: %v", level, err)
			}
		})
	}

	for _, level := range invalidLevels {
		t.Run("invalid_"+level, func(t *testing.T) {
			cfg := validTestConfig(tempDir)
			cfg.LogLevel = level

			if err := cfg.Validate(); err == nil {
				t.Errorf("Config.Validate() should reject log level '%s'", level)
			}
		})
	}
}

func TestConfigIsServerMode(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want bool
	}{
		{name: "server mode", mode: "server", want: true},
		{name: "stdio mode", mode: "stdio", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			if got := cfg.IsServerMode(); got != tt.want {
				t.Errorf("Config.IsServerMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigIsStdioMode(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want bool
	}{
		{name: "stdio mode", mode: "stdio", want: true},
		{name: "server mode", mode: "server", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			if got := cfg.IsStdioMode(); got != tt.want {
				t.Errorf("Config.IsStdioMode() = %v, want %v", got, tt.want)
			}
		})
	}
}
