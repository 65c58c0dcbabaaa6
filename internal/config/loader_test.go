package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := NewLoader()

	// Test loading with no config files (should use defaults)
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	// Verify it's using defaults
	if cfg.Defaults.Workflow != "ocr" {
		t.Errorf("Expected default workflow ocr, got %s", cfg.Defaults.Workflow)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	// Create a temporary config file
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	configContent := `version: "1.0"
service:
  base_url: "http://localhost:5000/api"
  timeout: 15s
  max_upload_bytes: 2048
defaults:
  workflow: "translate"
  mode: "url"
  language: "de"
output:
  default_format: "json"
  verbose: true
watch:
  extensions: [".png"]
  debounce: 1s
`

	err := os.WriteFile(configPath, []byte(configContent), 0o600)
	if err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	// Verify the config was loaded correctly
	if cfg.Service.BaseURL != "http://localhost:5000/api" {
		t.Errorf("Expected local base URL, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", cfg.Service.Timeout)
	}
	if cfg.Service.MaxUploadBytes != 2048 {
		t.Errorf("Expected max upload 2048, got %d", cfg.Service.MaxUploadBytes)
	}
	if cfg.Defaults.Workflow != "translate" || cfg.Defaults.Mode != "url" || cfg.Defaults.Language != "de" {
		t.Errorf("Unexpected defaults: %+v", cfg.Defaults)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if len(cfg.Watch.Extensions) != 1 || cfg.Watch.Debounce != time.Second {
		t.Errorf("Unexpected watch config: %+v", cfg.Watch)
	}
	if cfg.Service.UserAgent != "ocrsnap" {
		t.Errorf("Expected default user agent to survive merge, got %s", cfg.Service.UserAgent)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	// Create a temporary config file with invalid YAML
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid-config.yaml")

	invalidConfigContent := `version: "1.0"
service:
  base_url: "http://localhost:5000/api"
  # Invalid YAML - missing closing quote
output:
  default_format: "json
  verbose: true
`

	err := os.WriteFile(configPath, []byte(invalidConfigContent), 0o600)
	if err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loader := NewLoader()
	_, err = loader.LoadConfig(configPath)
	if err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "bad-language.yaml")

	if err := os.WriteFile(configPath, []byte("defaults:\n  language: \"ja\"\n"), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	_, err := NewLoader().LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation failure, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	envVars := map[string]string{
		"OCRSNAP_SERVICE_BASE_URL":         "http://127.0.0.1:8080/api",
		"OCRSNAP_SERVICE_MAX_UPLOAD_BYTES": "4096",
		"OCRSNAP_DEFAULTS_LANGUAGE":        "it",
		"OCRSNAP_OUTPUT_VERBOSE":           "true",
		"OCRSNAP_WATCH_EXTENSIONS":         ".png, .jpg ,,.webp",
	}

	for key, value := range envVars {
		t.Setenv(key, value)
	}

	loader := NewLoader()
	cfg := DefaultConfig()

	err := loader.applyEnvOverrides(cfg)
	if err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	// Check that environment variables were applied
	if cfg.Service.BaseURL != "http://127.0.0.1:8080/api" {
		t.Errorf("Expected overridden base URL, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.MaxUploadBytes != 4096 {
		t.Errorf("Expected max upload 4096, got %d", cfg.Service.MaxUploadBytes)
	}
	if cfg.Defaults.Language != "it" {
		t.Errorf("Expected language it, got %s", cfg.Defaults.Language)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	expectedExts := []string{".png", ".jpg", ".webp"}
	if len(cfg.Watch.Extensions) != len(expectedExts) {
		t.Fatalf("Expected %d extensions, got %v", len(expectedExts), cfg.Watch.Extensions)
	}
	for i, ext := range expectedExts {
		if cfg.Watch.Extensions[i] != ext {
			t.Errorf("Expected extension %s, got %s", ext, cfg.Watch.Extensions[i])
		}
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "OCRSNAP_SERVICE_MAX_UPLOAD_BYTES", "not-a-number"},
		{"invalid bool", "OCRSNAP_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "OCRSNAP_SERVICE_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			loader := NewLoader()
			cfg := DefaultConfig()

			err := loader.applyEnvOverrides(cfg)
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	var duration time.Duration

	err := parseDuration("30s", &duration)
	if err != nil {
		t.Errorf("Failed to parse duration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v", duration)
	}

	err = parseDuration("invalid", &duration)
	if err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}
}

func TestParseInt64(t *testing.T) {
	var value int64

	err := parseInt64("42", &value)
	if err != nil {
		t.Errorf("Failed to parse int: %v", err)
	}
	if value != 42 {
		t.Errorf("Expected 42, got %d", value)
	}

	err = parseInt64("not-a-number", &value)
	if err == nil {
		t.Error("Expected error for invalid int, but got none")
	}
}

func TestParseBool(t *testing.T) {
	var value bool

	err := parseBool("true", &value)
	if err != nil {
		t.Errorf("Failed to parse bool: %v", err)
	}
	if !value {
		t.Errorf("Expected true, got %v", value)
	}

	err = parseBool("false", &value)
	if err != nil {
		t.Errorf("Failed to parse bool: %v", err)
	}
	if value {
		t.Errorf("Expected false, got %v", value)
	}

	err = parseBool("not-a-bool", &value)
	if err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFindConfigFile(t *testing.T) {
	// Test when no config file exists
	_, found := FindConfigFile()
	if found {
		t.Error("Expected no config file to be found, but one was found")
	}

	// Create a temporary config file in current directory
	tempConfigPath := "./.ocrsnap.yaml"
	err := os.WriteFile(tempConfigPath, []byte("version: 1.0"), 0o600)
	if err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	defer func() { _ = os.Remove(tempConfigPath) }()

	configPath, found := FindConfigFile()
	if !found {
		t.Error("Expected config file to be found, but none was found")
	}
	if configPath != tempConfigPath {
		t.Errorf("Expected config path %s, got %s", tempConfigPath, configPath)
	}
}

func TestFileExists(t *testing.T) {
	// Test with non-existent file
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	// Create a temporary file
	tempFile := filepath.Join(t.TempDir(), "test-file")
	err := os.WriteFile(tempFile, []byte("test"), 0o600)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid yaml file",
			path:    "config.yaml",
			wantErr: false,
		},
		{
			name:    "valid yml file",
			path:    "config.yml",
			wantErr: false,
		},
		{
			name:    "path traversal attempt",
			path:    "../../../etc/passwd",
			wantErr: true,
			errMsg:  "path traversal not allowed",
		},
		{
			name:    "non-yaml file",
			path:    "config.txt",
			wantErr: true,
			errMsg:  "config file must have .yaml or .yml extension",
		},
		{
			name:    "system file access",
			path:    "/etc/passwd.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
		{
			name:    "proc filesystem access",
			path:    "/proc/version.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
		{
			name:    "relative path with valid extension",
			path:    "./configs/app.yaml",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
			}
		})
	}
}
