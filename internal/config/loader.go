package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.ocrsnap.yaml",               // Project-specific config (highest priority)
	"~/.config/ocrsnap/config.yaml", // User config
	"/etc/ocrsnap/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.ocrsnap.yaml
// 4. ~/.config/ocrsnap/config.yaml
// 5. /etc/ocrsnap/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If custom path is provided, use only that path
	if customPath != "" {
		// Validate the custom path for security
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Load from standard paths in reverse priority order (lowest to highest)
		paths := make([]string, len(l.configPaths))
		copy(paths, l.configPaths)
		// Reverse the slice to load lowest priority first
		for i := len(paths)/2 - 1; i >= 0; i-- {
			opp := len(paths) - 1 - i
			paths[i], paths[opp] = paths[opp], paths[i]
		}

		for _, path := range paths {
			expandedPath := expandPath(path)
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					// Log warning but continue with other config files
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	// Apply environment variable overrides
	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	// Validate the final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Create a temporary config to unmarshal into
	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Merge the file config into the existing config
	mergeConfigs(config, &fileConfig)

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Service Config
		"OCRSNAP_SERVICE_BASE_URL":         func(v string) error { config.Service.BaseURL = v; return nil },
		"OCRSNAP_SERVICE_TIMEOUT":          func(v string) error { return parseDuration(v, &config.Service.Timeout) },
		"OCRSNAP_SERVICE_USER_AGENT":       func(v string) error { config.Service.UserAgent = v; return nil },
		"OCRSNAP_SERVICE_MAX_UPLOAD_BYTES": func(v string) error { return parseInt64(v, &config.Service.MaxUploadBytes) },

		// Form defaults
		"OCRSNAP_DEFAULTS_WORKFLOW": func(v string) error { config.Defaults.Workflow = v; return nil },
		"OCRSNAP_DEFAULTS_MODE":     func(v string) error { config.Defaults.Mode = v; return nil },
		"OCRSNAP_DEFAULTS_LANGUAGE": func(v string) error { config.Defaults.Language = v; return nil },

		// Output Config
		"OCRSNAP_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"OCRSNAP_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"OCRSNAP_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"OCRSNAP_OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },

		// Watch Config
		"OCRSNAP_WATCH_DEBOUNCE":   func(v string) error { return parseDuration(v, &config.Watch.Debounce) },
		"OCRSNAP_WATCH_OUTPUT_DIR": func(v string) error { config.Watch.OutputDir = v; return nil },
		"OCRSNAP_WATCH_WORKFLOW":   func(v string) error { config.Watch.Workflow = v; return nil },
		"OCRSNAP_WATCH_RECURSIVE":  func(v string) error { return parseBool(v, &config.Watch.Recursive) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// Handle special case for watch extensions (comma-separated list)
	if exts := os.Getenv("OCRSNAP_WATCH_EXTENSIONS"); exts != "" {
		config.Watch.Extensions = splitList(exts)
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	// Clean the path to resolve any ".." components
	cleanPath := filepath.Clean(path)

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	// Ensure it's a YAML file
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	// Convert to absolute path for additional validation
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	// Basic sanity check - ensure it's not in sensitive system directories
	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config
// Only non-zero values from source overwrite destination
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeServiceConfig(&dst.Service, &src.Service)
	mergeDefaultsConfig(&dst.Defaults, &src.Defaults)
	mergeOutputConfig(&dst.Output, &src.Output)
	mergeWatchConfig(&dst.Watch, &src.Watch)
}

// mergeServiceConfig merges service configuration
func mergeServiceConfig(dst, src *ServiceConfig) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.UserAgent != "" {
		dst.UserAgent = src.UserAgent
	}
	if src.MaxUploadBytes != 0 {
		dst.MaxUploadBytes = src.MaxUploadBytes
	}
}

// mergeDefaultsConfig merges form defaults
func mergeDefaultsConfig(dst, src *DefaultsConfig) {
	if src.Workflow != "" {
		dst.Workflow = src.Workflow
	}
	if src.Mode != "" {
		dst.Mode = src.Mode
	}
	if src.Language != "" {
		dst.Language = src.Language
	}
}

// mergeOutputConfig merges output configuration
func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	// Booleans can only be switched on from a file; env overrides switch them off
	mergeIfSet(&dst.Verbose, src.Verbose)
}

// mergeWatchConfig merges watcher configuration
func mergeWatchConfig(dst, src *WatchConfig) {
	if len(src.Extensions) > 0 {
		dst.Extensions = src.Extensions
	}
	if src.Debounce != 0 {
		dst.Debounce = src.Debounce
	}
	if src.OutputDir != "" {
		dst.OutputDir = src.OutputDir
	}
	if src.Workflow != "" {
		dst.Workflow = src.Workflow
	}
	mergeIfSet(&dst.Recursive, src.Recursive)
}

// mergeIfSet merges a boolean only when the source sets it
func mergeIfSet(dst *bool, src bool) {
	if src {
		*dst = src
	}
}

// splitList splits a comma-separated list and trims each entry
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Type conversion helpers

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
