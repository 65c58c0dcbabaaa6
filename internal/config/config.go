package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yildizm/ocrsnap/internal/ocr"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Service  ServiceConfig  `yaml:"service" json:"service"`
	Defaults DefaultsConfig `yaml:"defaults" json:"defaults"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Watch    WatchConfig    `yaml:"watch" json:"watch"`
}

// ServiceConfig configures the remote OCR service
type ServiceConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url"`                 // service root, workflow paths are appended
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`                   // whole-request timeout
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`             // User-Agent header
	MaxUploadBytes int64         `yaml:"max_upload_bytes" json:"max_upload_bytes"` // file mode size limit
}

// DefaultsConfig holds the initial form state
type DefaultsConfig struct {
	Workflow string `yaml:"workflow" json:"workflow"` // ocr|translate
	Mode     string `yaml:"mode" json:"mode"`         // file|url
	Language string `yaml:"language" json:"language"` // es|en|fr|de|it|pt
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
	Theme         string `yaml:"theme" json:"theme"`                   // default|high-contrast|minimal
}

// WatchConfig configures the directory watcher
type WatchConfig struct {
	Extensions []string      `yaml:"extensions" json:"extensions"` // image extensions to pick up
	Debounce   time.Duration `yaml:"debounce" json:"debounce"`     // settle time after the last write
	OutputDir  string        `yaml:"output_dir" json:"output_dir"` // where <name>.txt results go, empty disables
	Workflow   string        `yaml:"workflow" json:"workflow"`     // workflow used for new files
	Recursive  bool          `yaml:"recursive" json:"recursive"`   // watch subdirectories too
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Service: ServiceConfig{
			BaseURL:        ocr.DefaultBaseURL,
			Timeout:        60 * time.Second,
			UserAgent:      "ocrsnap",
			MaxUploadBytes: ocr.DefaultMaxUploadBytes,
		},
		Defaults: DefaultsConfig{
			Workflow: "ocr",
			Mode:     "file",
			Language: string(ocr.DefaultLanguage),
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			Theme:         "default",
		},
		Watch: WatchConfig{
			Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"},
			Debounce:   500 * time.Millisecond,
			OutputDir:  "",
			Workflow:   "ocr",
			Recursive:  false,
		},
	}
}

// ClientConfig converts the service section to OCR client settings
func (c *Config) ClientConfig() *ocr.Config {
	return &ocr.Config{
		BaseURL:   c.Service.BaseURL,
		Timeout:   c.Service.Timeout,
		UserAgent: c.Service.UserAgent,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateServiceConfig(); err != nil {
		return err
	}
	if err := c.validateDefaultsConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateWatchConfig(); err != nil {
		return err
	}
	return nil
}

// validateServiceConfig validates service-related configuration
func (c *Config) validateServiceConfig() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url: %s (must be an http or https URL)", c.Service.BaseURL)
	}
	if c.Service.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.Service.MaxUploadBytes < 1 {
		return fmt.Errorf("max_upload_bytes must be greater than 0")
	}
	return nil
}

// validateDefaultsConfig validates the initial form state
func (c *Config) validateDefaultsConfig() error {
	if c.Defaults.Workflow != "" {
		if _, err := ocr.ParseWorkflow(c.Defaults.Workflow); err != nil {
			return err
		}
	}
	if c.Defaults.Mode != "" {
		validModes := map[string]bool{
			"file": true,
			"url":  true,
		}
		if !validModes[c.Defaults.Mode] {
			return fmt.Errorf("invalid mode: %s (must be one of: file, url)", c.Defaults.Mode)
		}
	}
	if c.Defaults.Language != "" {
		if _, err := ocr.ParseLanguage(c.Defaults.Language); err != nil {
			return err
		}
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Output.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	return nil
}

// validateWatchConfig validates watcher configuration
func (c *Config) validateWatchConfig() error {
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("debounce must be non-negative")
	}
	for _, ext := range c.Watch.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid watch extension: %s (must start with '.')", ext)
		}
	}
	if c.Watch.Workflow != "" {
		if _, err := ocr.ParseWorkflow(c.Watch.Workflow); err != nil {
			return err
		}
	}
	return nil
}
