// Package config provides configuration loading and validation for the CLI and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the cv-templater configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values are filled by MergeWithDefaults.
type Config struct {
	// Templates
	TemplatesDir string            `json:"templates_dir,omitempty" yaml:"templates_dir,omitempty"`
	Templates    map[string]string `json:"templates,omitempty" yaml:"templates,omitempty" validate:"omitempty,dive,keys,required,endkeys,required"`

	// Files
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	UploadDir string `json:"upload_dir,omitempty" yaml:"upload_dir,omitempty"`

	// Generation
	EmptyValue        string `json:"empty_value,omitempty" yaml:"empty_value,omitempty"`
	RenderPDF         *bool  `json:"render_pdf,omitempty" yaml:"render_pdf,omitempty"`
	PDFTimeoutSeconds int    `json:"pdf_timeout_seconds,omitempty" yaml:"pdf_timeout_seconds,omitempty" validate:"gte=0,lte=600"`
	ChromePath        string `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`

	// Server
	Port               int `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=0,lte=65535"`
	MaxUploadMB        int `json:"max_upload_mb,omitempty" yaml:"max_upload_mb,omitempty" validate:"gte=0,lte=100"`
	RateLimitPerMinute int `json:"rate_limit_per_minute,omitempty" yaml:"rate_limit_per_minute,omitempty" validate:"gte=0"`

	// Persistence
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,oneof=json pretty"`
}

// Default returns the built-in configuration.
func Default() Config {
	renderPDF := true
	return Config{
		TemplatesDir: "templates",
		Templates: map[string]string{
			"1": "Plantilla1.docx",
			"2": "Plantilla2.docx",
			"3": "Plantilla3.docx",
		},
		OutputDir:          "output",
		UploadDir:          "uploads",
		RenderPDF:          &renderPDF,
		PDFTimeoutSeconds:  60,
		Port:               8080,
		MaxUploadMB:        10,
		RateLimitPerMinute: 30,
		LogLevel:           "info",
		LogFormat:          "pretty",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load reads the optional config file, applies environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields from environment variables.
// lookup is os.LookupEnv outside of tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		key   string
		field *string
	}{
		{"CVT_TEMPLATES_DIR", &c.TemplatesDir},
		{"CVT_OUTPUT_DIR", &c.OutputDir},
		{"CVT_UPLOAD_DIR", &c.UploadDir},
		{"CVT_LOG_LEVEL", &c.LogLevel},
		{"CVT_LOG_FORMAT", &c.LogFormat},
		{"CHROME_PATH", &c.ChromePath},
		{"DATABASE_URL", &c.DatabaseURL},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && v != "" {
			*s.field = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: PORT must be a number, got %q", v)
		}
		c.Port = port
	}
	if v, ok := lookup("CVT_RENDER_PDF"); ok && v != "" {
		render, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: CVT_RENDER_PDF must be a boolean, got %q", v)
		}
		c.RenderPDF = &render
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	for id, file := range c.Templates {
		if filepath.Base(file) != file {
			return fmt.Errorf("config error: template %q must be a file name inside templates_dir, got %q", id, file)
		}
	}

	if c.OutputDir != "" && c.OutputDir == c.UploadDir {
		return fmt.Errorf("config error: 'output_dir' and 'upload_dir' must differ")
	}

	if c.TemplatesDir != "" {
		if info, err := os.Stat(c.TemplatesDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: templates_dir is not a directory: %s", c.TemplatesDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.TemplatesDir == "" {
		result.TemplatesDir = defaults.TemplatesDir
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.UploadDir == "" {
		result.UploadDir = defaults.UploadDir
	}
	if result.EmptyValue == "" {
		result.EmptyValue = defaults.EmptyValue
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	// Int fields: use default if zero
	if result.PDFTimeoutSeconds == 0 {
		result.PDFTimeoutSeconds = defaults.PDFTimeoutSeconds
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadMB == 0 {
		result.MaxUploadMB = defaults.MaxUploadMB
	}
	if result.RateLimitPerMinute == 0 {
		result.RateLimitPerMinute = defaults.RateLimitPerMinute
	}

	// Pointer and map fields: nil means unset
	if result.RenderPDF == nil && defaults.RenderPDF != nil {
		render := *defaults.RenderPDF
		result.RenderPDF = &render
	}
	if len(result.Templates) == 0 && len(defaults.Templates) > 0 {
		result.Templates = make(map[string]string, len(defaults.Templates))
		for id, file := range defaults.Templates {
			result.Templates[id] = file
		}
	}

	return result
}

// ShouldRenderPDF reports whether generations also produce the fixed-layout PDF.
func (c *Config) ShouldRenderPDF() bool {
	return c.RenderPDF == nil || *c.RenderPDF
}

// PDFTimeout returns the PDF rendering deadline.
func (c *Config) PDFTimeout() time.Duration {
	return time.Duration(c.PDFTimeoutSeconds) * time.Second
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
