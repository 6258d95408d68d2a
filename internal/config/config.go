// Package config loads maprdy settings from a JSON file and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ironsheep/maprdy-mcp/internal/history"
	"github.com/ironsheep/maprdy-mcp/internal/logging"
	"github.com/ironsheep/maprdy-mcp/internal/pipeline"
)

// Environment variables consulted by FromEnv.
const (
	EnvConfigPath   = "MAPRDY_CONFIG"
	EnvMaxDimension = "MAPRDY_MAX_DIMENSION"
	EnvOCRLanguage  = "MAPRDY_OCR_LANGUAGE"
)

// DefaultPath is the config file used when MAPRDY_CONFIG is unset.
const DefaultPath = "maprdy.json"

// DefaultMaxDimension caps the longer side of loaded sources, matching the
// largest map capture the editor produces.
const DefaultMaxDimension = 1280

// Config represents the configuration file structure
type Config struct {
	// Settings are the starting pipeline settings of a new session. Fields
	// missing from the file keep their defaults.
	Settings pipeline.Settings `json:"settings"`

	// HistoryLimit bounds the undo depth.
	HistoryLimit int `json:"history_limit"`

	// MaxDimension caps the longer side of a loaded source in pixels.
	// Zero disables fitting.
	MaxDimension int `json:"max_dimension"`

	// OCRLanguage is the Tesseract language used for the text layer.
	OCRLanguage string `json:"ocr_language"`

	// OCRMinConfidence drops recognized words below this confidence (0-100).
	OCRMinConfidence float64 `json:"ocr_min_confidence"`

	// OutputName is the default file name for exported PNGs.
	OutputName string `json:"output_name"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Settings:         pipeline.DefaultSettings(),
		HistoryLimit:     history.DefaultLimit,
		MaxDimension:     DefaultMaxDimension,
		OCRLanguage:      "eng",
		OCRMinConfidence: 50,
		OutputName:       "maprdy-map.png",
		LogLevel:         logging.LevelInfo,
	}
}

// Load reads the config file at path on top of the defaults. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by MAPRDY_CONFIG (or DefaultPath) and then
// applies environment overrides.
func FromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultPath
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv(logging.EnvLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvMaxDimension); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvMaxDimension, v, err)
		}
		cfg.MaxDimension = n
	}
	if v := os.Getenv(EnvOCRLanguage); v != "" {
		cfg.OCRLanguage = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and rewrites LogLevel to its canonical name.
func (c *Config) Validate() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be at least 1, got %d", c.HistoryLimit)
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("max_dimension must not be negative, got %d", c.MaxDimension)
	}
	if c.OCRMinConfidence < 0 || c.OCRMinConfidence > 100 {
		return fmt.Errorf("ocr_min_confidence must be 0-100, got %v", c.OCRMinConfidence)
	}
	level, err := logging.NormalizeLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	c.LogLevel = level
	return nil
}
