package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/natefinch/atomic"
)

// Config holds every setting of the wordchain command.
type Config struct {
	LogLevel      string   `json:"log_level"`
	DatabasePath  string   `json:"database_path"`
	Extensions    []string `json:"extensions"`
	ExitCommand   string   `json:"exit_command"`
	MaxWords      int      `json:"max_words"`
	LineResets    bool     `json:"line_resets_sentence"`
	EOCRegex      string   `json:"eoc_regex"`
	PromptMessage string   `json:"prompt_message"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		DatabasePath:  "./data/wordchain.db",
		Extensions:    []string{".txt", ".md"},
		ExitCommand:   "EXIT",
		MaxWords:      100,
		LineResets:    false,
		EOCRegex:      `[.!?]$`,
		PromptMessage: "Random generated sentence:",
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The command still works with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err = config.validate(); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// validate rejects values that would otherwise fail later at runtime.
func (c *Config) validate() error {
	if _, err := regexp.Compile(c.EOCRegex); err != nil {
		return fmt.Errorf("eoc_regex: %w", err)
	}
	if strings.TrimSpace(c.ExitCommand) == "" {
		return errors.New("exit_command must not be empty")
	}
	return nil
}

// Level maps the configured log level to a slog.Level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
