// Package config loads fonted settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the editor configuration. Command line flags override it.
type Config struct {
	// Store is the storage backend, "bolt" or "sqlite".
	Store string `env:"FONTED_STORE" envDefault:"bolt"`
	// Path is the storage file.
	Path string `env:"FONTED_STORE_PATH" envDefault:"fonted.db"`
	// Key is the key the font is stored under.
	Key string `env:"FONTED_STORE_KEY" envDefault:"working-font"`
	// Debounce is the autosave delay.
	Debounce time.Duration `env:"FONTED_DEBOUNCE" envDefault:"800ms"`
	Debug    bool          `env:"DEBUG"`
}

// Load returns the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Debounce < 0 {
		return Config{}, fmt.Errorf("FONTED_DEBOUNCE must not be negative, got %s", cfg.Debounce)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
