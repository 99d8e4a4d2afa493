// Package config loads settings for the calc and rps programs from YAML or
// JSON files. Command-line flags override loaded values.
package config

import (
	"errors"
	"fmt"

	"github.com/zephyrtronium/calc/internal/observe"
)

// Config holds settings for both programs.
type Config struct {
	// LogLevel is debug, info, warn, or error.
	LogLevel string `yaml:"log_level" json:"log_level"`
	// Telemetry logs spans and metrics to stderr.
	Telemetry bool `yaml:"telemetry" json:"telemetry"`
	Calc      Calc `yaml:"calc" json:"calc"`
	RPS       RPS  `yaml:"rps" json:"rps"`
}

// Calc holds calculator settings.
type Calc struct {
	// Format is a printf verb for results. Empty means the calculator
	// display format.
	Format string `yaml:"format" json:"format"`
	// Lines parses each input line as a separate expression.
	Lines bool `yaml:"lines" json:"lines"`
	// MaxDepth is the expression nesting limit. Zero means the default.
	MaxDepth int `yaml:"max_depth" json:"max_depth"`
}

// RPS holds game settings.
type RPS struct {
	// Emoji shows the emoji VS line after each round.
	Emoji bool `yaml:"emoji" json:"emoji"`
	// History is the path of an SQLite database recording rounds. Empty
	// keeps history in memory for the session only.
	History string `yaml:"history" json:"history"`
	// Seed seeds the computer's choices. Zero means a random seed.
	Seed int64 `yaml:"seed" json:"seed"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "warn",
	}
}

// Validate checks that settings are usable.
func (c Config) Validate() error {
	var errs []error
	if _, err := observe.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Calc.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("calc.max_depth must not be negative, got %d", c.Calc.MaxDepth))
	}
	return errors.Join(errs...)
}
