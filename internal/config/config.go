package config

import (
	"fmt"

	"github.com/screenpilot/screenpilot/pkg/screen"
)

// Config holds all application configuration
type Config struct {
	// Engine configuration passed down to regions
	Engine screen.Settings

	// Display configuration
	Display DisplayConfig

	// Database configuration
	Database DatabaseConfig

	// Logging configuration
	Logging LoggingConfig

	// Targets configuration
	Targets TargetsConfig
}

// DisplayConfig selects the display backend
type DisplayConfig struct {
	Backend string // "auto", "x11" or "wayland"
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file, empty means ~/.config/screenpilot/screenpilot.db
}

// LoggingConfig holds logger construction parameters
type LoggingConfig struct {
	Level string // "debug", "info", "warn" or "error"
	File  string // Optional log file path; empty means console only
}

// TargetsConfig holds target resolution configuration
type TargetsConfig struct {
	Paths []string // Directories searched for target data files
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Engine: screen.DefaultSettings(),
		Display: DisplayConfig{
			Backend: "auto",
		},
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/screenpilot/screenpilot.db
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Targets: TargetsConfig{
			Paths: []string{"."},
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Engine.RescanInterval <= 0 {
		return fmt.Errorf("rescan interval must be positive, got %v", c.Engine.RescanInterval)
	}

	if c.Engine.FindTimeout <= 0 {
		return fmt.Errorf("find timeout must be positive, got %v", c.Engine.FindTimeout)
	}

	if c.Engine.Similarity < 0 || c.Engine.Similarity > 1 {
		return fmt.Errorf("similarity must be within [0,1], got %v", c.Engine.Similarity)
	}

	if c.Engine.LowerSimilarity > c.Engine.UpperSimilarity {
		return fmt.Errorf("lower similarity (%v) cannot exceed upper similarity (%v)",
			c.Engine.LowerSimilarity, c.Engine.UpperSimilarity)
	}

	if c.Engine.SimilarityStep <= 0 {
		return fmt.Errorf("similarity step must be positive, got %v", c.Engine.SimilarityStep)
	}

	switch c.Display.Backend {
	case "auto", "x11", "wayland":
	default:
		return fmt.Errorf("unknown display backend %q", c.Display.Backend)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}

	if len(c.Targets.Paths) == 0 {
		return fmt.Errorf("target search path cannot be empty")
	}

	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Engine:
    Find Timeout: %v
    Rescan Interval: %v
    Similarity: %.2f (adaptive %.2f..%.2f step %.3f)
    Dump Dir: %s
  Display:
    Backend: %s
  Database:
    Path: %s
  Logging:
    Level: %s
    File: %s
  Targets:
    Paths: %v`,
		c.Engine.FindTimeout,
		c.Engine.RescanInterval,
		c.Engine.Similarity,
		c.Engine.LowerSimilarity,
		c.Engine.UpperSimilarity,
		c.Engine.SimilarityStep,
		c.Engine.DumpDir,
		c.Display.Backend,
		c.Database.Path,
		c.Logging.Level,
		c.Logging.File,
		c.Targets.Paths,
	)
}
