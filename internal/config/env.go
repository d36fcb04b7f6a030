package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default values
func LoadFromEnv(cfg *Config) {
	// Engine configuration
	if findTimeout := os.Getenv("SCREENPILOT_FIND_TIMEOUT"); findTimeout != "" {
		if seconds, err := strconv.Atoi(findTimeout); err == nil && seconds > 0 {
			cfg.Engine.FindTimeout = time.Duration(seconds) * time.Second
		}
	}

	if rescan := os.Getenv("SCREENPILOT_RESCAN_INTERVAL_MS"); rescan != "" {
		if ms, err := strconv.Atoi(rescan); err == nil && ms > 0 {
			cfg.Engine.RescanInterval = time.Duration(ms) * time.Millisecond
		}
	}

	if similarity := os.Getenv("SCREENPILOT_SIMILARITY"); similarity != "" {
		if val, err := strconv.ParseFloat(similarity, 64); err == nil && val >= 0 && val <= 1 {
			cfg.Engine.Similarity = val
		}
	}

	if animations := os.Getenv("SCREENPILOT_WAIT_FOR_ANIMATIONS"); animations != "" {
		if val, err := strconv.ParseBool(animations); err == nil {
			cfg.Engine.WaitForAnimations = val
		}
	}

	if saveNeedle := os.Getenv("SCREENPILOT_SAVE_NEEDLE_ON_ERROR"); saveNeedle != "" {
		if val, err := strconv.ParseBool(saveNeedle); err == nil {
			cfg.Engine.SaveNeedleOnError = val
		}
	}

	if dumpDir := os.Getenv("SCREENPILOT_DUMP_DIR"); dumpDir != "" {
		cfg.Engine.DumpDir = dumpDir
	}

	if smooth := os.Getenv("SCREENPILOT_SMOOTH_MOUSE"); smooth != "" {
		if val, err := strconv.ParseBool(smooth); err == nil {
			cfg.Engine.SmoothMouse = val
		}
	}

	// Display configuration
	if backend := os.Getenv("SCREENPILOT_DISPLAY_BACKEND"); backend != "" {
		cfg.Display.Backend = backend
	}

	// Database configuration
	if dbPath := os.Getenv("SCREENPILOT_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Logging configuration
	if level := os.Getenv("SCREENPILOT_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if file := os.Getenv("SCREENPILOT_LOG_FILE"); file != "" {
		cfg.Logging.File = file
	}

	// Targets configuration
	if paths := os.Getenv("SCREENPILOT_TARGET_PATHS"); paths != "" {
		cfg.Targets.Paths = strings.Split(paths, string(os.PathListSeparator))
	}
}

// New creates a new Config with default values and loads from environment
func New() *Config {
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}
