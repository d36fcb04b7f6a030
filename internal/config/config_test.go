package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rescan interval", func(c *Config) { c.Engine.RescanInterval = 0 }},
		{"zero find timeout", func(c *Config) { c.Engine.FindTimeout = 0 }},
		{"similarity above one", func(c *Config) { c.Engine.Similarity = 1.5 }},
		{"inverted adaptive range", func(c *Config) { c.Engine.LowerSimilarity = 0.95 }},
		{"zero similarity step", func(c *Config) { c.Engine.SimilarityStep = 0 }},
		{"unknown backend", func(c *Config) { c.Display.Backend = "fbdev" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"no target paths", func(c *Config) { c.Targets.Paths = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("SCREENPILOT_FIND_TIMEOUT", "30")
	t.Setenv("SCREENPILOT_RESCAN_INTERVAL_MS", "50")
	t.Setenv("SCREENPILOT_SIMILARITY", "0.75")
	t.Setenv("SCREENPILOT_WAIT_FOR_ANIMATIONS", "true")
	t.Setenv("SCREENPILOT_DISPLAY_BACKEND", "x11")
	t.Setenv("SCREENPILOT_DB_PATH", "/tmp/test.db")
	t.Setenv("SCREENPILOT_LOG_LEVEL", "debug")

	cfg := New()
	assert.Equal(t, 30*time.Second, cfg.Engine.FindTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.Engine.RescanInterval)
	assert.InDelta(t, 0.75, cfg.Engine.Similarity, 1e-9)
	assert.True(t, cfg.Engine.WaitForAnimations)
	assert.Equal(t, "x11", cfg.Display.Backend)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("SCREENPILOT_FIND_TIMEOUT", "not-a-number")
	t.Setenv("SCREENPILOT_SIMILARITY", "2.5")

	cfg := New()
	assert.Equal(t, Default().Engine.FindTimeout, cfg.Engine.FindTimeout)
	assert.InDelta(t, Default().Engine.Similarity, cfg.Engine.Similarity, 1e-9)
}
