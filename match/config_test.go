package match

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 0.75, cfg.EditSimilarityThreshold)
	assert.Equal(t, 0.80, cfg.EditHighThreshold)
	assert.Equal(t, 0.85, cfg.EmbeddingThreshold)
	assert.Equal(t, 0.95, cfg.EmbeddingHighThreshold)
	assert.Equal(t, 100, cfg.AnchorLength)
	assert.Equal(t, 50, cfg.MaxScanIterations)
	assert.Equal(t, 5000, cfg.LocateHalfWidth)
	assert.Equal(t, 0.5, cfg.WindowOverlap)
	assert.True(t, cfg.EnableRelaxedPattern)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithEditThresholds(0.6, 0.9),
		WithEmbeddingThresholds(0.7, 0.8),
		WithAnchorLength(20),
		WithMaxScanIterations(10),
		WithSlidingWindowStep(3),
		WithWindowOverlap(0.25),
		WithLocateWindow(100, time.Second),
		WithLocateRate(5, 2),
		WithWorkers(3),
		WithProviderRetries(4, time.Millisecond),
		WithRelaxedPattern(false),
		WithTimeout(time.Minute),
	)

	assert.Equal(t, 0.6, cfg.EditSimilarityThreshold)
	assert.Equal(t, 0.9, cfg.EditHighThreshold)
	assert.Equal(t, 0.7, cfg.EmbeddingThreshold)
	assert.Equal(t, 0.8, cfg.EmbeddingHighThreshold)
	assert.Equal(t, 20, cfg.AnchorLength)
	assert.Equal(t, 10, cfg.MaxScanIterations)
	assert.Equal(t, 3, cfg.SlidingWindowStep)
	assert.Equal(t, 0.25, cfg.WindowOverlap)
	assert.Equal(t, 100, cfg.LocateHalfWidth)
	assert.Equal(t, time.Second, cfg.LocateTimeout)
	assert.Equal(t, 5.0, cfg.LocateRatePerSecond)
	assert.Equal(t, 2, cfg.LocateBurst)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 4, cfg.ProviderRetries)
	assert.Equal(t, time.Millisecond, cfg.RetryDelay)
	assert.False(t, cfg.EnableRelaxedPattern)
	assert.Equal(t, time.Minute, cfg.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative edit threshold", func(c *Config) { c.EditSimilarityThreshold = -0.1 }, "EditSimilarityThreshold"},
		{"edit threshold above one", func(c *Config) { c.EditSimilarityThreshold = 1.5 }, "EditSimilarityThreshold"},
		{"edit high below accept", func(c *Config) { c.EditHighThreshold = 0.5 }, "EditHighThreshold"},
		{"negative embedding threshold", func(c *Config) { c.EmbeddingThreshold = -1 }, "EmbeddingThreshold"},
		{"embedding high below accept", func(c *Config) { c.EmbeddingHighThreshold = 0.5 }, "EmbeddingHighThreshold"},
		{"zero anchor length", func(c *Config) { c.AnchorLength = 0 }, "AnchorLength"},
		{"span factor below one", func(c *Config) { c.MultiAnchorSpanFactor = 0.9 }, "MultiAnchorSpanFactor"},
		{"zero scan iterations", func(c *Config) { c.MaxScanIterations = 0 }, "MaxScanIterations"},
		{"negative step", func(c *Config) { c.SlidingWindowStep = -1 }, "SlidingWindowStep"},
		{"full overlap", func(c *Config) { c.WindowOverlap = 1 }, "WindowOverlap"},
		{"zero half width", func(c *Config) { c.LocateHalfWidth = 0 }, "LocateHalfWidth"},
		{"zero locate timeout", func(c *Config) { c.LocateTimeout = 0 }, "LocateTimeout"},
		{"negative rate", func(c *Config) { c.LocateRatePerSecond = -1 }, "LocateRatePerSecond"},
		{"zero burst", func(c *Config) { c.LocateBurst = 0 }, "LocateBurst"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "Workers"},
		{"zero retries", func(c *Config) { c.ProviderRetries = 0 }, "ProviderRetries"},
		{"negative retry delay", func(c *Config) { c.RetryDelay = -time.Second }, "RetryDelay"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "Timeout"},
		{"NaN edit threshold", func(c *Config) { c.EditSimilarityThreshold = math.NaN() }, "EditSimilarityThreshold"},
		{"NaN edit high threshold", func(c *Config) { c.EditHighThreshold = math.NaN() }, "EditHighThreshold"},
		{"NaN embedding high threshold", func(c *Config) { c.EmbeddingHighThreshold = math.NaN() }, "EmbeddingHighThreshold"},
		{"NaN span factor", func(c *Config) { c.MultiAnchorSpanFactor = math.NaN() }, "MultiAnchorSpanFactor"},
		{"infinite span factor", func(c *Config) { c.MultiAnchorSpanFactor = math.Inf(1) }, "MultiAnchorSpanFactor"},
		{"NaN overlap", func(c *Config) { c.WindowOverlap = math.NaN() }, "WindowOverlap"},
		{"NaN rate", func(c *Config) { c.LocateRatePerSecond = math.NaN() }, "LocateRatePerSecond"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestConfigYAML(t *testing.T) {
	doc := []byte(`
edit_similarity_threshold: 0.7
embedding_high_threshold: 0.97
locate_timeout: 5s
locate_rate_per_second: 1.5
enable_relaxed_pattern: false
`)
	cfg := DefaultConfig()
	require.NoError(t, yaml.Unmarshal(doc, cfg))

	assert.Equal(t, 0.7, cfg.EditSimilarityThreshold)
	assert.Equal(t, 0.97, cfg.EmbeddingHighThreshold)
	assert.Equal(t, 5*time.Second, cfg.LocateTimeout)
	assert.Equal(t, 1.5, cfg.LocateRatePerSecond)
	assert.False(t, cfg.EnableRelaxedPattern)
	// untouched fields keep their defaults
	assert.Equal(t, 0.80, cfg.EditHighThreshold)
	require.NoError(t, cfg.Validate())

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "locate_timeout: 5s")
}

func TestConfigYAML_NaN(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, yaml.Unmarshal([]byte("embedding_threshold: .nan\n"), cfg))
	require.True(t, math.IsNaN(cfg.EmbeddingThreshold))

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "EmbeddingThreshold")
}
