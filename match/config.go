package match

import (
	"fmt"
	"math"
	"runtime"
	"time"
)

// Config holds the tunable thresholds and limits of a Matcher.
// The similarity thresholds are calibration defaults, not invariants.
type Config struct {
	// EditSimilarityThreshold is the minimum edit similarity a sliding window
	// probe needs to be accepted. Default: 0.75
	EditSimilarityThreshold float64 `yaml:"edit_similarity_threshold"`

	// EditHighThreshold is the edit similarity from which a sliding window
	// match is reported as High instead of Medium. Default: 0.80
	EditHighThreshold float64 `yaml:"edit_high_threshold"`

	// EmbeddingThreshold is the minimum cosine similarity for an embedding
	// window to be accepted. Default: 0.85
	EmbeddingThreshold float64 `yaml:"embedding_threshold"`

	// EmbeddingHighThreshold is the cosine similarity from which an embedding
	// match is reported as High instead of Medium. Default: 0.95
	EmbeddingHighThreshold float64 `yaml:"embedding_high_threshold"`

	// AnchorLength is the length in runes of each multi-anchor probe.
	// Chunks shorter than three anchors skip multi-anchor search. Default: 100
	AnchorLength int `yaml:"anchor_length"`

	// MultiAnchorSpanFactor bounds a multi-anchor match to this multiple of
	// the chunk length. Default: 1.5
	MultiAnchorSpanFactor float64 `yaml:"multi_anchor_span_factor"`

	// MaxScanIterations caps the windows scored by one sliding window search,
	// counting both passes and refinement, and the first-anchor occurrences
	// tried by multi-anchor search. Default: 50
	MaxScanIterations int `yaml:"max_scan_iterations"`

	// SlidingWindowStep is the sliding window step in bytes.
	// Zero picks len(content)/20 clamped to [5, 10]. The step is widened
	// when needed to respect MaxScanIterations. Default: 0
	SlidingWindowStep int `yaml:"sliding_window_step"`

	// WindowOverlap is the fraction by which consecutive embedding windows
	// overlap, in [0, 1). Default: 0.5
	WindowOverlap float64 `yaml:"window_overlap"`

	// LocateHalfWidth is the number of bytes on each side of the estimated
	// position handed to the locator. Default: 5000
	LocateHalfWidth int `yaml:"locate_half_width"`

	// LocateTimeout bounds each individual locate call. Default: 30s
	LocateTimeout time.Duration `yaml:"locate_timeout"`

	// LocateRatePerSecond throttles locate calls. Zero means unlimited.
	LocateRatePerSecond float64 `yaml:"locate_rate_per_second"`

	// LocateBurst is the number of locate calls allowed at once when
	// throttled. Default: 1
	LocateBurst int `yaml:"locate_burst"`

	// Workers is the number of concurrent locate calls.
	// Default: runtime.NumCPU() / 2, with a minimum of 1.
	Workers int `yaml:"workers"`

	// ProviderRetries is the number of attempts made for each provider call.
	// Default: 2
	ProviderRetries int `yaml:"provider_retries"`

	// RetryDelay is the base delay between provider attempts; it doubles on
	// every retry. Default: 250ms
	RetryDelay time.Duration `yaml:"retry_delay"`

	// EnableRelaxedPattern enables the case-, quote- and dash-insensitive
	// substring search of Layer 1. Default: true
	EnableRelaxedPattern bool `yaml:"enable_relaxed_pattern"`

	// Timeout bounds the matching layers of a whole run. When it expires the
	// remaining chunks are interpolated. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEditThresholds sets the sliding window accept and High thresholds.
func WithEditThresholds(accept, high float64) ConfigOption {
	return func(c *Config) {
		c.EditSimilarityThreshold = accept
		c.EditHighThreshold = high
	}
}

// WithEmbeddingThresholds sets the embedding accept and High thresholds.
func WithEmbeddingThresholds(accept, high float64) ConfigOption {
	return func(c *Config) {
		c.EmbeddingThreshold = accept
		c.EmbeddingHighThreshold = high
	}
}

// WithAnchorLength sets the multi-anchor probe length in runes.
func WithAnchorLength(runes int) ConfigOption {
	return func(c *Config) {
		c.AnchorLength = runes
	}
}

// WithMaxScanIterations sets the Layer 1 probe cap.
func WithMaxScanIterations(n int) ConfigOption {
	return func(c *Config) {
		c.MaxScanIterations = n
	}
}

// WithSlidingWindowStep sets a fixed sliding window step in bytes.
func WithSlidingWindowStep(step int) ConfigOption {
	return func(c *Config) {
		c.SlidingWindowStep = step
	}
}

// WithWindowOverlap sets the embedding window overlap.
func WithWindowOverlap(overlap float64) ConfigOption {
	return func(c *Config) {
		c.WindowOverlap = overlap
	}
}

// WithLocateWindow sets the locator window half-width and per-call timeout.
func WithLocateWindow(halfWidth int, timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.LocateHalfWidth = halfWidth
		c.LocateTimeout = timeout
	}
}

// WithLocateRate throttles locate calls to perSecond with the given burst.
func WithLocateRate(perSecond float64, burst int) ConfigOption {
	return func(c *Config) {
		c.LocateRatePerSecond = perSecond
		c.LocateBurst = burst
	}
}

// WithWorkers sets the number of concurrent locate calls.
func WithWorkers(n int) ConfigOption {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithProviderRetries sets the attempts per provider call and the base backoff.
func WithProviderRetries(attempts int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.ProviderRetries = attempts
		c.RetryDelay = delay
	}
}

// WithRelaxedPattern enables or disables the relaxed substring strategy.
func WithRelaxedPattern(enabled bool) ConfigOption {
	return func(c *Config) {
		c.EnableRelaxedPattern = enabled
	}
}

// WithTimeout sets the run deadline.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config with the default thresholds.
func DefaultConfig() *Config {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	return &Config{
		EditSimilarityThreshold: 0.75,
		EditHighThreshold:       0.80,
		EmbeddingThreshold:      0.85,
		EmbeddingHighThreshold:  0.95,
		AnchorLength:            100,
		MultiAnchorSpanFactor:   1.5,
		MaxScanIterations:       50,
		SlidingWindowStep:       0,
		WindowOverlap:           0.5,
		LocateHalfWidth:         5000,
		LocateTimeout:           30 * time.Second,
		LocateRatePerSecond:     0,
		LocateBurst:             1,
		Workers:                 workers,
		ProviderRetries:         2,
		RetryDelay:              250 * time.Millisecond,
		EnableRelaxedPattern:    true,
		Timeout:                 0,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithEditThresholds(0.7, 0.85),
//	    WithLocateRate(2, 1),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that every threshold and limit is usable. NaN fails every
// range check. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := checkUnit("EditSimilarityThreshold", c.EditSimilarityThreshold); err != nil {
		return err
	}
	if err := checkUnit("EditHighThreshold", c.EditHighThreshold); err != nil {
		return err
	}
	if c.EditHighThreshold < c.EditSimilarityThreshold {
		return invalid("EditHighThreshold %.2f is below EditSimilarityThreshold %.2f", c.EditHighThreshold, c.EditSimilarityThreshold)
	}
	if err := checkUnit("EmbeddingThreshold", c.EmbeddingThreshold); err != nil {
		return err
	}
	if err := checkUnit("EmbeddingHighThreshold", c.EmbeddingHighThreshold); err != nil {
		return err
	}
	if c.EmbeddingHighThreshold < c.EmbeddingThreshold {
		return invalid("EmbeddingHighThreshold %.2f is below EmbeddingThreshold %.2f", c.EmbeddingHighThreshold, c.EmbeddingThreshold)
	}
	if c.AnchorLength < 1 {
		return invalid("AnchorLength must be positive, got %d", c.AnchorLength)
	}
	if !(c.MultiAnchorSpanFactor >= 1) || math.IsInf(c.MultiAnchorSpanFactor, 1) {
		return invalid("MultiAnchorSpanFactor must be at least 1, got %.2f", c.MultiAnchorSpanFactor)
	}
	if c.MaxScanIterations < 1 {
		return invalid("MaxScanIterations must be positive, got %d", c.MaxScanIterations)
	}
	if c.SlidingWindowStep < 0 {
		return invalid("SlidingWindowStep must not be negative, got %d", c.SlidingWindowStep)
	}
	if !(c.WindowOverlap >= 0 && c.WindowOverlap < 1) {
		return invalid("WindowOverlap must be in [0, 1), got %.2f", c.WindowOverlap)
	}
	if c.LocateHalfWidth < 1 {
		return invalid("LocateHalfWidth must be positive, got %d", c.LocateHalfWidth)
	}
	if c.LocateTimeout <= 0 {
		return invalid("LocateTimeout must be positive, got %s", c.LocateTimeout)
	}
	if !(c.LocateRatePerSecond >= 0) {
		return invalid("LocateRatePerSecond must not be negative, got %.2f", c.LocateRatePerSecond)
	}
	if c.LocateBurst < 1 {
		return invalid("LocateBurst must be positive, got %d", c.LocateBurst)
	}
	if c.Workers < 1 {
		return invalid("Workers must be positive, got %d", c.Workers)
	}
	if c.ProviderRetries < 1 {
		return invalid("ProviderRetries must be positive, got %d", c.ProviderRetries)
	}
	if c.RetryDelay < 0 {
		return invalid("RetryDelay must not be negative, got %s", c.RetryDelay)
	}
	if c.Timeout < 0 {
		return invalid("Timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

func checkUnit(name string, v float64) error {
	if !(v >= 0 && v <= 1) {
		return invalid("%s must be in [0, 1], got %.2f", name, v)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
