// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/rematch/ai"
	"github.com/poiesic/rematch/core"
	"golang.org/x/time/rate"
)

// Matcher recovers chunk positions. It holds no per-run state, so one Matcher
// can serve many runs, including concurrent ones.
type Matcher struct {
	config   *Config
	fuzzy    *fuzzyMatcher
	embedder ai.Embedder
	locator  ai.Locator
	pool     *ants.Pool
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithEmbedder enables Layer 2 with the given embedder.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(m *Matcher) error {
		m.embedder = embedder
		return nil
	}
}

// WithLocator enables Layer 3 with the given locator.
func WithLocator(locator ai.Locator) Option {
	return func(m *Matcher) error {
		m.locator = locator
		return nil
	}
}

// WithProvider enables Layers 2 and 3 with the provider's services.
func WithProvider(provider ai.AIProvider) Option {
	return func(m *Matcher) error {
		if provider == nil {
			return errors.New("match: provider is nil")
		}
		m.embedder = provider.Embedder()
		m.locator = provider.Locator()
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger.With("component", "matcher")
		return nil
	}
}

// NewMatcher creates a Matcher. A nil config means DefaultConfig().
// The config is validated and copied; later changes to it have no effect.
func NewMatcher(config *Config, opts ...Option) (*Matcher, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cfg := *config

	m := &Matcher{
		config: &cfg,
		fuzzy:  &fuzzyMatcher{config: &cfg},
		logger: slog.Default().With("component", "matcher"),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, err
	}
	m.pool = pool

	if cfg.LocateRatePerSecond > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(cfg.LocateRatePerSecond), cfg.LocateBurst)
	}
	return m, nil
}

// Config returns a copy of the matcher's configuration.
func (m *Matcher) Config() Config {
	return *m.config
}

// Release releases the worker pool. The Matcher must not be used afterwards.
func (m *Matcher) Release() {
	if m.pool != nil {
		m.pool.Release()
	}
}

// Match recovers the position of every chunk in target.
// Chunks must be ordered by strictly increasing Index; otherwise
// core.ErrChunkOrder is returned before any matching.
func (m *Matcher) Match(ctx context.Context, chunks []core.SourceChunk, target string) (*Result, error) {
	return m.MatchWithMonitor(ctx, chunks, target, nil)
}

// MatchWithMonitor is Match with callbacks at each stage of the cascade.
//
// Provider failures and timeouts never fail the run. If the context deadline or
// Config.Timeout expires while matching, the remaining chunks are interpolated
// and Stats.TimedOut is set. Cancelling ctx aborts the run with ctx.Err().
func (m *Matcher) MatchWithMonitor(ctx context.Context, chunks []core.SourceChunk, target string, monitor MatchMonitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if err := core.ValidateChunkOrder(chunks); err != nil {
		return nil, err
	}

	begin := time.Now()
	runCtx := ctx
	if m.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, m.config.Timeout)
		defer cancel()
	}

	r := newRun(runCtx, chunks, target, monitor, m.logger)
	r.logger.Debug("starting match", "chunks", len(chunks), "target_length", len(target))
	monitor.Start(r.stats.RunID, len(chunks), len(target))

	r.flagMalformed()
	m.matchFuzzy(r)
	m.matchEmbeddings(r)
	m.matchAssisted(r)

	if err := ctx.Err(); errors.Is(err, context.Canceled) {
		return nil, err
	}

	r.interpolate()
	result, err := r.finish(time.Since(begin))
	if err != nil {
		return nil, err
	}

	r.logger.Info("match finished",
		"chunks", result.Stats.Chunks,
		"anchors", result.Stats.Chunks-result.Stats.ByConfidence[core.ConfidenceSynthetic],
		"corrections", result.Stats.Corrections,
		"provider_failures", result.Stats.ProviderFailures,
		"timed_out", result.Stats.TimedOut,
		"duration", result.Stats.Duration)
	monitor.Finish(result)
	return result, nil
}

// matchFuzzy runs Layer 1 sequentially, advancing the search hint past each match.
func (m *Matcher) matchFuzzy(r *run) {
	pending := r.pending()
	if len(pending) == 0 {
		return
	}
	r.monitor.LayerStarted(LayerFuzzy, len(pending))

	hint, matched := 0, 0
	for _, pos := range pending {
		if r.expired() {
			break
		}
		s, ok := m.fuzzy.match(r.chunks[pos].Content, r.target, hint)
		if !ok {
			continue
		}
		r.assign(pos, LayerFuzzy, s)
		hint = s.end
		matched++
	}
	r.logger.Debug("fuzzy layer finished", "pending", len(pending), "matched", matched)
	r.monitor.LayerFinished(LayerFuzzy, matched)
}

// run is the state of one Match call. It is confined to the calling goroutine;
// Layer 3 workers only write their own outcome slots.
type run struct {
	ctx       context.Context
	chunks    []core.SourceChunk
	target    string
	spans     []*span
	malformed []bool
	warnings  []core.Warning
	stats     Stats
	monitor   MatchMonitor
	logger    *slog.Logger
}

func newRun(ctx context.Context, chunks []core.SourceChunk, target string, monitor MatchMonitor, logger *slog.Logger) *run {
	id := uuid.NewString()
	return &run{
		ctx:       ctx,
		chunks:    chunks,
		target:    target,
		spans:     make([]*span, len(chunks)),
		malformed: make([]bool, len(chunks)),
		stats:     newStats(id, len(chunks)),
		monitor:   monitor,
		logger:    logger.With("run", id),
	}
}

// flagMalformed marks chunks without matchable content; they skip Layers 1 to 3.
func (r *run) flagMalformed() {
	for i := range r.chunks {
		if err := core.ValidateChunk(&r.chunks[i]); err != nil {
			r.malformed[i] = true
			r.stats.MalformedChunks++
			r.warnings = append(r.warnings, core.Warning{
				Kind:       core.WarningMalformedChunk,
				ChunkIndex: r.chunks[i].Index,
				Message:    err.Error(),
			})
		}
	}
}

// pending returns the positions still unmatched and eligible for Layers 1 to 3.
func (r *run) pending() []int {
	var out []int
	for i, s := range r.spans {
		if s == nil && !r.malformed[i] {
			out = append(out, i)
		}
	}
	return out
}

// expired reports whether the run context is done, recording a timeout.
func (r *run) expired() bool {
	err := r.ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) && !r.stats.TimedOut {
		r.stats.TimedOut = true
		r.logger.Warn("match deadline exceeded, interpolating remaining chunks")
	}
	return err != nil
}

func (r *run) assign(pos int, layer Layer, s span) {
	r.spans[pos] = &s
	r.monitor.ChunkMatched(layer, r.result(pos))
}

func (r *run) providerFailure(chunkIndex int, err error) {
	r.stats.ProviderFailures++
	r.logger.Warn("provider call failed", "chunk", chunkIndex, "err", err)
	r.warnings = append(r.warnings, core.Warning{
		Kind:       core.WarningProviderFailure,
		ChunkIndex: chunkIndex,
		Message:    err.Error(),
	})
}

func (r *run) result(pos int) core.MatchResult {
	s := r.spans[pos]
	return core.MatchResult{
		ChunkIndex:  r.chunks[pos].Index,
		StartOffset: s.start,
		EndOffset:   s.end,
		Confidence:  s.confidence,
		Method:      s.method,
		Similarity:  s.similarity,
		Metadata:    r.chunks[pos].Metadata,
	}
}

// finish sequences the complete result set, checks every result against the
// target and aggregates the stats.
func (r *run) finish(elapsed time.Duration) (*Result, error) {
	results := make([]core.MatchResult, len(r.chunks))
	for i := range r.chunks {
		results[i] = r.result(i)
	}

	for _, event := range sequence(results, r.chunks, r.target) {
		r.monitor.OrderCorrected(event)
		r.warnings = append(r.warnings, core.Warning{
			Kind:       core.WarningOrderCorrected,
			ChunkIndex: event.ChunkIndex,
			Message: fmt.Sprintf("moved from [%d, %d) to [%d, %d), %s to %s",
				event.OldStart, event.OldEnd, event.NewStart, event.NewEnd, event.OldConfidence, event.NewConfidence),
			Correction: &event,
		})
		r.stats.Corrections++
	}

	for i := range results {
		if err := core.ValidateMatchResult(&results[i], len(r.target)); err != nil {
			return nil, err
		}
	}

	for _, res := range results {
		r.stats.ByConfidence[res.Confidence]++
		r.stats.ByMethod[res.Method]++
	}
	r.stats.Duration = elapsed

	warnings := r.warnings
	if warnings == nil {
		warnings = []core.Warning{}
	}
	return &Result{Results: results, Warnings: warnings, Stats: r.stats}, nil
}
