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


package rematch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/rematch/ai"
	"github.com/poiesic/rematch/ai/cached"
	"github.com/poiesic/rematch/ai/openai"
	"github.com/poiesic/rematch/core"
	"github.com/poiesic/rematch/match"
	"github.com/poiesic/rematch/storage"
	"github.com/poiesic/rematch/storage/badger"
)

// defaultCacheNamespace keys cached vectors when the embedding model is unknown.
const defaultCacheNamespace = "default"

// Engine wires an AI provider, an optional persistent embedding cache and a
// matcher into one handle.
type Engine struct {
	matcher  *match.Matcher
	provider ai.AIProvider
	embedder *cached.Embedder
	store    storage.VectorStore
	backend  *badger.Backend
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig      *ai.Config
	provider      ai.AIProvider
	matchConfig   *match.Config
	cachePath     string
	useEmbeddings bool
	useLocator    bool
	logger        *slog.Logger
}

// WithAIConfig enables the OpenAI-compatible provider with the given settings.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses an existing provider instead of building one.
// The engine takes ownership and closes it on Close.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithMatchConfig sets the matcher thresholds. Default is match.DefaultConfig().
func WithMatchConfig(config *match.Config) EngineOption {
	return func(o *engineOptions) {
		o.matchConfig = config
	}
}

// WithCachePath persists embeddings in a badger database at path.
func WithCachePath(path string) EngineOption {
	return func(o *engineOptions) {
		o.cachePath = path
	}
}

// WithoutEmbeddings disables Layer 2 even when a provider is configured.
func WithoutEmbeddings() EngineOption {
	return func(o *engineOptions) {
		o.useEmbeddings = false
	}
}

// WithoutLocator disables Layer 3 even when a provider is configured.
func WithoutLocator() EngineOption {
	return func(o *engineOptions) {
		o.useLocator = false
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine assembles an Engine. Without WithAIConfig or WithProvider only the
// textual layers and interpolation run.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		useEmbeddings: true,
		useLocator:    true,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	e := &Engine{
		provider: options.provider,
		logger:   options.logger.With("component", "engine"),
	}

	if e.provider == nil && options.aiConfig != nil {
		provider, err := openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
		e.provider = provider
	}

	var matchOpts []match.Option
	matchOpts = append(matchOpts, match.WithLogger(options.logger))

	if e.provider != nil && options.useEmbeddings {
		var embedder ai.Embedder = e.provider.Embedder()
		if options.cachePath != "" {
			if err := e.openCache(options); err != nil {
				e.Close()
				return nil, err
			}
			embedder = e.embedder
		}
		matchOpts = append(matchOpts, match.WithEmbedder(embedder))
	}
	if e.provider != nil && options.useLocator {
		matchOpts = append(matchOpts, match.WithLocator(e.provider.Locator()))
	}

	matcher, err := match.NewMatcher(options.matchConfig, matchOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.matcher = matcher

	e.logger.Debug("engine ready",
		"provider", e.provider != nil,
		"embeddings", options.useEmbeddings && e.provider != nil,
		"locator", options.useLocator && e.provider != nil,
		"cache", options.cachePath)
	return e, nil
}

// openCache opens the badger backend and wraps the provider's embedder with it.
// Vectors are namespaced by embedding model so switching models never mixes them.
func (e *Engine) openCache(options *engineOptions) error {
	backend, err := badger.OpenBackend(options.cachePath, false)
	if err != nil {
		return err
	}
	e.backend = backend

	namespace := defaultCacheNamespace
	if options.aiConfig != nil && options.aiConfig.EmbeddingModel != "" {
		namespace = options.aiConfig.EmbeddingModel
	}
	store, err := badger.NewVectorRepository(backend, namespace)
	if err != nil {
		return err
	}
	e.store = store

	embedder, err := cached.NewEmbedder(e.provider.Embedder(), store,
		cached.WithModel(namespace), cached.WithLogger(options.logger))
	if err != nil {
		return err
	}
	e.embedder = embedder
	return nil
}

// Match recovers the position of every chunk in target.
func (e *Engine) Match(ctx context.Context, chunks []core.SourceChunk, target string) (*match.Result, error) {
	return e.matcher.Match(ctx, chunks, target)
}

// MatchWithMonitor is Match with progress callbacks.
func (e *Engine) MatchWithMonitor(ctx context.Context, chunks []core.SourceChunk, target string, monitor match.MatchMonitor) (*match.Result, error) {
	return e.matcher.MatchWithMonitor(ctx, chunks, target, monitor)
}

// Matcher returns the underlying matcher.
func (e *Engine) Matcher() *match.Matcher {
	return e.matcher
}

// CacheStats returns embedding cache hits and misses. Both are zero when no
// cache is configured.
func (e *Engine) CacheStats() (hits, misses int64) {
	if e.embedder == nil {
		return 0, 0
	}
	return e.embedder.Stats()
}

// Close releases the worker pool, the provider and the cache backend.
func (e *Engine) Close() error {
	if e.matcher != nil {
		e.matcher.Release()
	}

	var errs []error
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Error("error closing vector store", "err", err)
			errs = append(errs, err)
		}
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
