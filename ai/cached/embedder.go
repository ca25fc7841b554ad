package cached

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/poiesic/rematch/ai"
	"github.com/poiesic/rematch/core"
	"github.com/poiesic/rematch/storage"
)

const (
	defaultExpiration      = 30 * time.Minute
	defaultCleanupInterval = 10 * time.Minute
)

// ErrEmbedderRequired is returned when no inner embedder is supplied.
var ErrEmbedderRequired = errors.New("cached: inner embedder is required")

// Embedder wraps an ai.Embedder with a memory and persistent vector cache.
type Embedder struct {
	inner  ai.Embedder
	store  storage.VectorStore
	memory *gocache.Cache
	model  string
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

var _ ai.Embedder = (*Embedder)(nil)

// Option configures an Embedder.
type Option func(*Embedder) error

// WithModel sets the model name mixed into cache keys.
func WithModel(model string) Option {
	return func(e *Embedder) error {
		e.model = model
		return nil
	}
}

// WithExpiration sets how long vectors stay in the memory layer.
func WithExpiration(expiration, cleanupInterval time.Duration) Option {
	return func(e *Embedder) error {
		if expiration <= 0 {
			return fmt.Errorf("cached: expiration must be positive, got %s", expiration)
		}
		e.memory = gocache.New(expiration, cleanupInterval)
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Embedder) error {
		e.logger = logger.With("component", "cached-embedder")
		return nil
	}
}

// NewEmbedder creates a caching embedder. store may be nil, in which case only
// the memory layer is used.
func NewEmbedder(inner ai.Embedder, store storage.VectorStore, opts ...Option) (*Embedder, error) {
	if inner == nil {
		return nil, ErrEmbedderRequired
	}
	e := &Embedder{
		inner:  inner,
		store:  store,
		memory: gocache.New(defaultExpiration, defaultCleanupInterval),
		logger: slog.Default().With("component", "cached-embedder"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// EmbedText returns the cached vector for text, embedding it on a miss.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts returns vectors in input order, embedding only the texts missing
// from both cache layers.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]core.ID, len(texts))

	var pending []int
	for i, text := range texts {
		keys[i] = e.key(text)
		if v, ok := e.memory.Get(memoryKey(keys[i])); ok {
			out[i] = v.([]float32)
			continue
		}
		pending = append(pending, i)
	}

	if len(pending) > 0 && e.store != nil {
		pending = e.loadFromStore(ctx, keys, pending, out)
	}

	hits := len(texts) - len(pending)
	e.hits.Add(int64(hits))
	e.misses.Add(int64(len(pending)))

	if len(pending) == 0 {
		e.logger.Debug("all embeddings served from cache", "count", len(texts))
		return out, nil
	}

	missing := make([]string, len(pending))
	for j, i := range pending {
		missing[j] = texts[i]
	}
	vectors, err := e.inner.EmbedTexts(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missing) {
		return nil, fmt.Errorf("cached: embedder returned %d vectors for %d texts", len(vectors), len(missing))
	}

	fresh := make(map[core.ID][]float32, len(pending))
	for j, i := range pending {
		out[i] = vectors[j]
		fresh[keys[i]] = vectors[j]
		e.memory.SetDefault(memoryKey(keys[i]), vectors[j])
	}
	if e.store != nil {
		if err := e.store.PutVectors(ctx, fresh); err != nil {
			e.logger.Warn("failed to persist embeddings", "count", len(fresh), "err", err)
		}
	}

	e.logger.Debug("embedded texts", "hits", hits, "misses", len(pending))
	return out, nil
}

// loadFromStore fills out from the persistent store and returns the indices still missing.
func (e *Embedder) loadFromStore(ctx context.Context, keys []core.ID, pending []int, out [][]float32) []int {
	lookup := make([]core.ID, len(pending))
	for j, i := range pending {
		lookup[j] = keys[i]
	}
	stored, err := e.store.GetVectors(ctx, lookup...)
	if err != nil {
		e.logger.Warn("vector store lookup failed, treating as miss", "err", err)
		return pending
	}

	remaining := pending[:0]
	for _, i := range pending {
		v, ok := stored[keys[i]]
		if !ok {
			remaining = append(remaining, i)
			continue
		}
		out[i] = v
		e.memory.SetDefault(memoryKey(keys[i]), v)
	}
	return remaining
}

// Stats returns the number of texts served from cache and embedded so far.
func (e *Embedder) Stats() (hits, misses int64) {
	return e.hits.Load(), e.misses.Load()
}

func (e *Embedder) key(text string) core.ID {
	return core.IDFromContent(e.model + "\x00" + text)
}

func memoryKey(id core.ID) string {
	return strconv.FormatUint(uint64(id), 16)
}
