package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Locator finds where a passage occurs inside a window of text.
// Implementations are allowed to be non-deterministic and must be thread-safe.
type Locator interface {
	// Locate searches window for content. A passage that cannot be found is
	// reported as LocateResult{Found: false} with a nil error; an error means
	// the provider itself failed.
	Locate(ctx context.Context, content, window string) (LocateResult, error)
}

// LocateResult is the answer of a Locator.
// RelativeStart and RelativeEnd are byte offsets into the window, [start, end).
type LocateResult struct {
	Found         bool
	RelativeStart int
	RelativeEnd   int
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Locator returns the passage locate service.
	// The returned Locator is safe for concurrent use.
	Locator() Locator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
