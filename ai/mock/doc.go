// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Locator,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embeddings, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockLocator := mock.NewMockLocator()
//	mockLocator.LocateFunc = func(ctx context.Context, content, window string) (ai.LocateResult, error) {
//	    return ai.LocateResult{}, errors.New("unavailable")
//	}
//
//	// Check call counts
//	count := mockLocator.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic character-trigram profile vectors, so
//     texts that share most of their wording have a high cosine similarity
//   - MockLocator: Finds the passage verbatim inside the window
//   - MockProvider: Aggregates mock embedder and locator
//
// All mocks are safe for concurrent use.
package mock
