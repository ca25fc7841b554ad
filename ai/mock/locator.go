package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/rematch/ai"
)

// MockLocator is a test double for ai.Locator.
// It allows custom behavior injection via function fields.
type MockLocator struct {
	// LocateFunc is called by Locate if set.
	// If nil, searches the window for the exact content.
	LocateFunc func(ctx context.Context, content, window string) (ai.LocateResult, error)

	mu        sync.Mutex
	callCount int
}

// NewMockLocator creates a mock locator with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockLocator().
func NewMockLocator() *MockLocator {
	return &MockLocator{}
}

// Locate finds content in window.
func (m *MockLocator) Locate(ctx context.Context, content, window string) (ai.LocateResult, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.LocateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, content, window)
	}

	i := strings.Index(window, content)
	if i < 0 || content == "" {
		return ai.LocateResult{}, nil
	}
	return ai.LocateResult{Found: true, RelativeStart: i, RelativeEnd: i + len(content)}, nil
}

// CallCount returns the number of times Locate was called.
func (m *MockLocator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockLocator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.LocateFunc = nil
}
