package match

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryCall(t *testing.T) {
	errFlaky := errors.New("flaky")

	tests := []struct {
		name      string
		attempts  int
		failFirst int
		wantCalls int
		wantErr   error
	}{
		{"first try", 3, 0, 1, nil},
		{"recovers", 5, 2, 3, nil},
		{"exhausted", 3, 10, 3, errFlaky},
		{"single attempt", 1, 10, 1, errFlaky},
		{"no attempts", 0, 0, 0, ErrInvalidMaxAttempts},
		{"negative attempts", -1, 0, 0, ErrInvalidMaxAttempts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retryCall(context.Background(), slog.Default(), "test", tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failFirst {
					return errFlaky
				}
				return nil
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRetryCall_Permanent(t *testing.T) {
	calls := 0
	start := time.Now()
	err := retryCall(context.Background(), slog.Default(), "Locate", 5, time.Second, func() error {
		calls++
		return permanent(context.DeadlineExceeded)
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	var stop *permanentError
	assert.False(t, errors.As(err, &stop), "the marker is removed from the returned error")
	assert.Less(t, time.Since(start), time.Second)
	assert.NoError(t, permanent(nil))
}

func TestRetryCall_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retryCall(ctx, slog.Default(), "EmbedTexts", 10, 10*time.Millisecond, func() error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errors.New("unavailable")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}
