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
	"log/slog"
	"time"
)

// permanentError marks a provider failure that another attempt cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// permanent wraps err so retryCall returns it without further attempts.
func permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// retryCall runs a provider call up to attempts times, waiting delay, then
// twice that, and so on between failures. It stops at the first success, when
// ctx is done, or when call returns a permanent error, and returns the last error.
func retryCall(ctx context.Context, logger *slog.Logger, op string, attempts int, delay time.Duration, call func() error) error {
	if attempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := call()
		if err == nil {
			if attempt > 1 {
				logger.Debug("provider call recovered", "op", op, "attempt", attempt)
			}
			return nil
		}

		var stop *permanentError
		if errors.As(err, &stop) {
			logger.Debug("provider call failed, not retrying", "op", op, "attempt", attempt, "err", stop.err)
			return stop.err
		}
		if attempt == attempts {
			return err
		}
		logger.Debug("provider call failed", "op", op, "attempt", attempt, "attempts", attempts, "err", err)

		timer := time.NewTimer(delay << (attempt - 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
