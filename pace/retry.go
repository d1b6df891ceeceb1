package pace

import (
	"context"
	"time"
)

// DefaultRetryDelays returns the backoff delays between attempts: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// RetryFunc is notified before each retry with the attempt about to run.
type RetryFunc func(attempt int, err error)

// Retry calls fn up to len(delays)+1 times, waiting delays[i] after the
// i-th failure. It returns nil on the first success, the context error when
// ctx ends, and otherwise the last error from fn.
func Retry(ctx context.Context, delays []time.Duration, fn func(context.Context) error, onRetry RetryFunc) error {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
