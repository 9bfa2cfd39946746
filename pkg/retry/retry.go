package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy describes a bounded retry loop with increasing delays.
// Every adapter uses the same policy shape instead of ad-hoc sleep loops.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first one
	MaxAttempts int

	// Backoff returns the delay before the given retry (0-indexed attempt that just failed)
	Backoff func(attempt int) time.Duration

	// Retryable reports whether another attempt may succeed. Nil means retry everything.
	Retryable func(err error) bool

	// Sleep waits for the given duration. Nil uses a context-aware timer.
	// Tests inject a fake to avoid real delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

// LinearBackoff returns base, 2*base, 3*base, ...
func LinearBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt+1)
	}
}

// ExponentialBackoff returns base, 2*base, 4*base, ...
func ExponentialBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base * time.Duration(1<<attempt)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do calls fn until it succeeds, the attempts are exhausted, or the error
// is not retryable. fn receives the 0-indexed attempt number.
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}

		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}

		if attempt == attempts-1 {
			break
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		if delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
