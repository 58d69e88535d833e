package utils

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
)

// RetryConfig parameterizes a bounded retry of a fallible call.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff returns the delay before retry n (1-based).
	Backoff func(retry int) time.Duration
	// NonRetryable short-circuits the loop; the error is returned as-is.
	NonRetryable func(error) bool
}

// LinearBackoff returns a backoff function growing linearly: unit, 2*unit, ...
func LinearBackoff(unit time.Duration) func(int) time.Duration {
	return func(retry int) time.Duration {
		return unit * time.Duration(retry)
	}
}

// Retry runs fn up to cfg.MaxAttempts times, sleeping cfg.Backoff between
// attempts. Exhausting the budget surfaces the last error.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if cfg.NonRetryable != nil && cfg.NonRetryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		var delay time.Duration
		if cfg.Backoff != nil {
			delay = cfg.Backoff(attempt)
		}
		logger.WithError(err).WithFields(map[string]interface{}{
			"attempt": attempt,
			"delay":   delay.String(),
		}).Warn("retrying after transient failure")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}
