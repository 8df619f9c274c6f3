package jobs

import (
	"context"
	"time"
)

// RetryPolicy drives bounded retries with a fixed delay between
// attempts. After the last attempt the failure is dropped by callers.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy matches the delivery guarantees for welcome
// emails: three attempts, five minutes apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 5 * time.Minute}
}

// Run invokes fn until it succeeds, the attempts are exhausted, or the
// context is cancelled. The last error is returned on failure.
func (p RetryPolicy) Run(ctx context.Context, sleep func(context.Context, time.Duration) error, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := fn(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt < attempts {
			if err := sleep(ctx, p.Delay); err != nil {
				return lastErr
			}
		}
	}

	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
