package service

import (
	"context"
	"time"
)

// backoffDelay returns the wait before the next optimistic retry:
// base * 2^attempt, attempt counted from zero.
func backoffDelay(attempt int, base time.Duration) time.Duration {
	return base * time.Duration(1<<attempt)
}

// sleepContext waits for d or until ctx is done, whichever comes first.
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
