// Package confirm implements the transaction execution and confirmation
// workflow: submit, then poll the read model until the expected state change
// is observed or the polling budget runs out.
package confirm

import (
	"context"
	"time"
)

const (
	// DefaultAttempts is the confirmation polling budget.
	DefaultAttempts = 5
	// DefaultBaseDelay is the linear backoff unit: attempt k waits k times
	// this long before its query.
	DefaultBaseDelay = 2 * time.Second
)

// DelayFunc returns the wait before attempt k (1-indexed).
type DelayFunc func(attempt int) time.Duration

// LinearDelay waits base*k before attempt k.
func LinearDelay(base time.Duration) DelayFunc {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

// Predicate checks whether the expected state change is now observable.
// A returned error counts as "not yet" for that attempt, not as failure:
// submission already happened, so a flaky read must not discard the result.
type Predicate func(ctx context.Context) (bool, error)

// Poll runs predicate up to maxAttempts times, waiting delay(k) before
// attempt k. It returns true as soon as the predicate holds, false when the
// budget is exhausted. Only context cancellation is an error.
func Poll(ctx context.Context, maxAttempts int, delay DelayFunc, predicate Predicate) (bool, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(delay(attempt)):
		}
		ok, err := predicate(ctx)
		if err != nil {
			continue
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
