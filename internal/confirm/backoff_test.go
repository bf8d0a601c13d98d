package confirm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollStopsOnFirstSuccess(t *testing.T) {
	calls := 0
	ok, err := Poll(context.Background(), 5, LinearDelay(time.Millisecond), func(ctx context.Context) (bool, error) {
		calls++
		return calls == 2, nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, calls)
}

func TestPollExhaustsBudget(t *testing.T) {
	calls := 0
	ok, err := Poll(context.Background(), 5, LinearDelay(time.Millisecond), func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5, calls, "budget is exactly five attempts")
}

func TestPollTreatsPredicateErrorAsNotYet(t *testing.T) {
	calls := 0
	ok, err := Poll(context.Background(), 3, LinearDelay(time.Millisecond), func(ctx context.Context) (bool, error) {
		calls++
		if calls < 3 {
			return false, assert.AnError
		}
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, calls)
}

func TestPollWaitsLinearBackoffBeforeEachAttempt(t *testing.T) {
	base := 10 * time.Millisecond
	var stamps []time.Time
	start := time.Now()
	_, err := Poll(context.Background(), 3, LinearDelay(base), func(ctx context.Context) (bool, error) {
		stamps = append(stamps, time.Now())
		return false, nil
	})
	require.NoError(t, err)
	require.Len(t, stamps, 3)

	// Attempt k runs no earlier than base*(1+...+k) after start.
	var cumulative time.Duration
	for k, stamp := range stamps {
		cumulative += base * time.Duration(k+1)
		assert.GreaterOrEqual(t, stamp.Sub(start), cumulative, "attempt %d fired early", k+1)
	}
}

func TestPollHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := Poll(ctx, 5, LinearDelay(time.Second), func(ctx context.Context) (bool, error) {
		t.Fatal("predicate must not run after cancellation")
		return false, nil
	})
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLinearDelaySchedule(t *testing.T) {
	delay := LinearDelay(DefaultBaseDelay)
	for k := 1; k <= DefaultAttempts; k++ {
		assert.Equal(t, time.Duration(k)*2*time.Second, delay(k))
	}
}
