package wait

import (
	"context"
	"errors"
	"testing"
	"time"

	"empsd_automation/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestUntil_ReturnsOnFirstTrue(t *testing.T) {
	calls := 0
	err := Until(context.Background(), 5*time.Millisecond, time.Second, func(ctx context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestUntil_TimesOut(t *testing.T) {
	start := time.Now()
	err := Until(context.Background(), 5*time.Millisecond, 50*time.Millisecond, func(ctx context.Context) (bool, error) {
		return false, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestUntil_ConditionErrorStopsPolling(t *testing.T) {
	boom := errors.New("target closed")
	calls := 0
	err := Until(context.Background(), 5*time.Millisecond, time.Second, func(ctx context.Context) (bool, error) {
		calls++
		return false, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestUntil_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Until(ctx, 5*time.Millisecond, time.Second, func(ctx context.Context) (bool, error) {
		return false, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, entities.ErrTimeout)
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	var notified []error
	attempts := 0
	opts := RetryOptions{
		Attempts: 3,
		Initial:  time.Millisecond,
		Notify:   func(err error, next time.Duration) { notified = append(notified, err) },
	}

	err := Retry(context.Background(), opts, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("flaky")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, notified, 2)
}

func TestRetry_ReturnsLastError(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), RetryOptions{Attempts: 2, Initial: time.Millisecond}, func(ctx context.Context) error {
		attempts++
		return errors.New("still down")
	})

	require.EqualError(t, err, "still down")
	assert.Equal(t, 2, attempts)
}
