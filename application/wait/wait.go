// Package wait provides the poll-with-deadline and retry-with-backoff
// primitives used by page objects and the runner.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"empsd_automation/domain/entities"

	"github.com/cenkalti/backoff/v4"
)

// DefaultInterval matches the polling granularity of the browser engine
const DefaultInterval = 100 * time.Millisecond

// ConditionFunc reports whether a condition holds. A returned error stops
// polling; conditions tolerate state that does not exist yet by returning false.
type ConditionFunc func(ctx context.Context) (bool, error)

var errNotYet = errors.New("condition not met")

// Until evaluates cond immediately and then every interval until it returns
// true, returns an error, or timeout elapses. On deadline it returns an error
// wrapping entities.ErrTimeout.
func Until(ctx context.Context, interval, timeout time.Duration, cond ConditionFunc) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var condErr error
	op := func() error {
		ok, err := cond(pollCtx)
		if err != nil {
			if pollCtx.Err() != nil {
				// deadline reached mid-evaluation
				return err
			}
			condErr = err
			return backoff.Permanent(err)
		}
		if !ok {
			return errNotYet
		}
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.NewConstantBackOff(interval), pollCtx))
	switch {
	case err == nil:
		return nil
	case condErr != nil:
		return condErr
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("%w after %s", entities.ErrTimeout, timeout)
	}
}

// RetryOptions configures Retry
type RetryOptions struct {
	Attempts    uint64
	Initial     time.Duration
	MaxInterval time.Duration
	// Notify is called after every failed attempt
	Notify func(err error, next time.Duration)
}

// DefaultRetryOptions - three attempts starting at one second
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		Attempts:    3,
		Initial:     time.Second,
		MaxInterval: 10 * time.Second,
	}
}

// Retry runs fn until it succeeds or the attempts are exhausted, doubling the
// delay between attempts. It returns the last error of fn, or the context
// error when ctx ends first.
func Retry(ctx context.Context, opts RetryOptions, fn func(ctx context.Context) error) error {
	if opts.Attempts == 0 {
		opts.Attempts = 1
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = opts.Initial
	eb.Multiplier = 2
	eb.RandomizationFactor = 0
	if opts.MaxInterval > 0 {
		eb.MaxInterval = opts.MaxInterval
	}
	eb.MaxElapsedTime = 0
	eb.Reset()

	b := backoff.WithContext(backoff.WithMaxRetries(eb, opts.Attempts-1), ctx)

	op := func() error {
		return fn(ctx)
	}

	var notify backoff.Notify
	if opts.Notify != nil {
		notify = func(err error, next time.Duration) { opts.Notify(err, next) }
	}

	return backoff.RetryNotify(op, b, notify)
}
