package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrExhausted is wrapped into the returned error when every attempt failed
// with a retryable error.
var ErrExhausted = errors.New("retry attempts exhausted")

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
	DefaultMaxDelay    = 16 * time.Second
)

// Policy bounds how an operation is retried.
type Policy struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // wait before the second attempt, doubled afterwards
	MaxDelay    time.Duration // cap for a single wait

	// Retryable decides whether an error is worth another attempt.
	// A nil classifier retries nothing.
	Retryable func(error) bool

	// Timer drives the waits between attempts. Nil uses the wall clock.
	Timer backoff.Timer

	// OnRetry is called before each wait.
	OnRetry func(err error, wait time.Duration)
}

// Default returns the policy used for generation calls: five attempts,
// one second doubling up to sixteen.
func Default(retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
		Retryable:   retryable,
	}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	maxDelay := p.MaxDelay
	if maxDelay < p.BaseDelay {
		maxDelay = p.BaseDelay
	}

	eb := &backoff.ExponentialBackOff{
		InitialInterval:     p.BaseDelay,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         maxDelay,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	eb.Reset()

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)
}

// Do calls fn until it succeeds, fails with an error the policy does not
// retry, the attempts run out or ctx is done.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	retryable := func(err error) bool {
		return p.Retryable != nil && p.Retryable(err)
	}

	op := func() (T, error) {
		v, err := fn(ctx)
		if err != nil && !retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	var notify backoff.Notify
	if p.OnRetry != nil {
		notify = p.OnRetry
	}

	v, err := backoff.RetryNotifyWithTimerAndData(op, p.backOff(ctx), notify, p.Timer)
	if err == nil {
		return v, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return v, err
	}
	if retryable(err) {
		return v, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, max(p.MaxAttempts, 1), err)
	}
	return v, err
}
