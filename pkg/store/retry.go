package store

import (
	"context"
	"errors"
	"time"
)

// Backoff is the retry schedule for remote backends (Redis, MongoDB).
type Backoff struct {
	Attempts int           // total calls, including the first
	Delay    time.Duration // wait after the first failure, doubled after each
	MaxDelay time.Duration // cap on a single wait; zero means uncapped
}

// DefaultBackoff makes three attempts, waiting 200ms then 400ms.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 200 * time.Millisecond, MaxDelay: 2 * time.Second}

// RetryWithBackoff runs fn under DefaultBackoff.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}

// Retry calls fn until it succeeds, returns an error not marked Retryable,
// or the attempts run out. The final transient error is returned without
// its Retryable wrapper.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	waits := b.schedule()
	for i := 0; ; i++ {
		err := fn()
		if err == nil || !IsRetryable(err) {
			return err
		}
		if i == len(waits) {
			var re *RetryableError
			errors.As(err, &re)
			return re.Err
		}
		t := time.NewTimer(waits[i])
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// schedule lists the waits between consecutive attempts.
func (b Backoff) schedule() []time.Duration {
	if b.Attempts <= 1 {
		return nil
	}
	waits := make([]time.Duration, b.Attempts-1)
	d := b.Delay
	for i := range waits {
		if b.MaxDelay > 0 && d > b.MaxDelay {
			d = b.MaxDelay
		}
		waits[i] = d
		d *= 2
	}
	return waits
}

// RetryableError marks a transient failure, such as a dropped connection.
type RetryableError struct{ Err error }

// Retryable marks err as transient. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
