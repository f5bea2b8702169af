package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy controls how many times an operation is retried and how long
// the waits between attempts are. The delay doubles after every failed
// attempt: InitialDelay, 2×InitialDelay, 4×InitialDelay, ...
type Policy struct {
	MaxRetries   int           `yaml:"max_retries" json:"max_retries"`
	InitialDelay time.Duration `yaml:"initial_delay" json:"initial_delay"`
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   3,
		InitialDelay: time.Second,
	}
}

// Validate checks the policy bounds.
func (p Policy) Validate() error {
	if p.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", p.MaxRetries)
	}
	if p.InitialDelay <= 0 {
		return fmt.Errorf("initial_delay must be positive, got %s", p.InitialDelay)
	}
	return nil
}

// Attempts returns the total number of attempts the policy allows.
func (p Policy) Attempts() int {
	return p.MaxRetries + 1
}

// Delay returns the wait inserted after the failed attempt with the
// given zero-based index.
func (p Policy) Delay(attempt int) time.Duration {
	return p.InitialDelay * time.Duration(1<<uint(attempt))
}

// Sleeper waits for the given duration or until the context is
// canceled. Injectable so tests can record delays instead of waiting.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper. It blocks the calling goroutine for d,
// returning early with the context error if ctx is canceled first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Operation is a fallible zero-argument function run under a Policy.
type Operation[T any] func() (T, error)

// Error is the terminal error returned once a policy is exhausted. It
// records how many attempts were made and wraps the last failure.
type Error struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the last underlying failure.
func (e *Error) Unwrap() error {
	return e.Err
}

// Do runs op under the policy using the default Sleeper.
func Do[T any](ctx context.Context, p Policy, op Operation[T]) (T, error) {
	return DoWithSleep(ctx, p, Sleep, op)
}

// DoWithSleep runs op up to MaxRetries+1 times, sleeping between
// attempts with exponential backoff. It returns the first successful
// result, the context error if a wait is canceled, or a terminal
// *Error wrapping the last failure once all attempts are spent.
func DoWithSleep[T any](ctx context.Context, p Policy, sleep Sleeper, op Operation[T]) (T, error) {
	var zero T
	var lastErr error

	attempts := p.Attempts()
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, p.Delay(attempt-1)); err != nil {
				return zero, err
			}
		}

		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return zero, &Error{Attempts: attempts, Err: lastErr}
}
