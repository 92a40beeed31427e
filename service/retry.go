package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"

	"loan-quote/domain"
)

// Sleeper suspends for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// RetryExecutor re-runs a failing operation with exponential backoff.
// Validation and rate limit failures are returned immediately; everything
// else, including unclassified errors, is retried up to maxRetries times.
type RetryExecutor struct {
	maxRetries     int
	baseBackoff    time.Duration
	attemptTimeout time.Duration
	sleep          Sleeper
	logger         *slog.Logger
}

// RetryOption customizes a RetryExecutor.
type RetryOption func(*RetryExecutor)

// WithSleeper replaces the timer-based wait between attempts.
func WithSleeper(s Sleeper) RetryOption {
	return func(r *RetryExecutor) { r.sleep = s }
}

// WithAttemptTimeout bounds every attempt; an attempt that runs out of time
// fails with a TIMEOUT_ERROR.
func WithAttemptTimeout(d time.Duration) RetryOption {
	return func(r *RetryExecutor) { r.attemptTimeout = d }
}

// WithRetryLogger logs every scheduled retry.
func WithRetryLogger(l *slog.Logger) RetryOption {
	return func(r *RetryExecutor) { r.logger = l }
}

// NewRetryExecutor creates an executor making at most maxRetries extra
// attempts, waiting baseBackoff*2^k before attempt k+1.
func NewRetryExecutor(maxRetries int, baseBackoff time.Duration, opts ...RetryOption) *RetryExecutor {
	if maxRetries < 0 {
		maxRetries = 0
	}
	r := &RetryExecutor{
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RetryExecutor) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.baseBackoff
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = time.Duration(math.MaxInt64)
	b.Reset()
	return b
}

// Run executes op through r. After the final attempt fails the last error is
// returned as-is. Cancelling ctx during a wait also returns the last error.
func Run[T any](ctx context.Context, r *RetryExecutor, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	waits := r.newBackOff()

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		v, err := runAttempt(ctx, r.attemptTimeout, op)
		if err == nil {
			return v, nil
		}
		lastErr = err

		kind := domain.KindOf(err)
		if !kind.Retryable() {
			return zero, err
		}
		if attempt == r.maxRetries {
			break
		}

		wait := waits.NextBackOff()
		if r.logger != nil {
			r.logger.Warn("attempt failed, retrying",
				"attempt", attempt+1,
				"kind", string(kind),
				"backoff", wait,
				"error", err)
		}
		if err := r.sleep(ctx, wait); err != nil {
			return zero, lastErr
		}
	}
	return zero, lastErr
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return op(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := op(attemptCtx)
	if err != nil && ctx.Err() == nil &&
		errors.Is(attemptCtx.Err(), context.DeadlineExceeded) &&
		domain.KindOf(err) == domain.KindUnknown {
		return v, domain.WrapClassified(domain.KindTimeout, "Request timed out. Please try again.", err)
	}
	return v, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
