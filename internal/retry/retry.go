// Package retry wraps individual remote calls in a bounded retry policy.
// Transient failures (429, 5xx, transport errors) are retried with
// exponential backoff plus jitter; everything else fails fast.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net"
	"time"

	"stravanotion/internal/xslog"
)

// Retryable is implemented by client errors that know whether another
// attempt can succeed.
type Retryable interface {
	Retryable() bool
}

// RateLimited is implemented by client errors representing a 429. Rate
// limits get a longer, progressively increasing fixed delay instead of
// exponential backoff: the window has to actually reset before another
// attempt has a chance.
type RateLimited interface {
	RateLimited() bool
}

type Policy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxJitter      time.Duration
	RateLimitDelay time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		BaseDelay:      time.Second,
		MaxJitter:      250 * time.Millisecond,
		RateLimitDelay: time.Minute,
	}
}

// Delay returns the sleep before retry number attempt (1-based).
func (p Policy) Delay(attempt int, rateLimited bool) time.Duration {
	if rateLimited {
		return p.RateLimitDelay * time.Duration(attempt)
	}
	d := p.BaseDelay << (attempt - 1)
	if p.MaxJitter > 0 {
		d += time.Duration(rand.Int63n(int64(p.MaxJitter)))
	}
	return d
}

// Do runs fn, retrying per the policy. A nil logger is replaced with
// slog.Default(). The context is honored while sleeping between attempts.
func Do(ctx context.Context, policy Policy, logger *slog.Logger, op string, fn func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= policy.MaxAttempts || !shouldRetry(err) {
			return err
		}

		delay := policy.Delay(attempt+1, isRateLimited(err))
		logger.Warn("retrying after transient failure",
			xslog.Operation(op),
			xslog.Attempt(attempt+1, policy.MaxAttempts),
			xslog.Duration(delay),
			xslog.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func shouldRetry(err error) bool {
	var r Retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

func isRateLimited(err error) bool {
	var rl RateLimited
	return errors.As(err, &rl) && rl.RateLimited()
}
