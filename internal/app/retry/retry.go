// Package retry runs external calls with bounded exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

// Policy bounds the attempts made for one external call.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// Once performs a single attempt.
var Once = Policy{MaxAttempts: 1}

// DefaultPolicy mirrors the 1s, 2s, 4s backoff used for rate-limited APIs.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2,
	}
}

// Backoff returns the wait before the given retry (1-based).
func (p Policy) Backoff(retry int) time.Duration {
	if p.InitialBackoff <= 0 || retry <= 0 {
		return 0
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(p.InitialBackoff)
	for i := 1; i < retry; i++ {
		d *= mult
	}
	if p.MaxBackoff > 0 && d > float64(p.MaxBackoff) {
		return p.MaxBackoff
	}
	return time.Duration(d)
}

// SleepFunc waits for d or until ctx is done, returning ctx.Err() then.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Do calls fn until it succeeds, returns a non-retryable error, or the
// policy runs out of attempts. The last error is returned.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	return DoWithSleep(ctx, p, TimerSleep, fn)
}

// DoWithSleep is Do with the wait between attempts delegated to sleep.
// Zero backoffs do not call sleep.
func DoWithSleep(ctx context.Context, p Policy, sleep SleepFunc, fn func(ctx context.Context) error) error {
	attempts := max(p.MaxAttempts, 1)
	if sleep == nil {
		sleep = TimerSleep
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if d := p.Backoff(attempt - 1); d > 0 {
				if werr := sleep(ctx, d); werr != nil {
					return err
				}
			} else if ctx.Err() != nil {
				return err
			}
		}
		err = fn(ctx)
		if err == nil || !domain.IsRetryable(err) {
			return err
		}
	}
	return err
}

// TimerSleep waits on a real timer.
func TimerSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
