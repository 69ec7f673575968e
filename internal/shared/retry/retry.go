// Package retry runs an operation a bounded number of times with a fixed
// pause between attempts.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc backed by a timer.
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

// Policy describes a fixed-interval retry: no jitter, no backoff growth.
type Policy struct {
	Attempts int
	Delay    time.Duration
	Sleep    SleepFunc
}

// FixedDelay calls fn until it succeeds or attempts calls have failed,
// waiting delay between attempts. The error of the last attempt is returned.
func FixedDelay(ctx context.Context, fn func(ctx context.Context) error, attempts int, delay time.Duration) error {
	return Policy{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

// Do runs fn under the policy.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	logger := zerolog.Ctx(ctx)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Dur("delay", p.Delay).
			Msg("attempt failed, retrying")

		if sleepErr := sleep(ctx, p.Delay); sleepErr != nil {
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt, sleepErr)
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}
