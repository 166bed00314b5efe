package utils

import (
	"context"
	"time"
)

// WaitFor blocks for d or until ctx is done. It is the retry pause of the
// Gemini client, so a cancelled session never sits out a backoff.
// A context that is already done wins over a zero duration.
func WaitFor(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
