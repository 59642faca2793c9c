// Package retry provides named fixed-delay wait policies used by the
// polling and worker loops. Expressing delays as policies keeps the loop
// code free of bare time.Sleep calls and lets tests substitute zero-delay
// policies.
package retry

import (
	"context"
	"time"
)

// Policy is a fixed-delay wait strategy.
type Policy struct {
	Interval time.Duration
}

// Fixed returns a policy that waits the given interval on every call.
func Fixed(interval time.Duration) Policy {
	return Policy{Interval: interval}
}

// Wait blocks for the policy's interval or until the context is cancelled,
// whichever comes first. Returns the context error on cancellation.
func (p Policy) Wait(ctx context.Context) error {
	if p.Interval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.Interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
