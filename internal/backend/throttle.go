package backend

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// throttle keeps successive topology queries at least interval apart so a
// slow tmux server is not queried back to back when ticks pile up.
type throttle struct {
	limiter *rate.Limiter
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{}
	}
	return &throttle{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// wait blocks until the next query may run or ctx is done.
func (t *throttle) wait(ctx context.Context) error {
	if t == nil || t.limiter == nil {
		return ctx.Err()
	}
	return t.limiter.Wait(ctx)
}
