package session

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Sleep blocks for d on clk or until ctx is done. It returns ctx's error if
// the session was torn down, including when teardown raced with the timer
// firing, so callers can check a single value on resume.
func Sleep(ctx context.Context, clk clockwork.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := clk.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.Chan():
		return ctx.Err()
	}
}
