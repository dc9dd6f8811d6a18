// ABOUTME: Wall-clock driver for the virtual clock used by headless playback
// ABOUTME: Advances the clock by elapsed real time on every frame tick

package playback

import (
	"context"
	"time"
)

// DefaultFrame is the tick interval used when none is given
const DefaultFrame = 16 * time.Millisecond

// RunRealtime advances clock by the real time elapsed between frame ticks until no
// callbacks remain or ctx is done. Callbacks and onFrame run on the calling goroutine.
func RunRealtime(ctx context.Context, clock *VirtualClock, frame time.Duration, onFrame func()) error {
	if frame <= 0 {
		frame = DefaultFrame
	}

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	last := time.Now()

	for clock.Pending() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			clock.Advance(now.Sub(last))
			last = now

			if onFrame != nil {
				onFrame()
			}
		}
	}

	return nil
}
