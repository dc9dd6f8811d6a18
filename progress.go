// ABOUTME: Progress line for headless playback
// ABOUTME: Throttles redraws and renders a step counter with a bar

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	progressUpdateInterval = 100 * time.Millisecond
	progressBarWidth       = 30
)

// progressTracker redraws the playback progress line
type progressTracker struct {
	out       io.Writer
	tty       bool // redraw in place; otherwise print a line at most every interval
	interval  time.Duration
	lastDraw  time.Time
	lastCount int
	closeOnce sync.Once
}

// newProgressTracker creates a tracker writing to out
func newProgressTracker(out io.Writer, tty bool) *progressTracker {
	return &progressTracker{
		out:       out,
		tty:       tty,
		interval:  progressUpdateInterval,
		lastCount: -1,
	}
}

// update draws the line if enough time has passed and something changed
func (pt *progressTracker) update(started, total int) {
	now := time.Now()
	if started == pt.lastCount || now.Sub(pt.lastDraw) < pt.interval {
		return
	}

	pt.draw(started, total)
	pt.lastDraw = now
	pt.lastCount = started
}

// finish draws the final line exactly once
func (pt *progressTracker) finish(started, total int) {
	pt.closeOnce.Do(func() {
		pt.draw(started, total)

		if pt.tty {
			fmt.Fprintln(pt.out)
		}
	})
}

func (pt *progressTracker) draw(started, total int) {
	if pt.tty {
		fmt.Fprintf(pt.out, "\r%s", progressLine(started, total))
		return
	}

	fmt.Fprintln(pt.out, progressLine(started, total))
}

// progressLine renders "[=====>    ] 12/300 steps (4%)"
func progressLine(started, total int) string {
	if total <= 0 {
		return fmt.Sprintf("[%s] 0/0 steps", strings.Repeat(" ", progressBarWidth))
	}

	started = max(0, min(started, total))
	filled := started * progressBarWidth / total

	bar := strings.Repeat("=", filled)
	if filled < progressBarWidth {
		if started > 0 {
			bar += ">"
		}

		bar += strings.Repeat(" ", progressBarWidth-len(bar))
	}

	return fmt.Sprintf("[%s] %d/%d steps (%d%%)", bar, started, total, started*100/total)
}
