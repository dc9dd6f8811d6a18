// ABOUTME: Clock abstraction and a virtual clock for deterministic playback
// ABOUTME: Callbacks fire in (time, insertion order) without any real waiting

package playback

import (
	"container/heap"
	"time"
)

// Timer is a scheduled callback that can be cancelled
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the timer was still pending.
	Stop() bool
}

// Clock schedules callbacks at an offset from now
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// VirtualClock is a manually advanced clock.
// Callbacks due at the same instant fire in the order they were scheduled.
// It is not safe for concurrent use; drive it from a single goroutine.
type VirtualClock struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
}

// NewVirtualClock creates a clock at time zero
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{}
}

// Now returns the current virtual time
func (c *VirtualClock) Now() time.Duration {
	return c.now
}

// Pending returns the number of callbacks waiting to fire
func (c *VirtualClock) Pending() int {
	return len(c.queue)
}

// NextAt returns the time of the next pending callback
func (c *VirtualClock) NextAt() (time.Duration, bool) {
	if len(c.queue) == 0 {
		return 0, false
	}

	return c.queue[0].at, true
}

// AfterFunc schedules fn at now+d. Negative durations are treated as zero.
func (c *VirtualClock) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}

	t := &virtualTimer{
		clock: c,
		at:    c.now + d,
		seq:   c.seq,
		fn:    fn,
	}
	c.seq++
	heap.Push(&c.queue, t)

	return t
}

// Advance moves the clock forward by d, firing everything due on the way.
// It returns the number of callbacks fired.
func (c *VirtualClock) Advance(d time.Duration) int {
	return c.AdvanceTo(c.now + d)
}

// AdvanceTo moves the clock to t, firing everything due at or before t.
// Callbacks scheduled while firing are run too if they fall due before t.
func (c *VirtualClock) AdvanceTo(t time.Duration) int {
	fired := 0

	for len(c.queue) > 0 && c.queue[0].at <= t {
		next := heap.Pop(&c.queue).(*virtualTimer)
		c.now = next.at
		next.fn()
		fired++
	}

	if t > c.now {
		c.now = t
	}

	return fired
}

// RunUntilIdle fires callbacks until none are pending and returns how many fired
func (c *VirtualClock) RunUntilIdle() int {
	fired := 0

	for len(c.queue) > 0 {
		next := heap.Pop(&c.queue).(*virtualTimer)
		c.now = next.at
		next.fn()
		fired++
	}

	return fired
}

type virtualTimer struct {
	clock *VirtualClock
	at    time.Duration
	seq   uint64
	fn    func()
	index int // position in the heap, -1 once popped or stopped
}

func (t *virtualTimer) Stop() bool {
	if t.index < 0 {
		return false
	}

	heap.Remove(&t.clock.queue, t.index)

	return true
}

// timerQueue orders timers by due time, then by scheduling order
type timerQueue []*virtualTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}

	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*virtualTimer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]

	return t
}
