// ABOUTME: Step playback scheduler driving the visual registry from a step sequence
// ABOUTME: Schedules each effect on a clock and drops callbacks from cancelled sessions

// Package playback turns a step sequence into a timed animation.
//
// Every effect is scheduled up front on a Clock at an offset derived only from the
// step's index. Each Play starts a new session; callbacks carry the session id they
// were scheduled under and do nothing once that session is no longer current.
// The scheduler is single-threaded: the clock must fire callbacks on the goroutine
// that owns the registry.
package playback

import (
	"time"

	"go.uber.org/zap"

	"sort-visualizer/step"
	"sort-visualizer/visual"
)

// Session describes one playback run
type Session struct {
	ID       uint64
	Steps    int
	Delay    time.Duration
	Duration time.Duration // time from start to completion
}

// Scheduler plays step sequences against a renderer
type Scheduler struct {
	clock    Clock
	renderer visual.Renderer
	logger   *zap.SugaredLogger
	observer func(Effect)

	session Session
	timers  []Timer
	active  bool
	started int // steps whose start effect has fired in the current session
}

// NewScheduler creates a scheduler. A nil logger discards log output.
func NewScheduler(clock Clock, renderer visual.Renderer, logger *zap.SugaredLogger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Scheduler{
		clock:    clock,
		renderer: renderer,
		logger:   logger,
	}
}

// SetObserver registers a function called after every applied effect
func (s *Scheduler) SetObserver(fn func(Effect)) {
	s.observer = fn
}

// Play schedules steps at delay intervals and calls onComplete with
// reportedDuration once every effect has fired. Any running session is cancelled first.
// With no steps, onComplete runs before Play returns and nothing is scheduled.
func (s *Scheduler) Play(steps []step.Step, delay time.Duration, reportedDuration float64, onComplete func(float64)) Session {
	s.Cancel()

	s.session = Session{
		ID:       s.session.ID + 1,
		Steps:    len(steps),
		Delay:    delay,
		Duration: CompletionOffset(len(steps), delay),
	}
	s.started = 0

	if len(steps) == 0 {
		s.logger.Debugw("empty step sequence, completing immediately", "session", s.session.ID)

		if onComplete != nil {
			onComplete(reportedDuration)
		}

		return s.session
	}

	id := s.session.ID
	s.active = true

	effects := Plan(steps, delay)
	s.timers = make([]Timer, 0, len(effects)+1)

	for _, e := range effects {
		s.timers = append(s.timers, s.clock.AfterFunc(e.Offset, func() {
			s.apply(id, e)
		}))
	}

	// Scheduled last so it fires after any effect sharing its offset
	s.timers = append(s.timers, s.clock.AfterFunc(s.session.Duration, func() {
		if id != s.session.ID {
			return
		}

		s.active = false
		s.timers = nil
		s.logger.Debugw("playback complete", "session", id, "steps", s.session.Steps)

		if onComplete != nil {
			onComplete(reportedDuration)
		}
	}))

	s.logger.Debugw("playback scheduled",
		"session", id,
		"steps", len(steps),
		"effects", len(effects),
		"delay", delay,
		"duration", s.session.Duration)

	return s.session
}

// apply performs one effect if its session is still current
func (s *Scheduler) apply(id uint64, e Effect) {
	if id != s.session.ID {
		s.logger.Debugw("dropping stale effect", "session", id, "current", s.session.ID)
		return
	}

	if e.Phase == PhaseStart {
		s.started++
	}

	i, j := e.Step.Indices[0], e.Step.Indices[1]

	switch e.Step.Kind {
	case step.Compare:
		if e.Phase == PhaseStart {
			s.renderer.ApplyCompareStart(i, j)
		} else {
			s.renderer.ApplyCompareEnd(i, j)
		}
	case step.Swap:
		if e.Phase == PhaseStart {
			s.renderer.ApplySwap(i, j)
		} else {
			s.renderer.ApplySwapEnd(i, j)
		}
	case step.UpdateHeight:
		s.renderer.ApplyHeightUpdate(e.Step.Index, e.Step.NewValue)
	case step.Sorted:
		s.renderer.ApplySorted(e.Step.Index)
	default:
		s.logger.Warnw("skipping unknown step", "session", id, "index", e.Index, "reason", e.Step.Reason)
	}

	if s.observer != nil {
		s.observer(e)
	}
}

// Cancel invalidates the current session and stops its pending callbacks
func (s *Scheduler) Cancel() {
	if !s.active {
		return
	}

	for _, t := range s.timers {
		t.Stop()
	}

	s.logger.Debugw("playback cancelled", "session", s.session.ID, "started", s.started, "steps", s.session.Steps)

	s.timers = nil
	s.active = false
	// Bump the id so any callback that escaped Stop is ignored
	s.session.ID++
}

// Active reports whether a session is still playing
func (s *Scheduler) Active() bool {
	return s.active
}

// Session returns the most recent session
func (s *Scheduler) Session() Session {
	return s.session
}

// Progress returns how many steps have started and the session's step count
func (s *Scheduler) Progress() (started, total int) {
	return s.started, s.session.Steps
}
