// ABOUTME: Application state controller tying the array, registry, step service, and playback together
// ABOUTME: Owns the Idle/Busy state machine, the selected algorithm, and the status line

// Package app implements the visualizer's application state machine.
//
// A Controller is Idle or Busy. Starting a sort moves it to Busy; it returns to
// Idle when playback completes, when the step service fails, or when the service
// answers with no steps. Array generation and algorithm selection are only allowed
// while Idle. Every request carries an epoch so results that arrive after the user
// moved on are dropped.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"sort-visualizer/array"
	"sort-visualizer/playback"
	"sort-visualizer/step"
	"sort-visualizer/visual"
)

// State is the coarse application state
type State int

const (
	// Idle accepts generation, selection, and start
	Idle State = iota
	// Busy means a step request or playback is in flight
	Busy
)

func (s State) String() string {
	if s == Busy {
		return "busy"
	}

	return "idle"
}

// Tone classifies a status message for display
type Tone int

// Status tones
const (
	ToneInfo Tone = iota
	ToneBusy
	ToneSuccess
	ToneError
)

// Status is the user-facing status line
type Status struct {
	Text string
	Tone Tone
}

// Ticket identifies one step request
type Ticket struct {
	Epoch   uint64
	Request step.Request
}

// Options holds the controller's tunable settings
type Options struct {
	Size      int
	MinValue  float64
	MaxValue  float64
	Delay     time.Duration
	Algorithm string
}

// Controller is the application session: one array, one registry, one scheduler
type Controller struct {
	model     *array.Model
	registry  *visual.Registry
	scheduler *playback.Scheduler
	rng       *rand.Rand
	logger    *zap.SugaredLogger

	state     State
	algorithm Algorithm
	status    Status
	epoch     uint64

	size     int
	minValue float64
	maxValue float64
	delay    time.Duration

	lastDuration float64
	hasDuration  bool
}

// New creates an Idle controller with an empty array
func New(registry *visual.Registry, scheduler *playback.Scheduler, rng *rand.Rand, opts Options, logger *zap.SugaredLogger) (*Controller, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	algo, err := ParseAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	if opts.Size < 0 || opts.Delay < 0 {
		return nil, fmt.Errorf("%w: size %d, delay %v", ErrInvalidInput, opts.Size, opts.Delay)
	}

	if opts.MinValue < 0 || opts.MinValue >= opts.MaxValue {
		return nil, fmt.Errorf("%w: value range [%v, %v)", ErrInvalidInput, opts.MinValue, opts.MaxValue)
	}

	c := &Controller{
		model:     array.New(nil),
		registry:  registry,
		scheduler: scheduler,
		rng:       rng,
		logger:    logger,
		algorithm: algo,
		size:      opts.Size,
		minValue:  opts.MinValue,
		maxValue:  opts.MaxValue,
		delay:     opts.Delay,
	}
	c.setStatus(ToneInfo, "Generate an array to begin. Selected: %s.", algo.Name)

	return c, nil
}

func (c *Controller) setStatus(tone Tone, format string, args ...any) {
	c.status = Status{Text: fmt.Sprintf(format, args...), Tone: tone}
}

// Generate replaces the array with fresh random values
func (c *Controller) Generate() error {
	if c.state == Busy {
		return ErrBusy
	}

	values, err := array.Generate(c.rng, c.size, c.minValue, c.maxValue)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	c.install(values)
	c.setStatus(ToneInfo, "Array ready. Selected: %s.", c.algorithm.Name)
	c.logger.Debugw("array generated", "size", len(values), "epoch", c.epoch)

	return nil
}

// LoadArray installs a specific array, such as one restored from history
func (c *Controller) LoadArray(values []float64) error {
	if c.state == Busy {
		return ErrBusy
	}

	for i, v := range values {
		// NaN fails both comparisons
		if !(v >= 0 && v <= c.maxValue) {
			c.setStatus(ToneError, "Value %v at index %d is outside [0, %v].", v, i, c.maxValue)
			return fmt.Errorf("%w: value %v at index %d outside [0, %v]", ErrInvalidInput, v, i, c.maxValue)
		}
	}

	c.install(values)
	c.setStatus(ToneInfo, "Array restored (%d bars). Selected: %s.", len(values), c.algorithm.Name)

	return nil
}

// install replaces the array and invalidates anything still in flight for the old one
func (c *Controller) install(values []float64) {
	c.scheduler.Cancel()
	c.epoch++
	c.model.Replace(values)
	c.registry.Rebuild(c.model.Values())
	c.hasDuration = false
}

// SelectAlgorithm changes the algorithm used by the next sort
func (c *Controller) SelectAlgorithm(id string) error {
	if c.state == Busy {
		return ErrBusy
	}

	algo, err := ParseAlgorithm(id)
	if err != nil {
		c.setStatus(ToneError, "Unknown algorithm %q.", id)
		return err
	}

	c.algorithm = algo
	c.hasDuration = false
	c.setStatus(ToneInfo, "Algorithm set to %s. Press s to start.", algo.Name)

	return nil
}

// BeginSort moves to Busy and returns the request to send to the step service
func (c *Controller) BeginSort() (Ticket, error) {
	if c.state == Busy {
		return Ticket{}, ErrBusy
	}

	if c.model.Empty() {
		c.setStatus(ToneError, "Please generate an array first.")
		return Ticket{}, ErrInvalidInput
	}

	c.epoch++
	c.state = Busy
	c.hasDuration = false
	c.setStatus(ToneBusy, "Requesting %s steps from the step service...", c.algorithm.Name)

	ticket := Ticket{
		Epoch: c.epoch,
		Request: step.Request{
			Array:     c.model.Values(),
			Algorithm: c.algorithm.ID,
		},
	}

	c.logger.Debugw("sort requested", "algorithm", c.algorithm.ID, "size", c.model.Len(), "epoch", c.epoch)

	return ticket, nil
}

// ApplyResult consumes the outcome of a step request.
// Stale tickets are ignored. A fetch error or an empty step list returns the
// controller to Idle; otherwise playback starts and the controller stays Busy.
func (c *Controller) ApplyResult(ticket Ticket, resp step.Response, fetchErr error) error {
	if ticket.Epoch != c.epoch || c.state != Busy {
		c.logger.Debugw("dropping stale step result", "ticket", ticket.Epoch, "current", c.epoch)
		return ErrStaleResult
	}

	if fetchErr != nil {
		c.state = Idle
		c.setStatus(ToneError, "Error connecting to step service: %v", fetchErr)
		c.logger.Warnw("step request failed", "algorithm", ticket.Request.Algorithm, "error", fetchErr)

		return fetchErr
	}

	if len(resp.Steps) == 0 {
		c.state = Idle
		c.setStatus(ToneError, "Error: No steps received from the step service.")

		return ErrEmptyResult
	}

	if resp.Skipped > 0 {
		c.logger.Warnw("step response contained unusable entries", "skipped", resp.Skipped, "steps", len(resp.Steps))
	}

	// Replay from the unsorted layout; a failed request leaves the bars untouched
	c.registry.Rebuild(c.model.Values())
	c.setStatus(ToneBusy, "Running %s (%d steps)...", c.algorithm.Name, len(resp.Steps))
	c.scheduler.Play(resp.Steps, c.delay, resp.SimulatedDuration, c.completion(ticket.Epoch))

	return nil
}

// completion returns the playback completion callback for an epoch
func (c *Controller) completion(epoch uint64) func(float64) {
	return func(reported float64) {
		if epoch != c.epoch {
			return
		}

		c.state = Idle
		c.lastDuration = reported
		c.hasDuration = true
		c.setStatus(ToneSuccess, "%s complete! Generate a new array to compare.", c.algorithm.Name)
		c.logger.Debugw("sort complete", "algorithm", c.algorithm.ID, "reported_ms", reported)
	}
}

// Sort runs a whole request cycle: begin, fetch from producer, apply.
// Playback itself proceeds as the scheduler's clock advances.
func (c *Controller) Sort(ctx context.Context, producer step.Producer) error {
	ticket, err := c.BeginSort()
	if err != nil {
		return err
	}

	resp, err := producer.Fetch(ctx, ticket.Request)

	return c.ApplyResult(ticket, resp, err)
}

// Cancel abandons a running request or playback and returns to Idle
func (c *Controller) Cancel() {
	if c.state != Busy {
		return
	}

	c.scheduler.Cancel()
	c.epoch++
	c.state = Idle
	c.setStatus(ToneInfo, "Sort cancelled. Selected: %s.", c.algorithm.Name)
}

// Resize relays out the bars for a new surface without disturbing playback
func (c *Controller) Resize(surface visual.Surface) {
	c.registry.Resize(surface)
}

// SetDelay changes the delay unit used by the next playback
func (c *Controller) SetDelay(d time.Duration) error {
	if c.state == Busy {
		return ErrBusy
	}

	if d < 0 {
		return fmt.Errorf("%w: delay %v", ErrInvalidInput, d)
	}

	c.delay = d

	return nil
}

// SetArraySize changes the length of the next generated array
func (c *Controller) SetArraySize(n int) error {
	if c.state == Busy {
		return ErrBusy
	}

	if n < 0 {
		return fmt.Errorf("%w: size %d", ErrInvalidInput, n)
	}

	c.size = n

	return nil
}

// State returns the current state
func (c *Controller) State() State { return c.state }

// Status returns the current status line
func (c *Controller) Status() Status { return c.status }

// Algorithm returns the selected algorithm
func (c *Controller) Algorithm() Algorithm { return c.algorithm }

// Values returns a copy of the current array
func (c *Controller) Values() []float64 { return c.model.Values() }

// Registry returns the visual registry
func (c *Controller) Registry() *visual.Registry { return c.registry }

// Delay returns the playback delay unit
func (c *Controller) Delay() time.Duration { return c.delay }

// ArraySize returns the length used for the next generated array
func (c *Controller) ArraySize() int { return c.size }

// Epoch returns the current request epoch
func (c *Controller) Epoch() uint64 { return c.epoch }

// Progress returns how many steps of the current playback have started
func (c *Controller) Progress() (started, total int) { return c.scheduler.Progress() }

// Playing reports whether playback callbacks are still pending
func (c *Controller) Playing() bool { return c.scheduler.Active() }

// CanGenerate reports whether the generate control is enabled
func (c *Controller) CanGenerate() bool { return c.state == Idle }

// CanSelect reports whether algorithm selection is enabled
func (c *Controller) CanSelect() bool { return c.state == Idle }

// CanStart reports whether the start control is enabled
func (c *Controller) CanStart() bool { return c.state == Idle && !c.model.Empty() }

// LastDuration returns the service-reported duration of the last completed sort
func (c *Controller) LastDuration() (float64, bool) {
	return c.lastDuration, c.hasDuration
}

// TimeTaken formats the last reported duration, or "--- ms" when there is none
func (c *Controller) TimeTaken() string {
	if !c.hasDuration {
		return "--- ms"
	}

	return fmt.Sprintf("%.2f ms", c.lastDuration)
}

// IsUserError reports whether err is one the user can fix from the controls
func IsUserError(err error) bool {
	return errors.Is(err, ErrBusy) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrUnknownAlgorithm)
}
