// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function and message handlers

package tui

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"sort-visualizer/app"
	"sort-visualizer/config"
	"sort-visualizer/step"
)

// frameMsg advances playback; epoch ties it to the request that started it
type frameMsg struct {
	epoch uint64
	at    time.Time
}

// stepsMsg carries the step service's answer for a ticket
type stepsMsg struct {
	ticket app.Ticket
	resp   step.Response
	err    error
}

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] Update panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeBars()

		return m, nil

	case frameMsg:
		return m, m.handleFrame(msg)

	case stepsMsg:
		return m, m.handleSteps(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case configChangedMsg:
		return m, reloadConfig(m.configPath, m.loadConfig)

	case configReloadedMsg:
		var next tea.Cmd
		if m.watcher != nil {
			next = waitForConfigChange(m.watcher, m.configPath, m.debugf)
		}

		if msg.err != nil {
			m.debugf("[WATCHER] Reload failed: %v", msg.err)
			m.setStatusMsg("Config reload failed: %v", msg.err)

			return m, next
		}

		cfg := msg.cfg
		m.pendingReload = &cfg
		m.applyPendingReload()

		return m, next

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m.handleQuitKey()

		case key.Matches(msg, keys.Generate):
			m.generate()

		case key.Matches(msg, keys.Start):
			return m, m.startSort()

		case key.Matches(msg, keys.Cancel):
			m.cancelSort()

		case key.Matches(msg, keys.Algorithm):
			m.selectAlgorithm(m.ctrl.Algorithm().Next().ID)

		case key.Matches(msg, keys.Bubble):
			m.selectAlgorithm("BubbleSort")

		case key.Matches(msg, keys.Merge):
			m.selectAlgorithm("MergeSort")

		case key.Matches(msg, keys.Quick):
			m.selectAlgorithm("QuickSort")

		case key.Matches(msg, keys.Up):
			m.paramMgr.SelectPrevious()

		case key.Matches(msg, keys.Down):
			m.paramMgr.SelectNext()

		case key.Matches(msg, keys.Left):
			m.adjustParam(m.paramMgr.Decrease)

		case key.Matches(msg, keys.Right):
			m.adjustParam(m.paramMgr.Increase)

		case key.Matches(msg, keys.Reset):
			m.resetToDefaults()

		case key.Matches(msg, keys.Undo):
			m.undo()

		case key.Matches(msg, keys.Redo):
			m.redo()
		}
	}

	return m, nil
}

// barArea returns the size of the bar panel in terminal cells
func (m model) barArea() (cols, rows int) {
	cols = max(m.width-paramPanelWidth-panelPadding-2, minBarColumns)
	rows = max(m.height-totalUIChrome, minBarRows)

	return cols, rows
}

// resizeBars relays out the registry for the current terminal size
func (m *model) resizeBars() {
	cols, rows := m.barArea()
	m.ctrl.Resize(barSurface(cols, rows, m.localConfig.Display.Margin, m.localConfig.Array.MaxValue))
}

// tickFrame schedules the next playback frame
func tickFrame(epoch uint64) tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg{epoch: epoch, at: t}
	})
}

// handleFrame advances the playback clock by the real time since the last frame
func (m *model) handleFrame(msg frameMsg) tea.Cmd {
	// Ignore frames from cancelled or replaced playback
	if msg.epoch != m.ctrl.Epoch() {
		return nil
	}

	elapsed := msg.at.Sub(m.lastFrame)
	m.lastFrame = msg.at
	m.clock.Advance(max(elapsed, 0))

	if m.ctrl.Playing() {
		return tickFrame(msg.epoch)
	}

	m.debugf("[TUI] Playback finished: %s", m.ctrl.Status().Text)
	m.applyPendingReload()

	return nil
}

// fetchSteps asks the producer for steps in the background
func fetchSteps(ctx context.Context, producer step.Producer, ticket app.Ticket) tea.Cmd {
	return func() tea.Msg {
		resp, err := producer.Fetch(ctx, ticket.Request)
		return stepsMsg{ticket: ticket, resp: resp, err: err}
	}
}

// startSort moves the controller to Busy and requests steps
func (m *model) startSort() tea.Cmd {
	if m.producer == nil {
		m.setStatusMsg("No step service configured")
		return nil
	}

	ticket, err := m.ctrl.BeginSort()
	if err != nil {
		m.debugf("[TUI] Start rejected: %v", err)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFetch = cancel
	m.statusMsg = ""

	return fetchSteps(ctx, m.producer, ticket)
}

// handleSteps hands a step response to the controller and starts playback frames
func (m *model) handleSteps(msg stepsMsg) tea.Cmd {
	err := m.ctrl.ApplyResult(msg.ticket, msg.resp, msg.err)

	switch {
	case errors.Is(err, app.ErrStaleResult):
		m.debugf("[TUI] Ignoring stale steps: epoch %d != current %d", msg.ticket.Epoch, m.ctrl.Epoch())
		return nil
	case err != nil:
		m.debugf("[TUI] Sort failed: %v", err)
		m.releaseFetch()
		m.applyPendingReload()

		return nil
	}

	m.releaseFetch()
	m.lastFrame = time.Now()

	return tickFrame(msg.ticket.Epoch)
}

// releaseFetch cancels the request context once its answer is no longer needed
func (m *model) releaseFetch() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

// cancelSort abandons the current request or playback
func (m *model) cancelSort() {
	if m.ctrl.State() != app.Busy {
		return
	}

	m.releaseFetch()
	m.ctrl.Cancel()
	m.applyPendingReload()
}

// generate records the current array for undo and generates a new one
func (m *model) generate() {
	if !m.ctrl.CanGenerate() {
		return
	}

	previous := m.currentState()

	if err := m.ctrl.Generate(); err != nil {
		m.setStatusMsg("Generate failed: %v", err)
		return
	}

	if len(previous.Values) > 0 {
		m.undoMgr.Push(previous)
	}

	m.statusMsg = ""
}

// selectAlgorithm changes the algorithm while idle
func (m *model) selectAlgorithm(id string) {
	if !m.ctrl.CanSelect() {
		return
	}

	if err := m.ctrl.SelectAlgorithm(id); err != nil {
		m.debugf("[TUI] Select %s failed: %v", id, err)
		return
	}

	m.localConfig.Playback.Algorithm = id
	m.statusMsg = ""
}

// adjustParam changes the selected parameter and pushes it to the controller
func (m *model) adjustParam(change func() bool) {
	if m.ctrl.State() == app.Busy {
		m.setStatusMsg("Parameters are locked while sorting")
		return
	}

	if !change() {
		return
	}

	param := m.paramMgr.GetSelected()
	if err := m.pushParams(); err != nil {
		m.setStatusMsg("Invalid %s: %v", param.Name, err)
		return
	}

	m.setStatusMsg("%s set to %d", param.Name, *param.Value)
}

// pushParams applies the local delay and size to the controller
func (m *model) pushParams() error {
	if err := m.ctrl.SetDelay(m.localConfig.Playback.Delay()); err != nil {
		return err
	}

	return m.ctrl.SetArraySize(m.localConfig.Array.Size)
}

// resetToDefaults restores default parameter values
func (m *model) resetToDefaults() {
	if m.ctrl.State() == app.Busy {
		m.setStatusMsg("Parameters are locked while sorting")
		return
	}

	m.paramMgr.ResetToDefaults(config.DefaultConfig())

	if err := m.pushParams(); err != nil {
		m.setStatusMsg("Reset failed: %v", err)
		return
	}

	m.setStatusMsg("Parameters reset to defaults")
}

// applyPendingReload applies a reloaded config once the controller is idle
func (m *model) applyPendingReload() {
	if m.pendingReload == nil || m.ctrl.State() == app.Busy {
		return
	}

	cfg := *m.pendingReload
	m.pendingReload = nil

	m.localConfig.Playback.DelayMS = cfg.Playback.DelayMS
	m.localConfig.Array.Size = cfg.Array.Size
	m.localConfig.Display.Margin = cfg.Display.Margin

	if cfg.Service != m.localConfig.Service && m.newProducer != nil {
		m.localConfig.Service = cfg.Service
		m.producer = m.newProducer(cfg.Service)
	}

	if cfg.Playback.Algorithm != m.localConfig.Playback.Algorithm {
		if err := m.ctrl.SelectAlgorithm(cfg.Playback.Algorithm); err != nil {
			m.debugf("[WATCHER] Ignoring algorithm %q: %v", cfg.Playback.Algorithm, err)
		} else {
			m.localConfig.Playback.Algorithm = cfg.Playback.Algorithm
		}
	}

	if err := m.pushParams(); err != nil {
		m.setStatusMsg("Config reload rejected: %v", err)
		return
	}

	m.resizeBars()
	m.debugf("[WATCHER] Config reloaded from %s", m.configPath)
	m.setStatusMsg("Config reloaded")
}

// undo restores the previous array
func (m *model) undo() {
	if !m.ctrl.CanGenerate() {
		return
	}

	state, ok := m.undoMgr.Undo(m.currentState())
	if !ok {
		m.setStatusMsg("Nothing to undo")
		return
	}

	m.restore(state)
}

// redo restores the next array
func (m *model) redo() {
	if !m.ctrl.CanGenerate() {
		return
	}

	state, ok := m.undoMgr.Redo(m.currentState())
	if !ok {
		m.setStatusMsg("Nothing to redo")
		return
	}

	m.restore(state)
}

// restore loads an array and its algorithm from history
func (m *model) restore(state ArrayState) {
	if state.Algorithm != "" {
		if err := m.ctrl.SelectAlgorithm(state.Algorithm); err != nil {
			m.debugf("[TUI] Restored algorithm %q rejected: %v", state.Algorithm, err)
		} else {
			m.localConfig.Playback.Algorithm = state.Algorithm
		}
	}

	if err := m.ctrl.LoadArray(state.Values); err != nil {
		m.setStatusMsg("Restore failed: %v", err)
		return
	}

	m.statusMsg = ""
}

// handleQuitKey handles the quit key press
func (m *model) handleQuitKey() (model, tea.Cmd) {
	m.quitting = true
	m.releaseFetch()

	return *m, tea.Quit
}
