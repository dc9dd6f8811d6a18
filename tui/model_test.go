// ABOUTME: Unit tests for TUI model behavior
// ABOUTME: Drives Update with key, step, and frame messages against a real controller

package tui

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sort-visualizer/app"
	"sort-visualizer/config"
	"sort-visualizer/playback"
	"sort-visualizer/step"
	"sort-visualizer/visual"
)

// createTestModel creates a model over a fresh controller and virtual clock
func createTestModel(t *testing.T, producer step.Producer) model {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Array.Size = 6

	clock := playback.NewVirtualClock()
	reg := visual.NewRegistry(visual.Surface{Width: 60, Height: 80, MaxValue: cfg.Array.MaxValue})
	sched := playback.NewScheduler(clock, reg, nil)

	ctrl, err := app.New(reg, sched, rand.New(rand.NewPCG(3, 5)), app.Options{
		Size:      cfg.Array.Size,
		MinValue:  cfg.Array.MinValue,
		MaxValue:  cfg.Array.MaxValue,
		Delay:     cfg.Playback.Delay(),
		Algorithm: cfg.Playback.Algorithm,
	}, nil)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}

	m, err := initModel(Dependencies{
		Controller: ctrl,
		Clock:      clock,
		Config:     cfg,
		NewProducer: func(config.ServiceConfig) step.Producer {
			return producer
		},
	})
	if err != nil {
		t.Fatalf("initModel: %v", err)
	}

	return m
}

// sortedSteps returns a step list that marks every index sorted
func sortedSteps(n int) step.Response {
	steps := make([]step.Step, n)
	for i := range steps {
		steps[i] = step.NewSorted(i)
	}

	return step.Response{Steps: steps, SimulatedDuration: 1.5}
}

func staticProducer(resp step.Response, err error) step.Producer {
	return step.ProducerFunc(func(context.Context, step.Request) (step.Response, error) {
		return resp, err
	})
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send runs one message through Update
func send(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)

	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", next)
	}

	return nm, cmd
}

func TestModelInitialization(t *testing.T) {
	m := createTestModel(t, nil)

	if m.paramMgr.Len() != 2 {
		t.Errorf("Expected 2 parameters, got %d", m.paramMgr.Len())
	}

	if m.ctrl.State() != app.Idle {
		t.Errorf("Expected Idle, got %v", m.ctrl.State())
	}

	if m.undoMgr.UndoSize() != 0 {
		t.Errorf("Expected empty undo stack, got %d", m.undoMgr.UndoSize())
	}

	if _, err := initModel(Dependencies{}); err == nil {
		t.Error("initModel should reject missing controller")
	}
}

func TestGenerateKey(t *testing.T) {
	m := createTestModel(t, nil)

	m, _ = send(t, m, keyPress("g"))

	if got := len(m.ctrl.Values()); got != 6 {
		t.Fatalf("Expected 6 values, got %d", got)
	}

	if m.undoMgr.UndoSize() != 0 {
		t.Error("First generate has nothing to push to history")
	}

	m, _ = send(t, m, keyPress("g"))

	if m.undoMgr.UndoSize() != 1 {
		t.Errorf("Expected 1 undo entry, got %d", m.undoMgr.UndoSize())
	}
}

func TestStartPlaysToCompletion(t *testing.T) {
	m := createTestModel(t, staticProducer(sortedSteps(6), nil))

	m, _ = send(t, m, keyPress("g"))
	m, cmd := send(t, m, keyPress("s"))

	if m.ctrl.State() != app.Busy {
		t.Fatalf("Expected Busy after start, got %v", m.ctrl.State())
	}

	if cmd == nil {
		t.Fatal("Expected a fetch command")
	}

	m, cmd = send(t, m, cmd())
	if cmd == nil {
		t.Fatal("Expected a frame command after steps arrive")
	}

	epoch := m.ctrl.Epoch()

	// One frame covering the whole playback
	m, cmd = send(t, m, frameMsg{epoch: epoch, at: m.lastFrame.Add(time.Second)})

	if cmd != nil {
		t.Error("Expected frames to stop once playback finished")
	}

	if m.ctrl.State() != app.Idle {
		t.Fatalf("Expected Idle after playback, got %v", m.ctrl.State())
	}

	if !m.ctrl.Registry().AllSorted() {
		t.Error("Expected every bar sorted")
	}

	if got := m.ctrl.TimeTaken(); got != "1.50 ms" {
		t.Errorf("TimeTaken = %q, want 1.50 ms", got)
	}
}

func TestFramesAdvanceIncrementally(t *testing.T) {
	m := createTestModel(t, staticProducer(sortedSteps(6), nil))

	m, _ = send(t, m, keyPress("g"))
	m, cmd := send(t, m, keyPress("s"))
	m, _ = send(t, m, cmd())

	epoch := m.ctrl.Epoch()

	// Default delay is 10ms per step; 25ms starts three steps
	m, cmd = send(t, m, frameMsg{epoch: epoch, at: m.lastFrame.Add(25 * time.Millisecond)})

	if cmd == nil {
		t.Fatal("Expected another frame while playing")
	}

	if started, total := m.ctrl.Progress(); started != 3 || total != 6 {
		t.Errorf("Progress = %d/%d, want 3/6", started, total)
	}
}

func TestStaleFramesIgnored(t *testing.T) {
	m := createTestModel(t, staticProducer(sortedSteps(6), nil))

	m, _ = send(t, m, keyPress("g"))
	m, cmd := send(t, m, keyPress("s"))
	m, _ = send(t, m, cmd())

	old := m.ctrl.Epoch()
	m, _ = send(t, m, keyPress("esc"))

	m, cmd = send(t, m, frameMsg{epoch: old, at: m.lastFrame.Add(time.Second)})
	if cmd != nil {
		t.Error("Stale frame should not schedule another")
	}

	if m.ctrl.Registry().AllSorted() {
		t.Error("Cancelled playback should not finish")
	}
}

func TestCancelDuringFetchDropsResult(t *testing.T) {
	m := createTestModel(t, staticProducer(sortedSteps(6), nil))

	m, _ = send(t, m, keyPress("g"))
	m, cmd := send(t, m, keyPress("s"))

	// Resolve the fetch only after the user cancelled
	msg := cmd()
	m, _ = send(t, m, keyPress("esc"))

	if m.ctrl.State() != app.Idle {
		t.Fatalf("Expected Idle after cancel, got %v", m.ctrl.State())
	}

	m, cmd = send(t, m, msg)
	if cmd != nil {
		t.Error("Stale steps should not start frames")
	}

	if m.clock.Pending() != 0 {
		t.Errorf("Expected no scheduled effects, got %d", m.clock.Pending())
	}
}

func TestFetchErrorShowsStatus(t *testing.T) {
	m := createTestModel(t, staticProducer(step.Response{}, errors.New("connection refused")))

	m, _ = send(t, m, keyPress("g"))
	m, cmd := send(t, m, keyPress("s"))
	m, cmd = send(t, m, cmd())

	if cmd != nil {
		t.Error("Failed fetch should not start frames")
	}

	status := m.ctrl.Status()
	if status.Tone != app.ToneError || !strings.Contains(status.Text, "connection refused") {
		t.Errorf("Unexpected status %+v", status)
	}

	if !strings.Contains(m.renderStatus(), "connection refused") {
		t.Errorf("Status bar does not show the error: %q", m.renderStatus())
	}
}

func TestEmptyStepsShowsStatus(t *testing.T) {
	m := createTestModel(t, staticProducer(step.Response{}, nil))

	m, _ = send(t, m, keyPress("g"))
	m.ctrl.Registry().ApplySorted(0)
	before := m.ctrl.Registry().Handles()

	m, cmd := send(t, m, keyPress("s"))
	m, cmd = send(t, m, cmd())

	if cmd != nil {
		t.Error("Empty result should not start frames")
	}

	if m.ctrl.State() != app.Idle {
		t.Errorf("Expected Idle, got %v", m.ctrl.State())
	}

	want := "Error: No steps received from the step service."
	if got := m.renderStatus(); !strings.Contains(got, want) {
		t.Errorf("Status bar = %q, want it to contain %q", got, want)
	}

	after := m.ctrl.Registry().Handles()
	if after[0].Color != visual.SortedState || len(after) != len(before) {
		t.Errorf("Empty result changed the bars: %+v", after)
	}
}

func TestStartWithoutArray(t *testing.T) {
	m := createTestModel(t, staticProducer(sortedSteps(1), nil))

	m, cmd := send(t, m, keyPress("s"))

	if cmd != nil {
		t.Error("Start without an array should not fetch")
	}

	if m.ctrl.Status().Text != "Please generate an array first." {
		t.Errorf("Unexpected status %q", m.ctrl.Status().Text)
	}
}

func TestAlgorithmKeys(t *testing.T) {
	m := createTestModel(t, nil)

	m, _ = send(t, m, keyPress("3"))
	if m.ctrl.Algorithm().ID != "QuickSort" {
		t.Errorf("Expected QuickSort, got %s", m.ctrl.Algorithm().ID)
	}

	m, _ = send(t, m, keyPress("tab"))
	if m.ctrl.Algorithm().ID != "BubbleSort" {
		t.Errorf("Expected tab to wrap to BubbleSort, got %s", m.ctrl.Algorithm().ID)
	}

	if m.localConfig.Playback.Algorithm != "BubbleSort" {
		t.Errorf("Local config algorithm = %s", m.localConfig.Playback.Algorithm)
	}
}

func TestParamsLockedWhileBusy(t *testing.T) {
	m := createTestModel(t, staticProducer(sortedSteps(6), nil))

	m, _ = send(t, m, keyPress("g"))
	m, _ = send(t, m, keyPress("s"))

	before := m.localConfig.Playback.DelayMS
	m, _ = send(t, m, keyPress("right"))

	if m.localConfig.Playback.DelayMS != before {
		t.Error("Delay changed while busy")
	}

	m, _ = send(t, m, keyPress("2"))
	if m.ctrl.Algorithm().ID != "BubbleSort" {
		t.Error("Algorithm changed while busy")
	}
}

func TestParamAdjustReachesController(t *testing.T) {
	m := createTestModel(t, nil)

	m, _ = send(t, m, keyPress("right"))
	if m.ctrl.Delay() != 15*time.Millisecond {
		t.Errorf("Delay = %v, want 15ms", m.ctrl.Delay())
	}

	m, _ = send(t, m, keyPress("down"))
	m, _ = send(t, m, keyPress("right"))

	if m.ctrl.ArraySize() != 11 {
		t.Errorf("ArraySize = %d, want 11", m.ctrl.ArraySize())
	}

	m, _ = send(t, m, keyPress("r"))
	if m.ctrl.ArraySize() != config.DefaultConfig().Array.Size {
		t.Errorf("ArraySize after reset = %d", m.ctrl.ArraySize())
	}
}

func TestUndoRedoArrays(t *testing.T) {
	m := createTestModel(t, nil)

	m, _ = send(t, m, keyPress("g"))
	first := m.ctrl.Values()

	m, _ = send(t, m, keyPress("3"))
	m, _ = send(t, m, keyPress("g"))
	second := m.ctrl.Values()

	m, _ = send(t, m, keyPress("u"))

	if !equalValues(m.ctrl.Values(), first) {
		t.Errorf("Undo restored %v, want %v", m.ctrl.Values(), first)
	}

	if m.ctrl.Algorithm().ID != "QuickSort" {
		t.Errorf("Undo restored algorithm %s, want QuickSort", m.ctrl.Algorithm().ID)
	}

	m, _ = send(t, m, keyPress("ctrl+r"))

	if !equalValues(m.ctrl.Values(), second) {
		t.Errorf("Redo restored %v, want %v", m.ctrl.Values(), second)
	}
}

func TestWindowResize(t *testing.T) {
	m := createTestModel(t, nil)

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	cols, rows := m.barArea()
	surface := m.ctrl.Registry().Surface()

	if surface.Width != float64(cols) || surface.Height != float64(rows*eighthsPerRow) {
		t.Errorf("Surface = %+v, want %dx%d cells", surface, cols, rows)
	}

	if view := m.View(); !strings.Contains(view, "Bubble Sort") {
		t.Error("View should list the algorithms")
	}
}

func TestConfigReloadWaitsForIdle(t *testing.T) {
	m := createTestModel(t, staticProducer(sortedSteps(6), nil))

	m, _ = send(t, m, keyPress("g"))
	m, cmd := send(t, m, keyPress("s"))
	m, _ = send(t, m, cmd())

	reloaded := config.DefaultConfig()
	reloaded.Playback.DelayMS = 40
	reloaded.Array.Size = 12

	m, _ = send(t, m, configReloadedMsg{cfg: reloaded})

	if m.pendingReload == nil {
		t.Fatal("Reload should be pending while busy")
	}

	m, _ = send(t, m, frameMsg{epoch: m.ctrl.Epoch(), at: m.lastFrame.Add(time.Second)})

	if m.pendingReload != nil {
		t.Error("Reload should apply once playback finished")
	}

	if m.ctrl.Delay() != 40*time.Millisecond || m.ctrl.ArraySize() != 12 {
		t.Errorf("Controller has delay %v size %d", m.ctrl.Delay(), m.ctrl.ArraySize())
	}
}

func TestConfigReloadError(t *testing.T) {
	m := createTestModel(t, nil)

	m, _ = send(t, m, configReloadedMsg{err: config.ErrInvalidConfig})

	if !strings.Contains(m.statusMsg, "reload failed") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestQuitSavesConfig(t *testing.T) {
	m := createTestModel(t, nil)

	var saved config.Config

	m.configPath = "/tmp/sort-visualizer-test.toml"
	m.saveConfig = func(_ string, cfg config.Config) error {
		saved = cfg
		return nil
	}

	m, _ = send(t, m, keyPress("2"))
	m, _ = send(t, m, keyPress("right"))
	m, cmd := send(t, m, keyPress("q"))

	if cmd == nil || !m.quitting {
		t.Fatal("Expected quit")
	}

	m.shutdown()

	if saved.Playback.Algorithm != "MergeSort" || saved.Playback.DelayMS != 15 {
		t.Errorf("Saved %+v", saved.Playback)
	}
}

func equalValues(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
