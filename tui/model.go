// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model wrapping the app controller and its playback clock

// Package tui provides an interactive terminal UI that animates sorting steps.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"sort-visualizer/app"
	"sort-visualizer/config"
	"sort-visualizer/playback"
	"sort-visualizer/step"
)

// Layout constants for UI dimensions
const (
	paramPanelWidth = 36 // Left panel width for algorithm and parameter controls
	panelPadding    = 2  // Horizontal spacing between panels

	// UI chrome heights (elements that reduce available bar space)
	titleHeight     = 2 // Panel title bars
	statusBarHeight = 1 // Bottom status bar
	helpHeight      = 1 // Help text line
	spacingHeight   = 1 // Vertical spacing between elements
	totalUIChrome   = titleHeight + statusBarHeight + helpHeight + spacingHeight

	minBarColumns = 10
	minBarRows    = 4
)

const (
	statusMessageDuration = 5 * time.Second // How long to show transient status messages
	maxUndoStackSize      = 50              // Maximum undo/redo history items
	frameInterval         = playback.DefaultFrame
	reloadDebounce        = 100 * time.Millisecond
)

// model holds the TUI state
type model struct {
	// Dependencies
	ctrl        *app.Controller
	clock       *playback.VirtualClock
	producer    step.Producer
	newProducer func(config.ServiceConfig) step.Producer
	saveConfig  func(string, config.Config) error
	loadConfig  func(string) (config.Config, error)
	debugf      func(string, ...interface{})

	// Configuration
	localConfig   *config.Config // params point into this (pointer so addresses stay valid)
	configPath    string
	paramMgr      *ParamManager
	pendingReload *config.Config // reloaded while busy, applied once idle
	watcher       *fsnotify.Watcher

	// Request lifecycle
	// Bubble Tea owns the model, so the cancel func for the in-flight request lives here
	cancelFetch context.CancelFunc
	lastFrame   time.Time

	// UI state
	width        int
	height       int
	quitting     bool
	statusMsg    string    // Temporary status message (e.g., "Delay set to 20ms")
	statusMsgAge time.Time // When status message was set
	spinner      spinner.Model
	undoMgr      *UndoManager
}

// Key bindings
type keyMap struct {
	Generate  key.Binding
	Start     key.Binding
	Algorithm key.Binding
	Bubble    key.Binding
	Merge     key.Binding
	Quick     key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Reset     key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Cancel    key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Generate: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "generate"),
	),
	Start: key.NewBinding(
		key.WithKeys("s", "enter"),
		key.WithHelp("s", "start"),
	),
	Algorithm: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next algorithm"),
	),
	Bubble: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "bubble sort"),
	),
	Merge: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "merge sort"),
	),
	Quick: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "quick sort"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "select param"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "select param"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "decrease param"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "increase param"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset params"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "previous array"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "next array"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "x"),
		key.WithHelp("esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	paramStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedParamStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("240")).
				Foreground(lipgloss.Color("15")).
				Bold(true).
				Padding(0, 1)

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	toneColors = map[app.Tone]lipgloss.Color{
		app.ToneInfo:    lipgloss.Color("15"),
		app.ToneBusy:    lipgloss.Color("220"),
		app.ToneSuccess: lipgloss.Color("42"),
		app.ToneError:   lipgloss.Color("196"),
	}
)

// Run starts the TUI with injected dependencies
func Run(deps Dependencies) error {
	m, err := initModel(deps)
	if err != nil {
		return err
	}

	if m.configPath != "" {
		watcher, err := newConfigWatcher(m.configPath)
		if err != nil {
			// Live reload is optional
			m.debugf("[WATCHER] Not watching %s: %v", m.configPath, err)
		} else {
			m.watcher = watcher
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if fm, ok := finalModel.(model); ok {
		fm.shutdown()
	}

	return nil
}

// initModel creates the initial model with injected dependencies
func initModel(deps Dependencies) (model, error) {
	if deps.Controller == nil || deps.Clock == nil {
		return model{}, fmt.Errorf("tui: controller and clock are required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	// Allocate localConfig on heap so pointers remain valid
	cfg := deps.Config
	localConfig := &cfg

	var producer step.Producer
	if deps.NewProducer != nil {
		producer = deps.NewProducer(cfg.Service)
	}

	loadConfig := deps.LoadConfig
	if loadConfig == nil {
		loadConfig = config.Load
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	m := model{
		ctrl:        deps.Controller,
		clock:       deps.Clock,
		producer:    producer,
		newProducer: deps.NewProducer,
		saveConfig:  deps.SaveConfig,
		loadConfig:  loadConfig,
		debugf:      logger.Debugf,

		localConfig: localConfig,
		configPath:  deps.ConfigPath,
		paramMgr:    NewParamManager(newPlaybackParams(localConfig)),

		spinner: s,
		undoMgr: NewUndoManager(maxUndoStackSize),
	}

	return m, nil
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.watcher != nil {
		cmds = append(cmds, waitForConfigChange(m.watcher, m.configPath, m.debugf))
	}

	return tea.Batch(cmds...)
}

// setStatusMsg shows a transient message in place of the controller status
func (m *model) setStatusMsg(format string, args ...interface{}) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusMsgAge = time.Now()
}

// currentState snapshots the array for the undo history
func (m model) currentState() ArrayState {
	return ArrayState{
		Values:    m.ctrl.Values(),
		Algorithm: m.ctrl.Algorithm().ID,
	}
}

// shutdown cancels in-flight work and saves the tuned parameters
func (m model) shutdown() {
	if m.cancelFetch != nil {
		m.cancelFetch()
	}

	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.debugf("[TUI] Failed to close config watcher: %v", err)
		}
	}

	if m.configPath == "" || m.saveConfig == nil {
		return
	}

	cfg := *m.localConfig
	cfg.Playback.Algorithm = m.ctrl.Algorithm().ID

	if err := m.saveConfig(m.configPath, cfg); err != nil {
		// Don't block quit on config save failure
		m.debugf("[TUI] Failed to save config on quit: %v", err)
	}
}
