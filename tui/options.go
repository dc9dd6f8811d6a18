// ABOUTME: TUI mode dependencies and logging interface
// ABOUTME: Everything Run needs is injected here so tests can supply fakes

package tui

import (
	"sort-visualizer/app"
	"sort-visualizer/config"
	"sort-visualizer/playback"
	"sort-visualizer/step"
)

// Logger provides debug logging capability
type Logger interface {
	Debugf(format string, args ...interface{})
}

// Dependencies holds all external dependencies for the TUI
// This allows for clean dependency injection and easy testing
type Dependencies struct {
	Controller  *app.Controller
	Clock       *playback.VirtualClock // drives the controller's scheduler
	Config      config.Config
	ConfigPath  string // empty disables saving and watching
	NewProducer func(config.ServiceConfig) step.Producer
	SaveConfig  func(string, config.Config) error
	LoadConfig  func(string) (config.Config, error)
	Logger      Logger
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
