// ABOUTME: Config file watching for live parameter reloads
// ABOUTME: Turns fsnotify write events into Bubble Tea messages

package tui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"sort-visualizer/config"
)

// configChangedMsg signals that the config file was written
type configChangedMsg struct{}

// configReloadedMsg carries the result of reloading the config file
type configReloadedMsg struct {
	cfg config.Config
	err error
}

// newConfigWatcher watches the directory holding path.
// Editors that save by rename replace the file, so the directory is watched rather than the file.
func newConfigWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	return watcher, nil
}

// waitForConfigChange blocks until the watched config file is written
func waitForConfigChange(watcher *fsnotify.Watcher, path string, debugf func(string, ...interface{})) tea.Cmd {
	target := filepath.Clean(path)

	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if filepath.Clean(event.Name) != target {
					continue
				}

				// Only react to writes and atomic replacements
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					// Debounce: wait a bit for the write to complete
					time.Sleep(reloadDebounce)
					return configChangedMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				// Log error but continue watching
				debugf("[WATCHER] Error: %v", err)
			}
		}
	}
}

// reloadConfig loads the config file in the background
func reloadConfig(path string, load func(string) (config.Config, error)) tea.Cmd {
	return func() tea.Msg {
		cfg, err := load(path)
		return configReloadedMsg{cfg: cfg, err: err}
	}
}
