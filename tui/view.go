// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function and all render helpers

package tui

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"sort-visualizer/app"
)

// View renders the TUI
func (m model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] View panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	if m.quitting {
		return "Saving config and exiting...\n"
	}

	panelHeight := max(m.height-(statusBarHeight+helpHeight+spacingHeight), minBarRows+titleHeight)

	leftPanelStyle := lipgloss.NewStyle().
		Width(paramPanelWidth).
		Height(panelHeight).
		Padding(0, 1)

	cols, _ := m.barArea()

	rightPanelStyle := lipgloss.NewStyle().
		Width(cols + 2).
		Height(panelHeight).
		Padding(0, 1)

	combined := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanelStyle.Render(m.renderControls()),
		rightPanelStyle.Render(m.renderChart()),
	)

	return combined + "\n" + m.renderStatus() + "\n" + m.renderHelp()
}

// renderControls renders the algorithm list, timing, and parameters
func (m model) renderControls() string {
	var s string

	s += titleStyle.Render("Algorithm") + "\n\n"

	current := m.ctrl.Algorithm()
	idle := m.ctrl.CanSelect()

	for i, algo := range app.Algorithms() {
		prefix := "  "
		if algo.ID == current.ID {
			prefix = "► "
		}

		line := fmt.Sprintf("%s%d %-14s", prefix, i+1, algo.Name)

		switch {
		case algo.ID == current.ID:
			s += selectedParamStyle.Render(line) + "\n"
		case !idle:
			s += disabledStyle.Render(line) + "\n"
		default:
			s += paramStyle.Render(line) + "\n"
		}
	}

	s += "\n"
	s += paramStyle.Render(fmt.Sprintf("Time:  %s", current.Time)) + "\n"
	s += paramStyle.Render(fmt.Sprintf("Space: %s", current.Space)) + "\n"
	s += paramStyle.Render(fmt.Sprintf("Time taken: %s", m.ctrl.TimeTaken())) + "\n\n"

	start := fmt.Sprintf("[s] Start %s", current.Name)
	if m.ctrl.CanStart() {
		s += selectedParamStyle.Render(start) + "\n\n"
	} else {
		s += disabledStyle.Render(start) + "\n\n"
	}

	s += titleStyle.Render("Parameters") + "\n\n"

	for i, param := range m.paramMgr.All() {
		value := "N/A"
		if param.Value != nil {
			value = strconv.Itoa(*param.Value)
		}

		// Fixed width formatting to prevent column misalignment
		prefix := "  "
		if i == m.paramMgr.Selected() {
			prefix = "► "
		}

		line := fmt.Sprintf("%s%-18s %6s", prefix, param.Name, value)

		switch {
		case !idle:
			s += disabledStyle.Render(line) + "\n"
		case i == m.paramMgr.Selected():
			s += selectedParamStyle.Render(line) + "\n"
		default:
			s += paramStyle.Render(line) + "\n"
		}
	}

	s += "\n"
	s += helpStyle.Render(fmt.Sprintf("  History U:%d R:%d", m.undoMgr.UndoSize(), m.undoMgr.RedoSize())) + "\n"

	return s
}

// renderChart renders the bar area
func (m model) renderChart() string {
	var s string

	reg := m.ctrl.Registry()
	title := fmt.Sprintf("Array (%d bars)", reg.Len())
	s += titleStyle.Render(title) + "\n\n"

	cols, rows := m.barArea()
	if reg.Len() == 0 {
		return s + helpStyle.Render("Press g to generate an array")
	}

	return s + renderBars(reg.Handles(), cols, rows)
}

// renderStatus renders the status bar
func (m model) renderStatus() string {
	// Show status message if recent
	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		return statusStyle.Width(m.width).Render(m.statusMsg)
	}

	status := m.ctrl.Status()

	var parts []string

	if m.ctrl.State() == app.Busy {
		parts = append(parts, m.spinner.View())
	}

	parts = append(parts, status.Text)

	if started, total := m.ctrl.Progress(); m.ctrl.Playing() && total > 0 {
		parts = append(parts, fmt.Sprintf("| step %d/%d", started, total))
	}

	style := statusStyle.Width(m.width)
	if color, ok := toneColors[status.Tone]; ok {
		style = style.Foreground(color)
	}

	return style.Render(strings.Join(parts, " "))
}

// renderHelp renders the help text
func (m model) renderHelp() string {
	return helpStyle.Render(" g: generate | s: start | esc: cancel | tab/1-3: algorithm | ↑/↓: select param | ←/→: adjust | r: reset | u: undo | ctrl+r: redo | q: quit")
}
