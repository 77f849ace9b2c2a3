package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// View renders the entire TUI interface.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	sections := []string{
		m.buildHeader(),
		m.buildTips(),
		m.buildStatus(),
		"",
		m.viewport.View(),
	}
	if m.busy {
		sections = append(sections, m.buildLoadingIndicator())
	}
	sections = append(sections, m.buildInputArea(), m.buildBottomBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// buildHeader renders the Scout ASCII art header
func (m *model) buildHeader() string {
	return headerStyle.Render(`
	███████╗ ██████╗ ██████╗ ██╗   ██╗████████╗
	██╔════╝██╔════╝██╔═══██╗██║   ██║╚══██╔══╝
	███████╗██║     ██║   ██║██║   ██║   ██║
	╚════██║██║     ██║   ██║██║   ██║   ██║
	███████║╚██████╗╚██████╔╝╚██████╔╝   ██║
	╚══════╝ ╚═════╝ ╚═════╝  ╚═════╝    ╚═╝`)
}

// buildTips renders context-sensitive usage tips
func (m *model) buildTips() string {
	if m.pending != decisionNone {
		return tipsStyle.Render(`  A decision is pending — answer with the keys shown below`)
	}
	return tipsStyle.Render(`  Tips: Type instructions in plain English • / for commands • Enter to send • Ctrl+C to exit`)
}

// buildStatus renders the mode and capture state bar
func (m *model) buildStatus() string {
	captureState := "off"
	if m.app.Accumulator.Active() {
		captureState = "recording"
	}
	return statusBarStyle.Render(fmt.Sprintf(" Mode: %s • Capture: %s", m.modeLabel(), captureState))
}

// buildLoadingIndicator renders the spinner while a task runs
func (m *model) buildLoadingIndicator() string {
	loadingStyle := lipgloss.NewStyle().
		Foreground(skyBlue).
		Padding(0, 2)
	return loadingStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), m.busyMessage))
}

// buildInputArea renders either the decision prompt or the text input
func (m *model) buildInputArea() string {
	if m.pending != decisionNone {
		return decisionBoxStyle.Width(m.width - 4).Render(m.pendingPrompt)
	}
	return inputBoxStyle.Width(m.width - 4).Render(m.textarea.View())
}

// buildBottomBar renders the bottom status bar
func (m *model) buildBottomBar() string {
	return statusBarStyle.Width(m.width).Render("scout • observe, gate, explore")
}
