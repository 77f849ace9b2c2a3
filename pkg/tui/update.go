package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/scout/pkg/types"
)

// Update handles all state updates for the TUI model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.shouldQuit {
		return m, tea.Quit
	}

	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)
	m.spinner, spCmd = m.spinner.Update(msg)

	// While a decision is pending the input box is replaced by the
	// decision prompt; keys answer the prompt instead of editing text.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.pending != decisionNone {
		return m.handleDecisionKey(keyMsg, spCmd)
	}

	if m.pending == decisionNone {
		m.textarea, taCmd = m.textarea.Update(msg)
	}
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleSubmit(spCmd)
		}

	case *types.AgentEvent:
		m.handleAgentEvent(msg)
		return m, tea.Batch(taCmd, vpCmd, spCmd)

	case taskDoneMsg:
		m.busy = false
		m.busyMessage = ""
		if msg.err != nil {
			m.appendLine(errorStyle.Render("✗ " + msg.err.Error()))
		} else if msg.info != "" {
			m.appendLine(infoStyle.Render("• " + msg.info))
		}
		return m, tea.Batch(taCmd, vpCmd, spCmd)
	}

	return m, tea.Batch(taCmd, vpCmd, spCmd)
}

// handleDecisionKey answers the pending decision prompt. Resolution is
// non-blocking; the waiting goroutine picks the decision up from the
// rendezvous queue.
func (m *model) handleDecisionKey(msg tea.KeyMsg, spCmd tea.Cmd) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	key := strings.ToLower(msg.String())
	switch m.pending {
	case decisionApproval:
		switch key {
		case "y":
			m.app.Agent.ResolveApproval(types.ApprovalYes)
		case "n":
			m.app.Agent.ResolveApproval(types.ApprovalNo)
		case "d":
			m.app.Agent.ResolveApproval(types.ApprovalDoc)
		default:
			return m, spCmd
		}

	case decisionAction:
		switch key {
		case "y":
			m.app.Agent.ResolveActionDecision(types.ActionYes)
		case "n":
			m.app.Agent.ResolveActionDecision(types.ActionNo)
		default:
			return m, spCmd
		}

	case decisionNextSteps:
		switch key {
		case "a":
			m.app.Agent.ResolveNextSteps(types.NextStepsActions)
		case "n":
			m.app.Agent.ResolveNextSteps(types.NextStepsNetwork)
		default:
			return m, spCmd
		}
	}

	m.appendLine(tipsStyle.Render("  ↳ " + key))
	m.clearPending()
	return m, spCmd
}

// handleSubmit runs the typed instruction or slash command.
func (m *model) handleSubmit(spCmd tea.Cmd) (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, spCmd
	}
	m.textarea.Reset()
	m.appendLine(headerStyle.Render("> " + input))

	var task func() interface{}
	if strings.HasPrefix(input, "/") {
		task = m.handleSlash(input)
	} else {
		task = m.dispatchInstruction(input)
	}

	if m.shouldQuit {
		return m, tea.Quit
	}
	if task == nil {
		return m, spCmd
	}

	m.busy = true
	m.busyMessage = "Working..."
	return m, tea.Batch(spCmd, func() tea.Msg { return task() })
}

// handleWindowResize lays the components out for a new terminal size.
func (m *model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 10
	footerHeight := 5
	viewportHeight := m.height - headerHeight - footerHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = viewportModel(m.width, viewportHeight)
		m.viewport.SetContent(m.content.String())
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = viewportHeight
	}
	m.textarea.SetWidth(m.width - 6)
	return m, nil
}
