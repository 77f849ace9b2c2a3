package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/scout/pkg/types"
)

// decisionKind identifies which rendezvous a pending decision prompt
// belongs to.
type decisionKind int

const (
	decisionNone decisionKind = iota
	decisionApproval
	decisionAction
	decisionNextSteps
)

// model represents the state of the TUI application.
type model struct {
	// Bubble Tea components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Collaborators
	app *App

	// Content buffer for the event log
	content *strings.Builder

	// Pending human decision, if any. While set, the input box is replaced
	// by the decision prompt and only decision keys are accepted.
	pending       decisionKind
	pendingPrompt string

	// Agent state
	busy        bool
	busyMessage string

	// Window dimensions
	width  int
	height int
	ready  bool

	shouldQuit bool
}

// taskDoneMsg signals that a background task (instruction, exploration,
// capture write-out) has finished.
type taskDoneMsg struct {
	info string
	err  error
}

func initialModel(app *App) model {
	ta := textarea.New()
	ta.Placeholder = "Type an instruction or / for commands..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 2000
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(skyBlue)

	return model{
		textarea: ta,
		spinner:  sp,
		app:      app,
		content:  &strings.Builder{},
	}
}

func viewportModel(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

// Init starts the spinner tick loop.
func (m *model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// appendLine adds a rendered line to the event log and scrolls to the
// bottom.
func (m *model) appendLine(line string) {
	if line == "" {
		return
	}
	m.content.WriteString(line)
	m.content.WriteString("\n")
	if m.ready {
		m.viewport.SetContent(m.content.String())
		m.viewport.GotoBottom()
	}
}

// setPending switches the input area into decision mode.
func (m *model) setPending(kind decisionKind, prompt string) {
	m.pending = kind
	m.pendingPrompt = prompt
}

func (m *model) clearPending() {
	m.pending = decisionNone
	m.pendingPrompt = ""
}

// modeLabel renders the current execution mode for the status bar.
func (m *model) modeLabel() string {
	switch m.app.Agent.Mode() {
	case types.ModeExecute:
		return "execute"
	case types.ModeDocumentOnly:
		return "document-only"
	default:
		return "observe-only"
	}
}
