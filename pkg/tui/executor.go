// Package tui provides the interactive terminal interface for Scout: an
// event log fed by the agent's event stream, decision prompts for risk
// approvals, and slash commands for capture, flows, and exploration.
//
// The TUI codebase is split into multiple files:
// - executor.go: App wiring and program lifecycle
// - model.go: core model structure and state
// - update.go: Bubble Tea Update function and message handling
// - view.go: Bubble Tea View function and rendering
// - events.go: agent event rendering
// - commands.go: instruction dispatch and slash commands
// - styles.go: color scheme and styling
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/scout/pkg/agent"
	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/capture"
	"github.com/entrhq/scout/pkg/config"
	"github.com/entrhq/scout/pkg/docs"
	"github.com/entrhq/scout/pkg/explore"
	"github.com/entrhq/scout/pkg/flow"
	"github.com/entrhq/scout/pkg/types"
)

// App bundles the collaborators the TUI drives. It owns the session-level
// deduper that turns the capture stream into the documentation set.
type App struct {
	Agent        *agent.Agent
	Driver       browser.Driver
	Accumulator  *capture.Accumulator
	Flows        *flow.Tracker
	Orchestrator *explore.Orchestrator
	Interpreter  *agent.Interpreter

	mu          sync.Mutex
	deduper     *capture.Deduper
	lastSession *capture.Session
}

// NewApp wires the collaborators together and registers the capture
// listener that feeds the documentation set.
func NewApp(a *agent.Agent, driver browser.Driver, acc *capture.Accumulator, flows *flow.Tracker, orchestrator *explore.Orchestrator, interpreter *agent.Interpreter) *App {
	app := &App{
		Agent:        a,
		Driver:       driver,
		Accumulator:  acc,
		Flows:        flows,
		Orchestrator: orchestrator,
		Interpreter:  interpreter,
	}
	acc.SetListener(func(call capture.CapturedCall) {
		app.mu.Lock()
		d := app.deduper
		app.mu.Unlock()
		if d != nil {
			d.Add(call)
		}
	})
	return app
}

// StartCapture begins a capture session rooted at baseURL with a fresh
// documentation set.
func (a *App) StartCapture(baseURL string) error {
	includeThirdParty := false
	if c := config.GetCapture(); c != nil {
		includeThirdParty = c.GetIncludeThirdParty()
	}
	if _, err := a.Accumulator.StartSession(baseURL, includeThirdParty); err != nil {
		return err
	}
	a.mu.Lock()
	a.deduper = capture.NewDeduper()
	a.mu.Unlock()
	return nil
}

// StopCapture finalizes the active session and writes its documentation.
func (a *App) StopCapture() (string, error) {
	session := a.Accumulator.Finalize()
	if session == nil {
		return "", errors.New("no active capture session")
	}
	a.mu.Lock()
	a.lastSession = session
	endpoints := 0
	if a.deduper != nil {
		endpoints = a.deduper.Len()
	}
	a.mu.Unlock()

	dir := filepath.Join(".", docsDirName)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	if _, err := a.WriteDocs(dir); err != nil {
		return "", err
	}
	return fmt.Sprintf("Capture stopped: %d distinct endpoint(s) documented in %s/", endpoints, docsDirName), nil
}

// DocumentedCalls returns the deduplicated call set of the current or
// most recent session.
func (a *App) DocumentedCalls() []capture.CapturedCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.deduper == nil {
		return nil
	}
	return a.deduper.Calls()
}

// WriteDocs renders the documentation set (Markdown report plus OpenAPI
// document) into dir, returning the written paths.
func (a *App) WriteDocs(dir string) ([]string, error) {
	a.mu.Lock()
	session := a.Accumulator.Session()
	if session == nil {
		session = a.lastSession
	}
	deduper := a.deduper
	a.mu.Unlock()

	if session == nil || deduper == nil {
		return nil, errors.New("no capture session to document")
	}
	calls := deduper.Calls()

	mdPath := filepath.Join(dir, "session.md")
	mdFile, err := os.Create(mdPath)
	if err != nil {
		return nil, err
	}
	if err := docs.WriteMarkdown(mdFile, session, calls, a.Flows.Flows()); err != nil {
		mdFile.Close()
		return nil, err
	}
	if err := mdFile.Close(); err != nil {
		return nil, err
	}

	apiPath := filepath.Join(dir, "openapi.yaml")
	apiFile, err := os.Create(apiPath)
	if err != nil {
		return nil, err
	}
	if err := docs.WriteOpenAPI(apiFile, session.BaseURL, calls); err != nil {
		apiFile.Close()
		return nil, err
	}
	if err := apiFile.Close(); err != nil {
		return nil, err
	}

	return []string{mdPath, apiPath}, nil
}

// Executor runs the Bubble Tea program over an App.
type Executor struct {
	app     *App
	program *tea.Program
}

// NewExecutor creates a TUI executor for the given app.
func NewExecutor(app *App) *Executor {
	return &Executor{app: app}
}

// Run starts the TUI and blocks until the user exits. Agent events are
// forwarded onto the Bubble Tea message loop for the duration.
func (e *Executor) Run(ctx context.Context) error {
	m := initialModel(e.app)
	e.program = tea.NewProgram(&m, tea.WithAltScreen())

	subscription := e.app.Agent.Subscribe(func(event *types.AgentEvent) {
		e.program.Send(event)
	})
	defer e.app.Agent.Unsubscribe(subscription)

	go func() {
		<-ctx.Done()
		e.program.Quit()
	}()

	if _, err := e.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	return nil
}
