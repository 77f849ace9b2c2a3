package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/capture"
	"github.com/entrhq/scout/pkg/llm"
	"github.com/entrhq/scout/pkg/types"
)

// docsDirName is where capture write-outs land, relative to the working
// directory.
const docsDirName = "scout-docs"

// dispatchInstruction interprets a natural-language instruction and
// executes the resulting command. It runs on a background goroutine via
// tea.Cmd; the returned message carries the outcome.
func (m *model) dispatchInstruction(instruction string) func() interface{} {
	app := m.app
	return func() interface{} {
		ctx := context.Background()
		pageCtx, err := app.Driver.GetPageContext(ctx)
		if err != nil {
			pageCtx = nil
		}
		cmd := app.Interpreter.Interpret(ctx, instruction, pageCtx)
		info, err := executeCommand(ctx, app, cmd)
		return taskDoneMsg{info: info, err: err}
	}
}

// executeCommand performs one structured command against the app's
// collaborators.
func executeCommand(ctx context.Context, app *App, cmd *llm.Command) (string, error) {
	switch cmd.Kind {
	case "navigate":
		if err := app.Driver.Navigate(ctx, cmd.Target, browser.WaitLoad); err != nil {
			return "", err
		}
		app.Agent.Emit(types.NewUIActionEvent("navigate", cmd.Target, ""))
		return "", nil

	case "click":
		if err := app.Driver.ClickByText(ctx, cmd.Target); err != nil {
			return "", err
		}
		app.Agent.Emit(types.NewUIActionEvent("click", cmd.Target, ""))
		return "", nil

	case "fill":
		if err := app.Driver.Fill(ctx, cmd.Target, cmd.Value); err != nil {
			return "", err
		}
		app.Agent.Emit(types.NewUIActionEvent("fill", cmd.Target, cmd.Value))
		return "", nil

	case "press":
		if err := app.Driver.Press(ctx, cmd.Target); err != nil {
			return "", err
		}
		app.Agent.Emit(types.NewUIActionEvent("press", cmd.Target, ""))
		return "", nil

	case "back":
		if err := app.Driver.GoBack(ctx); err != nil {
			return "", err
		}
		app.Agent.Emit(types.NewUIActionEvent("back", "", ""))
		return "", nil

	case "capture_start":
		target := cmd.Target
		if target == "" {
			target = app.Driver.CurrentURL()
		}
		if err := app.StartCapture(target); err != nil {
			return "", err
		}
		return fmt.Sprintf("Capture started for %s", target), nil

	case "capture_stop":
		info, err := app.StopCapture()
		if err != nil {
			return "", err
		}
		offerSessionReview(ctx, app)
		return info, nil

	case "explore":
		if err := app.Orchestrator.Run(ctx, app.Driver.CurrentURL()); err != nil {
			return "", err
		}
		return "", nil

	case "mode":
		mode := types.ExecutionMode(normalizeMode(cmd.Target))
		if !mode.Valid() {
			return "", fmt.Errorf("unknown mode %q (want execute, observe_only, or document_only)", cmd.Target)
		}
		app.Agent.SetMode(mode)
		return "", nil

	case "flow_start":
		app.Flows.StartFlow(cmd.Target)
		return "", nil

	case "flow_end":
		app.Flows.EndFlow()
		return "", nil

	default:
		return "", fmt.Errorf("I couldn't work out what to do with that — try /help")
	}
}

// offerSessionReview asks what to review when a capture session ends and
// renders the chosen view into the event log. Nothing is asked when the
// session produced neither endpoints nor flows.
func offerSessionReview(ctx context.Context, app *App) {
	calls := app.DocumentedCalls()
	flowList := app.Flows.Flows()
	if len(calls) == 0 && len(flowList) == 0 {
		return
	}

	actions := make([]string, 0, len(flowList))
	for _, f := range flowList {
		actions = append(actions, fmt.Sprintf("%s (%d steps)", f.Name, len(f.Steps)))
	}
	choice, err := app.Agent.RequestNextSteps(ctx, actions, fmt.Sprintf("%d distinct endpoint(s) captured", len(calls)))
	if err != nil {
		return
	}

	switch choice {
	case types.NextStepsActions:
		if len(actions) == 0 {
			app.Agent.Emit(types.NewInfoEvent("No flows were recorded in this session."))
			return
		}
		app.Agent.Emit(types.NewInfoEvent("Recorded flows: " + strings.Join(actions, "; ")))
	case types.NextStepsNetwork:
		endpoints := make([]string, 0, len(calls))
		for _, c := range calls {
			endpoints = append(endpoints, capture.DedupKey(c.Method, c.URL))
		}
		app.Agent.Emit(types.NewInfoEvent("Captured endpoints: " + strings.Join(endpoints, "; ")))
	}
}

// handleSlash executes a slash command. Unknown commands report an error
// line; known ones either act immediately or return a background task.
func (m *model) handleSlash(input string) func() interface{} {
	fields := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "help":
		m.appendLine(tipsStyle.Render(helpText))
		return nil

	case "quit", "exit":
		m.shouldQuit = true
		return nil

	case "mode":
		if len(args) == 0 {
			m.appendLine(infoStyle.Render(fmt.Sprintf("Current mode: %s", m.app.Agent.Mode())))
			return nil
		}
		return m.runCommand(&llm.Command{Kind: "mode", Target: args[0]})

	case "explore":
		return m.runCommand(&llm.Command{Kind: "explore"})

	case "capture":
		if len(args) > 0 && args[0] == "stop" {
			return m.runCommand(&llm.Command{Kind: "capture_stop"})
		}
		target := ""
		if len(args) > 0 && args[0] != "start" {
			target = args[0]
		} else if len(args) > 1 {
			target = args[1]
		}
		return m.runCommand(&llm.Command{Kind: "capture_start", Target: target})

	case "flow":
		if len(args) > 0 && args[0] == "end" {
			return m.runCommand(&llm.Command{Kind: "flow_end"})
		}
		name := strings.Join(args, " ")
		if name == "start" {
			name = ""
		}
		name = strings.TrimSpace(strings.TrimPrefix(name, "start "))
		return m.runCommand(&llm.Command{Kind: "flow_start", Target: name})

	case "flows":
		m.appendLine(renderFlows(m.app))
		return nil

	case "docs":
		app := m.app
		return func() interface{} {
			info, err := writeDocs(app)
			return taskDoneMsg{info: info, err: err}
		}

	default:
		m.appendLine(errorStyle.Render(fmt.Sprintf("Unknown command /%s — try /help", name)))
		return nil
	}
}

// runCommand wraps executeCommand as a background task.
func (m *model) runCommand(cmd *llm.Command) func() interface{} {
	app := m.app
	return func() interface{} {
		info, err := executeCommand(context.Background(), app, cmd)
		return taskDoneMsg{info: info, err: err}
	}
}

func renderFlows(app *App) string {
	flows := app.Flows.Flows()
	if len(flows) == 0 {
		return infoStyle.Render("No flows recorded yet. Start one with /flow <name>.")
	}
	var b strings.Builder
	for _, f := range flows {
		status := "unfinished"
		if f.Ended() {
			status = "completed"
		}
		fmt.Fprintf(&b, "%s (%s, %d steps)\n", f.Name, status, len(f.Steps))
	}
	return infoStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// writeDocs renders the current documentation set to disk without ending
// the capture session.
func writeDocs(app *App) (string, error) {
	dir := filepath.Join(".", docsDirName)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	paths, err := app.WriteDocs(dir)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Documentation written: %s", strings.Join(paths, ", ")), nil
}

func normalizeMode(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "observe", "observe-only":
		return "observe_only"
	case "document", "doc", "document-only":
		return "document_only"
	}
	return s
}

const helpText = `Commands:
  /mode [execute|observe_only|document_only]  show or switch execution mode
  /capture [url]                              start capturing API traffic
  /capture stop                               stop capturing and write docs
  /explore                                    autonomously explore from the current page
  /flow <name>                                start a named flow
  /flow end                                   end the current flow
  /flows                                      list recorded flows
  /docs                                       write documentation for the current session
  /quit                                       exit

Anything else is treated as an instruction, e.g. "go to https://app.example.com",
"click the Sign In button", "fill email with dev@example.com".`
