// Package flow groups emitted steps into named, mostly-sequential flows
// representing one user task each.
package flow

import (
	"time"

	"github.com/entrhq/scout/pkg/capture"
	"github.com/entrhq/scout/pkg/types"
)

// DefaultFlowName is used when a step is added with no active flow.
const DefaultFlowName = "Untitled Flow"

// Step is one recorded step of a flow, carrying the network calls and UI
// actions attributed to it.
type Step struct {
	Name      string
	Calls     []capture.CapturedCall
	UIActions []types.UIAction
	Timestamp time.Time
}

// Flow is a named, ordered sequence of steps.
type Flow struct {
	Name      string
	Steps     []Step
	StartedAt time.Time
	EndedAt   time.Time
}

// Ended returns true once EndFlow stamped the flow.
func (f *Flow) Ended() bool {
	return !f.EndedAt.IsZero()
}

// EventEmitter is a function type for emitting flow lifecycle events.
type EventEmitter func(event *types.AgentEvent)

// Tracker records flows. Only one flow is current at a time; a later
// StartFlow abandons an unfinished current flow without closing it.
// Tracker is not safe for concurrent use; the agent runs it from a single
// goroutine.
type Tracker struct {
	flows     []*Flow
	current   *Flow
	emitEvent EventEmitter
}

// NewTracker creates a flow tracker that reports lifecycle changes through
// emitEvent. A nil emitter disables event reporting.
func NewTracker(emitEvent EventEmitter) *Tracker {
	if emitEvent == nil {
		emitEvent = func(*types.AgentEvent) {}
	}
	return &Tracker{emitEvent: emitEvent}
}

// StartFlow begins a new named flow, replacing any current flow. An
// unfinished previous flow keeps its recorded steps but is never stamped
// with an end time.
func (t *Tracker) StartFlow(name string) *Flow {
	f := &Flow{Name: name, StartedAt: time.Now()}
	t.flows = append(t.flows, f)
	t.current = f
	t.emitEvent(types.NewFlowEvent("started", name, ""))
	return f
}

// AddStep appends a step to the current flow, starting an implicit flow if
// none is active.
func (t *Tracker) AddStep(name string, calls []capture.CapturedCall, uiActions []types.UIAction) {
	if t.current == nil {
		t.StartFlow(DefaultFlowName)
	}
	t.current.Steps = append(t.current.Steps, Step{
		Name:      name,
		Calls:     calls,
		UIActions: uiActions,
		Timestamp: time.Now(),
	})
	t.emitEvent(types.NewFlowEvent("step", t.current.Name, name))
}

// EndFlow stamps the current flow's end time and clears the current
// pointer. It is a no-op when no flow is active.
func (t *Tracker) EndFlow() {
	if t.current == nil {
		return
	}
	t.current.EndedAt = time.Now()
	t.emitEvent(types.NewFlowEvent("ended", t.current.Name, ""))
	t.current = nil
}

// Current returns the active flow, or nil.
func (t *Tracker) Current() *Flow {
	return t.current
}

// Flows returns all flows recorded this run, in start order.
func (t *Tracker) Flows() []*Flow {
	return t.flows
}
