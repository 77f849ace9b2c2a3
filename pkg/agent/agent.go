// Package agent implements the core event dispatch, execution-mode state
// machine, and risk gating for observed network traffic. It is the single
// point of event emission and the only place that blocks pending a human
// decision.
package agent

import (
	"context"
	"sync"

	"github.com/entrhq/scout/pkg/agent/decision"
	"github.com/entrhq/scout/pkg/logging"
	"github.com/entrhq/scout/pkg/risk"
	"github.com/entrhq/scout/pkg/types"
)

// Listener receives every emitted event. Listeners run synchronously in
// registration order; they must not block.
type Listener func(event *types.AgentEvent)

type listenerEntry struct {
	id int
	fn Listener
}

// Agent is the core coordinator. The execution mode is explicit state on
// the struct, set at construction, so gating policy is testable without
// global setup.
type Agent struct {
	mu        sync.Mutex
	listeners []listenerEntry
	nextID    int
	mode      types.ExecutionMode

	decisions *decision.Manager
	log       *logging.Logger
}

// New creates an agent core in the given execution mode.
func New(mode types.ExecutionMode) *Agent {
	if !mode.Valid() {
		mode = types.ModeObserveOnly
	}
	log, _ := logging.NewLogger("agent")
	return &Agent{
		mode:      mode,
		decisions: decision.NewManager(),
		log:       log,
	}
}

// Subscribe registers a listener and returns an ID for Unsubscribe.
// A listener added during dispatch sees only subsequent emits.
func (a *Agent) Subscribe(fn Listener) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	a.listeners = append(a.listeners, listenerEntry{id: a.nextID, fn: fn})
	return a.nextID
}

// Unsubscribe removes a listener. Removal during dispatch takes effect on
// the next emit, never the current one.
func (a *Agent) Unsubscribe(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, e := range a.listeners {
		if e.id == id {
			a.listeners = append(a.listeners[:i], a.listeners[i+1:]...)
			return
		}
	}
}

// Emit dispatches the event synchronously to a snapshot of the current
// listener list, in registration order. All listeners run to completion
// before Emit returns.
func (a *Agent) Emit(event *types.AgentEvent) {
	a.mu.Lock()
	snapshot := make([]listenerEntry, len(a.listeners))
	copy(snapshot, a.listeners)
	a.mu.Unlock()

	for _, e := range snapshot {
		e.fn(event)
	}
}

// Mode returns the current execution mode.
func (a *Agent) Mode() types.ExecutionMode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// SetMode transitions the execution mode and emits a mode_change event.
// Any mode may transition to any other.
func (a *Agent) SetMode(mode types.ExecutionMode) {
	if !mode.Valid() {
		return
	}
	a.mu.Lock()
	a.mode = mode
	a.mu.Unlock()
	a.log.Infof("execution mode set to %s", mode)
	a.Emit(types.NewModeChangeEvent(mode))
}

// RequestApproval emits an approval_required event for the call and
// blocks until the user resolves it. There is no timeout.
func (a *Agent) RequestApproval(ctx context.Context, call *types.NetworkCall) (types.ApprovalDecision, error) {
	pending := a.decisions.NewApproval()
	a.Emit(types.NewApprovalRequiredEvent(pending.ID, call))
	a.log.Infof("approval requested for %s %s (%s risk)", call.Method, call.URL, call.Risk)

	d, err := pending.Wait(ctx)
	if err != nil {
		a.decisions.AbandonApproval(pending.ID)
		return "", err
	}
	return d, nil
}

// RequestActionDecision emits an action_suggestion event and blocks until
// the user accepts or declines.
func (a *Agent) RequestActionDecision(ctx context.Context, action, reason string) (types.ActionDecision, error) {
	pending := a.decisions.NewAction()
	a.Emit(types.NewActionSuggestionEvent(pending.ID, action, reason))

	d, err := pending.Wait(ctx)
	if err != nil {
		a.decisions.AbandonAction(pending.ID)
		return "", err
	}
	return d, nil
}

// RequestNextSteps emits a next_steps event offering the user a choice
// between continuing with actions or reviewing captured traffic.
func (a *Agent) RequestNextSteps(ctx context.Context, actions []string, networkSummary string) (types.NextStepsChoice, error) {
	pending := a.decisions.NewNextSteps()
	a.Emit(types.NewNextStepsEvent(pending.ID, actions, networkSummary))

	c, err := pending.Wait(ctx)
	if err != nil {
		a.decisions.AbandonNextSteps(pending.ID)
		return "", err
	}
	return c, nil
}

// ResolveApproval delivers the user's decision to the oldest pending
// approval request. A call with nothing pending is a no-op.
func (a *Agent) ResolveApproval(d types.ApprovalDecision) bool {
	return a.decisions.ResolveApproval(d)
}

// ResolveActionDecision delivers the user's decision to the oldest
// pending action request.
func (a *Agent) ResolveActionDecision(d types.ActionDecision) bool {
	return a.decisions.ResolveAction(d)
}

// ResolveNextSteps delivers the user's choice to the oldest pending
// next-steps request.
func (a *Agent) ResolveNextSteps(c types.NextStepsChoice) bool {
	return a.decisions.ResolveNextSteps(c)
}

// HandleNetworkCall classifies an already-completed network response,
// emits a network event unconditionally, and gates on approval when the
// policy demands it: high risk always asks; medium risk asks only in
// execute mode. The returned decision is nil when no gate applied.
//
// The response has already happened by the time this runs; approval gates
// subsequent documentation and continuation, it cannot undo the call.
func (a *Agent) HandleNetworkCall(ctx context.Context, method, url string, status int) (*types.ApprovalDecision, error) {
	tier := risk.Classify(method, url)
	call := &types.NetworkCall{Method: method, URL: url, Status: status, Risk: string(tier)}
	a.Emit(types.NewNetworkEvent(method, url, status, string(tier)))

	gated := tier == risk.TierHigh || (tier == risk.TierMedium && a.Mode() == types.ModeExecute)
	if !gated {
		return nil, nil
	}

	d, err := a.RequestApproval(ctx, call)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
