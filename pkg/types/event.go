package types

import "time"

// AgentEventType defines the type of event emitted by the agent.
type AgentEventType string

const (
	EventTypeInfo               AgentEventType = "info"                // EventTypeInfo carries a plain-text status or failure explanation.
	EventTypeUIAction           AgentEventType = "ui_action"           // EventTypeUIAction indicates a UI action performed in the browser.
	EventTypeNetwork            AgentEventType = "network"             // EventTypeNetwork indicates an observed network response.
	EventTypeApprovalRequired   AgentEventType = "approval_required"   // EventTypeApprovalRequired indicates a risky call is awaiting a human decision.
	EventTypeActionSuggestion   AgentEventType = "action_suggestion"   // EventTypeActionSuggestion indicates the agent is suggesting an action to take.
	EventTypeNextSteps          AgentEventType = "next_steps"          // EventTypeNextSteps indicates the agent is offering a choice of next steps.
	EventTypeFlow               AgentEventType = "flow"                // EventTypeFlow indicates a flow lifecycle change (started, step added, ended).
	EventTypeModeChange         AgentEventType = "mode_change"         // EventTypeModeChange indicates the execution mode was switched.
	EventTypeExplorationInsight AgentEventType = "exploration_insight" // EventTypeExplorationInsight carries the analysis of a single visited page.
	EventTypeExplorationSummary AgentEventType = "exploration_summary" // EventTypeExplorationSummary carries the synthesis of a whole exploration run.
	EventTypeLLMStatus          AgentEventType = "llm_status"          // EventTypeLLMStatus reports reasoning-service activity.
	EventTypeUserPrompt         AgentEventType = "user_prompt"         // EventTypeUserPrompt asks the user a free-form question.
)

// AgentEvent represents a single event on the agent's event stream.
// Events are immutable once emitted; consumers append them to their own
// logs and must never mutate past events.
type AgentEvent struct {
	// Type indicates the kind of event.
	Type AgentEventType

	// Content holds text content for info, llm_status, and user_prompt events.
	Content string

	// Timestamp is the emission time.
	Timestamp time.Time

	// UIAction describes a browser action (for ui_action events).
	UIAction *UIAction

	// Network describes an observed network response (for network and
	// approval_required events).
	Network *NetworkCall

	// RequestID identifies the pending decision for approval_required,
	// action_suggestion, and next_steps events.
	RequestID string

	// Suggestion describes a proposed action (for action_suggestion events).
	Suggestion *ActionSuggestion

	// NextSteps describes the offered continuation paths (for next_steps events).
	NextSteps *NextStepsPrompt

	// Flow describes a flow lifecycle change (for flow events).
	Flow *FlowChange

	// Mode is the new execution mode (for mode_change events).
	Mode ExecutionMode

	// Insight holds per-page exploration analysis (for exploration_insight events).
	Insight *PageInsightEvent

	// Summary holds the exploration synthesis (for exploration_summary events).
	Summary *ExplorationSummaryEvent
}

// UIAction describes a browser interaction attributed to the agent or user.
type UIAction struct {
	// Kind is the action primitive: click, fill, press, navigate, back.
	Kind string

	// Target identifies the element or URL acted on.
	Target string

	// Value is the input value for fill actions.
	Value string
}

// NetworkCall is the event-level view of an observed network response.
type NetworkCall struct {
	Method string
	URL    string
	Status int

	// Risk is the classified tier for the call: low, medium, or high.
	Risk string
}

// ActionSuggestion describes an action the agent proposes to take.
type ActionSuggestion struct {
	Action string
	Reason string
}

// NextStepsPrompt offers the user a choice between continuing with UI
// actions or reviewing captured network traffic.
type NextStepsPrompt struct {
	Actions        []string
	NetworkSummary string
}

// FlowChange describes a flow lifecycle transition.
type FlowChange struct {
	// Phase is one of "started", "step", "ended".
	Phase string

	FlowName string
	StepName string
}

// PageInsightEvent carries the analysis of one visited page during exploration.
type PageInsightEvent struct {
	PageLabel string
	CallCount int
	Insight   string
	Entities  []string
}

// ExplorationSummaryEvent carries the synthesis of an exploration run.
type ExplorationSummaryEvent struct {
	AppName         string
	Summary         string
	TopFindings     []string
	CoveragePercent int
	UnexploredAreas []string
	Recommendations []string
	PagesVisited    int
	UniqueEndpoints int
}

// NewInfoEvent creates an info event with a plain-text message.
func NewInfoEvent(message string) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeInfo,
		Content:   message,
		Timestamp: time.Now(),
	}
}

// NewUIActionEvent creates a ui_action event.
func NewUIActionEvent(kind, target, value string) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeUIAction,
		UIAction:  &UIAction{Kind: kind, Target: target, Value: value},
		Timestamp: time.Now(),
	}
}

// NewNetworkEvent creates a network event for an observed response.
func NewNetworkEvent(method, url string, status int, risk string) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeNetwork,
		Network:   &NetworkCall{Method: method, URL: url, Status: status, Risk: risk},
		Timestamp: time.Now(),
	}
}

// NewApprovalRequiredEvent creates an approval_required event for a risky call.
func NewApprovalRequiredEvent(requestID string, call *NetworkCall) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeApprovalRequired,
		RequestID: requestID,
		Network:   call,
		Timestamp: time.Now(),
	}
}

// NewActionSuggestionEvent creates an action_suggestion event.
func NewActionSuggestionEvent(requestID, action, reason string) *AgentEvent {
	return &AgentEvent{
		Type:       EventTypeActionSuggestion,
		RequestID:  requestID,
		Suggestion: &ActionSuggestion{Action: action, Reason: reason},
		Timestamp:  time.Now(),
	}
}

// NewNextStepsEvent creates a next_steps event.
func NewNextStepsEvent(requestID string, actions []string, networkSummary string) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeNextSteps,
		RequestID: requestID,
		NextSteps: &NextStepsPrompt{Actions: actions, NetworkSummary: networkSummary},
		Timestamp: time.Now(),
	}
}

// NewFlowEvent creates a flow lifecycle event.
func NewFlowEvent(phase, flowName, stepName string) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeFlow,
		Flow:      &FlowChange{Phase: phase, FlowName: flowName, StepName: stepName},
		Timestamp: time.Now(),
	}
}

// NewModeChangeEvent creates a mode_change event.
func NewModeChangeEvent(mode ExecutionMode) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeModeChange,
		Mode:      mode,
		Timestamp: time.Now(),
	}
}

// NewExplorationInsightEvent creates an exploration_insight event.
func NewExplorationInsightEvent(pageLabel string, callCount int, insight string, entities []string) *AgentEvent {
	return &AgentEvent{
		Type: EventTypeExplorationInsight,
		Insight: &PageInsightEvent{
			PageLabel: pageLabel,
			CallCount: callCount,
			Insight:   insight,
			Entities:  entities,
		},
		Timestamp: time.Now(),
	}
}

// NewExplorationSummaryEvent creates an exploration_summary event.
func NewExplorationSummaryEvent(summary *ExplorationSummaryEvent) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeExplorationSummary,
		Summary:   summary,
		Timestamp: time.Now(),
	}
}

// NewLLMStatusEvent creates an llm_status event.
func NewLLMStatusEvent(status string) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeLLMStatus,
		Content:   status,
		Timestamp: time.Now(),
	}
}

// NewUserPromptEvent creates a user_prompt event.
func NewUserPromptEvent(prompt string) *AgentEvent {
	return &AgentEvent{
		Type:      EventTypeUserPrompt,
		Content:   prompt,
		Timestamp: time.Now(),
	}
}

// IsDecisionEvent returns true if this event expects a decision response.
func (e *AgentEvent) IsDecisionEvent() bool {
	return e.Type == EventTypeApprovalRequired ||
		e.Type == EventTypeActionSuggestion ||
		e.Type == EventTypeNextSteps
}

// IsExplorationEvent returns true if this is any exploration-related event.
func (e *AgentEvent) IsExplorationEvent() bool {
	return e.Type == EventTypeExplorationInsight ||
		e.Type == EventTypeExplorationSummary
}
