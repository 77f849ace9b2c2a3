package types

// ApprovalDecision is the user's answer to an approval_required event.
type ApprovalDecision string

const (
	ApprovalYes ApprovalDecision = "yes" // continue and document the call
	ApprovalNo  ApprovalDecision = "no"  // stop pursuing this path
	ApprovalDoc ApprovalDecision = "doc" // document the call but do not act on it
)

// ActionDecision is the user's answer to an action_suggestion event.
type ActionDecision string

const (
	ActionYes ActionDecision = "yes"
	ActionNo  ActionDecision = "no"
)

// NextStepsChoice is the user's answer to a next_steps event.
type NextStepsChoice string

const (
	NextStepsActions NextStepsChoice = "actions"
	NextStepsNetwork NextStepsChoice = "network"
)

// Approved returns true if the decision allows the agent to continue acting.
func (d ApprovalDecision) Approved() bool {
	return d == ApprovalYes
}

// DocumentOnly returns true if the call should be documented without acting.
func (d ApprovalDecision) DocumentOnly() bool {
	return d == ApprovalDoc
}

// Granted returns true if the suggested action was accepted.
func (d ActionDecision) Granted() bool {
	return d == ActionYes
}
