package types

// ExecutionMode controls how aggressively the agent acts and how the
// risk-gating policy treats medium-risk calls. It never affects capture.
type ExecutionMode string

const (
	// ModeExecute allows the agent to act and gates medium and high risk.
	ModeExecute ExecutionMode = "execute"

	// ModeObserveOnly watches traffic without acting; only high risk gates.
	ModeObserveOnly ExecutionMode = "observe_only"

	// ModeDocumentOnly records traffic for documentation; only high risk gates.
	ModeDocumentOnly ExecutionMode = "document_only"
)

// Valid returns true for a known execution mode.
func (m ExecutionMode) Valid() bool {
	switch m {
	case ModeExecute, ModeObserveOnly, ModeDocumentOnly:
		return true
	}
	return false
}
