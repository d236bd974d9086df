package workflow

// State represents a lifecycle stage of an invoice approval workflow.
type State string

const (
	StatePending       State = "PENDING"
	StateProcessing    State = "PROCESSING"
	StateAwaitingHuman State = "AWAITING_HUMAN"
	StateApproved      State = "APPROVED"
	StateRejected      State = "REJECTED"
)

var validStates = map[State]bool{
	StatePending:       true,
	StateProcessing:    true,
	StateAwaitingHuman: true,
	StateApproved:      true,
	StateRejected:      true,
}

// APPROVED and REJECTED are absorbing: signals against them are no-ops.
var terminalStates = map[State]bool{
	StateApproved: true,
	StateRejected: true,
}

// IsTerminal returns true if no further transitions are allowed.
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a known workflow state.
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}
