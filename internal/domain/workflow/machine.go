package workflow

import "fmt"

// Machine tracks the current state of one approval workflow and validates
// transitions against a closed transition table. Illegal triggers never
// mutate the machine; callers decide whether to treat them as errors or
// logged no-ops.
type Machine struct {
	current     State
	transitions map[State]map[Trigger]State
}

// approvalTransitions is the exhaustive transition table for the invoice
// approval lifecycle:
//
//	PENDING -> PROCESSING -> {AWAITING_HUMAN, APPROVED}
//	AWAITING_HUMAN -> {APPROVED, REJECTED}
var approvalTransitions = map[State]map[Trigger]State{
	StatePending: {
		TriggerExecute: StateProcessing,
	},
	StateProcessing: {
		TriggerEscalate:    StateAwaitingHuman,
		TriggerAutoApprove: StateApproved,
	},
	StateAwaitingHuman: {
		TriggerApprove: StateApproved,
		TriggerReject:  StateRejected,
	},
	// APPROVED and REJECTED are terminal: no outgoing transitions.
}

// NewMachine creates a machine for the approval lifecycle starting in the
// given state. It panics on an unknown state, mirroring a programming error.
func NewMachine(initial State) *Machine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initial))
	}
	return &Machine{
		current:     initial,
		transitions: approvalTransitions,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.current
}

// CanFire returns true if the trigger is permitted in the current state.
func (m *Machine) CanFire(trigger Trigger) bool {
	_, ok := m.transitions[m.current][trigger]
	return ok
}

// Fire attempts to execute the trigger, transitioning to the target state
// if the transition table permits it.
func (m *Machine) Fire(trigger Trigger) error {
	next, ok := m.transitions[m.current][trigger]
	if !ok {
		return fmt.Errorf("%w: trigger %s from state %s", ErrInvalidTransition, trigger, m.current)
	}
	m.current = next
	return nil
}

// PermittedTriggers returns all triggers that can fire in the current state.
func (m *Machine) PermittedTriggers() []Trigger {
	outgoing := m.transitions[m.current]
	triggers := make([]Trigger, 0, len(outgoing))
	for t := range outgoing {
		triggers = append(triggers, t)
	}
	return triggers
}
