package workflow

import (
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateProcessing, false},
		{StateAwaitingHuman, false},
		{StateApproved, true},
		{StateRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"valid state", StatePending, true},
		{"valid terminal state", StateRejected, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewMachine_PanicsOnInvalidState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewMachine() should panic on invalid initial state")
		}
	}()

	NewMachine(State("INVALID"))
}

func TestMachine_HappyPathAutoApproval(t *testing.T) {
	m := NewMachine(StatePending)

	steps := []struct {
		trigger       Trigger
		expectedState State
	}{
		{TriggerExecute, StateProcessing},
		{TriggerAutoApprove, StateApproved},
	}

	for i, step := range steps {
		if err := m.Fire(step.trigger); err != nil {
			t.Fatalf("Step %d: Fire(%v) failed: %v", i, step.trigger, err)
		}
		if m.State() != step.expectedState {
			t.Errorf("Step %d: State = %v, want %v", i, m.State(), step.expectedState)
		}
	}

	if !m.State().IsTerminal() {
		t.Error("Final state should be terminal")
	}
	if got := len(m.PermittedTriggers()); got != 0 {
		t.Errorf("Terminal state should have 0 permitted triggers, got %d", got)
	}
}

func TestMachine_EscalationPaths(t *testing.T) {
	tests := []struct {
		name     string
		decision Trigger
		final    State
	}{
		{"human approval", TriggerApprove, StateApproved},
		{"human rejection", TriggerReject, StateRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(StatePending)

			if err := m.Fire(TriggerExecute); err != nil {
				t.Fatalf("Fire(TriggerExecute) failed: %v", err)
			}
			if err := m.Fire(TriggerEscalate); err != nil {
				t.Fatalf("Fire(TriggerEscalate) failed: %v", err)
			}
			if m.State() != StateAwaitingHuman {
				t.Fatalf("State = %v, want %v", m.State(), StateAwaitingHuman)
			}

			if err := m.Fire(tt.decision); err != nil {
				t.Fatalf("Fire(%v) failed: %v", tt.decision, err)
			}
			if m.State() != tt.final {
				t.Errorf("State = %v, want %v", m.State(), tt.final)
			}
			if !m.State().IsTerminal() {
				t.Error("Final state should be terminal")
			}
		})
	}
}

func TestMachine_Fire_InvalidTransition(t *testing.T) {
	m := NewMachine(StatePending)

	err := m.Fire(TriggerApprove)
	if err == nil {
		t.Fatal("Fire() should fail for invalid transition")
	}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want %v", err, ErrInvalidTransition)
	}
	if m.State() != StatePending {
		t.Errorf("State should remain %v after failed Fire(), got %v", StatePending, m.State())
	}
}

func TestMachine_TerminalStatesAreAbsorbing(t *testing.T) {
	for _, terminal := range []State{StateApproved, StateRejected} {
		t.Run(string(terminal), func(t *testing.T) {
			m := NewMachine(terminal)

			for _, trigger := range []Trigger{TriggerExecute, TriggerEscalate, TriggerApprove, TriggerReject} {
				if m.CanFire(trigger) {
					t.Errorf("CanFire(%v) = true in terminal state %v", trigger, terminal)
				}
				if err := m.Fire(trigger); !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Fire(%v) error = %v, want ErrInvalidTransition", trigger, err)
				}
				if m.State() != terminal {
					t.Errorf("terminal state mutated to %v", m.State())
				}
			}
		})
	}
}

func TestMachine_CanFire(t *testing.T) {
	m := NewMachine(StateProcessing)

	tests := []struct {
		trigger  Trigger
		expected bool
	}{
		{TriggerEscalate, true},
		{TriggerAutoApprove, true},
		{TriggerExecute, false},
		{TriggerApprove, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.trigger), func(t *testing.T) {
			if got := m.CanFire(tt.trigger); got != tt.expected {
				t.Errorf("CanFire() = %v, want %v", got, tt.expected)
			}
		})
	}
}
