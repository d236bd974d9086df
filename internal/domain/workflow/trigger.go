package workflow

// Trigger represents an event that can cause a state transition.
type Trigger string

const (
	// TriggerExecute moves a fresh workflow into its decision step.
	TriggerExecute Trigger = "EXECUTE"

	// TriggerEscalate suspends the workflow for a human decision.
	TriggerEscalate Trigger = "ESCALATE"

	// TriggerAutoApprove releases the transaction without human input.
	TriggerAutoApprove Trigger = "AUTO_APPROVE"

	// TriggerApprove and TriggerReject resolve a suspended workflow.
	TriggerApprove Trigger = "APPROVE"
	TriggerReject  Trigger = "REJECT"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
