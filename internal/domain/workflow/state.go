package workflow

// State is a lifecycle state of a report or a BU task
type State string

// Report lifecycle
const (
	StateNotSent  State = "not-sent"
	StateReceived State = "received"
	StateInReview State = "in-review"
	StateApproved State = "approved"
	StateRejected State = "rejected"
)

// BU task lifecycle
const (
	StateTaskOpen       State = "Open"
	StateTaskSent       State = "Sent"
	StateTaskReject     State = "Reject"
	StateTaskApprove    State = "Approve"
	StateTaskInProgress State = "In Progress"
)

var validStates = map[State]bool{
	StateNotSent:        true,
	StateReceived:       true,
	StateInReview:       true,
	StateApproved:       true,
	StateRejected:       true,
	StateTaskOpen:       true,
	StateTaskSent:       true,
	StateTaskReject:     true,
	StateTaskApprove:    true,
	StateTaskInProgress: true,
}

// Terminal states accept no further user action
var terminalStates = map[State]bool{
	StateApproved:    true,
	StateRejected:    true,
	StateTaskSent:    true,
	StateTaskApprove: true,
}

// IsTerminal returns true if no user action can move the state further
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state belongs to one of the lifecycles
func (s State) IsValid() bool {
	return validStates[s]
}
