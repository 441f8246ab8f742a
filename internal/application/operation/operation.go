package operation

import (
	"errors"
	"time"
)

// Status is the phase of a simulated backend operation
type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
	StatusFailed   Status = "failed"
)

// IsDone reports whether the operation has left the pending phase
func (s Status) IsDone() bool {
	return s == StatusResolved || s == StatusFailed
}

// Operation kinds
const (
	KindTaskConfirm = "task.confirm"
	KindChatReply   = "chat.reply"
)

// ErrOperationPending is returned when the target already has an operation
// in flight. It is the server-side equivalent of a disabled action button.
var ErrOperationPending = errors.New("operation already pending for target")

// Operation is a snapshot of a submitted operation
type Operation struct {
	ID          string      `json:"id"`
	Kind        string      `json:"kind"`
	Target      string      `json:"target"`
	Status      Status      `json:"status"`
	SubmittedAt time.Time   `json:"submitted_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Result      interface{} `json:"result,omitempty"`
	// Message is the notification shown to the user once the operation ends
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Outcome is what a successful effect reports back
type Outcome struct {
	Result  interface{}
	Message string
}
