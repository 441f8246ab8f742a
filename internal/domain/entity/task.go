package entity

// BUTask is a closing deliverable owned by someone on the BU side.
// Index is the task's stable position in the catalog and acts as its ID.
type BUTask struct {
	Index   int        `json:"index"`
	Name    string     `json:"name"`
	Owner   string     `json:"owner"`
	Status  TaskStatus `json:"status"`
	DueDate Date       `json:"due_date"`
	SLA     int        `json:"sla"`
	Reason  string     `json:"reason,omitempty"`

	// ConfirmFailure, when set, makes confirmation of this task fail with
	// the given message. Used to exercise the failure path of the mock backend.
	ConfirmFailure string `json:"-"`
}

// Actionable reports whether the BU can still confirm (send) the task
func (t BUTask) Actionable() bool {
	return t.Status == TaskStatusOpen || t.Status == TaskStatusReject
}
