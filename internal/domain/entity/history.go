package entity

import "time"

// TargetKind identifies what a decision record refers to
type TargetKind string

const (
	TargetReport TargetKind = "report"
	TargetTask   TargetKind = "task"
)

// Action types recorded in the decision trail
const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
	ActionConfirm = "CONFIRM"
)

// DecisionRecord is one entry of the audit trail of state changes
type DecisionRecord struct {
	ID             int64      `json:"id"`
	TargetKind     TargetKind `json:"target_kind"`
	TargetID       string     `json:"target_id"`
	BUID           string     `json:"bu_id,omitempty"`
	PreviousStatus string     `json:"previous_status"`
	NewStatus      string     `json:"new_status"`
	Action         string     `json:"action"`
	Reason         string     `json:"reason,omitempty"`
	Actor          string     `json:"actor"`
	Timestamp      time.Time  `json:"timestamp"`
}
