package workflow

// Trigger is an action that can move a lifecycle forward
type Trigger string

const (
	TriggerReceive     Trigger = "RECEIVE"
	TriggerStartReview Trigger = "START_REVIEW"
	TriggerApprove     Trigger = "APPROVE"
	TriggerReject      Trigger = "REJECT"
	TriggerConfirm     Trigger = "CONFIRM"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
