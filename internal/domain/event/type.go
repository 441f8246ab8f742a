package event

// Type identifies the type of domain event
type Type string

const (
	TypeReportApproved    Type = "report.approved"
	TypeReportRejected    Type = "report.rejected"
	TypeTaskConfirmed     Type = "task.confirmed"
	TypeTaskConfirmFailed Type = "task.confirm_failed"
	TypeChatAnswered      Type = "chat.answered"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeReportApproved,
		TypeReportRejected,
		TypeTaskConfirmed,
		TypeTaskConfirmFailed,
		TypeChatAnswered:
		return true
	default:
		return false
	}
}

// IsDecision reports whether the event records a status change worth auditing
func (t Type) IsDecision() bool {
	return t == TypeReportApproved || t == TypeReportRejected || t == TypeTaskConfirmed
}
