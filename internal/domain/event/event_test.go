package event

import (
	"testing"
	"time"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      bool
	}{
		{"report approved", TypeReportApproved, true},
		{"report rejected", TypeReportRejected, true},
		{"task confirmed", TypeTaskConfirmed, true},
		{"task confirm failed", TypeTaskConfirmFailed, true},
		{"chat answered", TypeChatAnswered, true},
		{"unknown", Type("instance.created"), false},
		{"empty", Type(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("Type.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestType_IsDecision(t *testing.T) {
	if !TypeReportRejected.IsDecision() {
		t.Error("report.rejected should be a decision")
	}
	if TypeTaskConfirmFailed.IsDecision() {
		t.Error("task.confirm_failed changes nothing and is not a decision")
	}
	if TypeChatAnswered.IsDecision() {
		t.Error("chat.answered is not a decision")
	}
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2026, 1, 13, 9, 0, 0, 0, time.UTC)
	e := NewEvent(TypeReportApproved, "bu-1-TB-001", at, nil)

	if e.ID == "" {
		t.Error("expected generated ID")
	}
	if e.Payload == nil {
		t.Error("expected non-nil payload")
	}
	if !e.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v", e.Timestamp, at)
	}

	other := NewEvent(TypeReportApproved, "bu-1-TB-001", at, nil)
	if other.ID == e.ID {
		t.Error("event IDs must be unique")
	}
}

func TestEvent_WithPayloadDoesNotMutate(t *testing.T) {
	e := NewEvent(TypeTaskConfirmed, "3", time.Now(), map[string]interface{}{KeyActor: "ho"})
	e2 := e.WithPayload(KeyReason, "late")

	if _, ok := e.Payload[KeyReason]; ok {
		t.Error("WithPayload mutated the original payload")
	}
	if e2.GetPayloadString(KeyReason) != "late" {
		t.Errorf("GetPayloadString() = %q, want %q", e2.GetPayloadString(KeyReason), "late")
	}
	if e2.ID != e.ID {
		t.Error("WithPayload should keep the event ID")
	}
}

func TestEvent_PayloadAccessors(t *testing.T) {
	e := NewEvent(TypeChatAnswered, "op", time.Now(), map[string]interface{}{
		KeyYear:      2025,
		KeyMatched:   true,
		KeyNewStatus: stringer("Sent"),
		"float":      float64(3),
	})

	if got := e.GetPayloadInt(KeyYear); got != 2025 {
		t.Errorf("GetPayloadInt() = %d, want 2025", got)
	}
	if got := e.GetPayloadInt("float"); got != 3 {
		t.Errorf("GetPayloadInt(float) = %d, want 3", got)
	}
	if !e.GetPayloadBool(KeyMatched) {
		t.Error("GetPayloadBool() = false, want true")
	}
	if got := e.GetPayloadString(KeyNewStatus); got != "Sent" {
		t.Errorf("GetPayloadString(stringer) = %q, want Sent", got)
	}
	if got := e.GetPayloadString("missing"); got != "" {
		t.Errorf("GetPayloadString(missing) = %q, want empty", got)
	}
}
