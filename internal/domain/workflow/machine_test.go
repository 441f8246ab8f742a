package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateNotSent, false},
		{StateReceived, false},
		{StateInReview, false},
		{StateApproved, true},
		{StateRejected, true},
		{StateTaskOpen, false},
		{StateTaskReject, false},
		{StateTaskInProgress, false},
		{StateTaskSent, true},
		{StateTaskApprove, true},
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
		{"report state", StateInReview, true},
		{"task state", StateTaskInProgress, true},
		{"locked is not a lifecycle state", State("locked"), false},
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

func TestTrigger_String(t *testing.T) {
	if got := TriggerStartReview.String(); got != "START_REVIEW" {
		t.Errorf("Trigger.String() = %v, want %v", got, "START_REVIEW")
	}
}

func TestBuilder_ConfigureInvalidStatePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() with invalid state should panic")
		}
	}()
	NewBuilder().Configure(State("BOGUS"))
}

func TestBuilder_PermitInvalidTargetPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() with invalid target should panic")
		}
	}()
	NewBuilder().Configure(StateNotSent).Permit(TriggerApprove, State("BOGUS"))
}

func newReviewBuilder() StateMachineBuilder {
	b := NewBuilder()
	b.Configure(StateNotSent).
		Permit(TriggerReceive, StateReceived).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected)
	b.Configure(StateReceived).
		Permit(TriggerStartReview, StateInReview).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected)
	b.Configure(StateInReview).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected)
	return b
}

func TestStateMachine_Fire(t *testing.T) {
	ctx := context.Background()
	m := newReviewBuilder().Build(StateNotSent)

	for _, trigger := range []Trigger{TriggerReceive, TriggerStartReview, TriggerApprove} {
		if err := m.Fire(ctx, trigger); err != nil {
			t.Fatalf("Fire(%s) error = %v", trigger, err)
		}
	}
	if m.State() != StateApproved {
		t.Errorf("State() = %v, want %v", m.State(), StateApproved)
	}

	err := m.Fire(ctx, TriggerReject)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() from terminal state error = %v, want ErrInvalidTransition", err)
	}
	if m.State() != StateApproved {
		t.Errorf("failed Fire() changed state to %v", m.State())
	}
}

func TestStateMachine_GuardedTransition(t *testing.T) {
	ctx := context.Background()
	allowed := false

	b := NewBuilder()
	b.Configure(StateTaskOpen).PermitIf(TriggerConfirm, StateTaskSent, func(context.Context) bool {
		return allowed
	})
	m := b.Build(StateTaskOpen)

	if err := m.Fire(ctx, TriggerConfirm); !errors.Is(err, ErrGuardFailed) {
		t.Fatalf("Fire() error = %v, want ErrGuardFailed", err)
	}
	if m.State() != StateTaskOpen {
		t.Errorf("State() = %v after failed guard, want %v", m.State(), StateTaskOpen)
	}

	allowed = true
	if err := m.Fire(ctx, TriggerConfirm); err != nil {
		t.Fatalf("Fire() error = %v", err)
	}
	if m.State() != StateTaskSent {
		t.Errorf("State() = %v, want %v", m.State(), StateTaskSent)
	}
}

func TestStateMachine_GuardFallsThroughToNextTransition(t *testing.T) {
	b := NewBuilder()
	b.Configure(StateReceived).
		PermitIf(TriggerStartReview, StateApproved, func(context.Context) bool { return false }).
		Permit(TriggerStartReview, StateInReview)

	m := b.Build(StateReceived)
	if err := m.Fire(context.Background(), TriggerStartReview); err != nil {
		t.Fatalf("Fire() error = %v", err)
	}
	if m.State() != StateInReview {
		t.Errorf("State() = %v, want %v", m.State(), StateInReview)
	}
}

func TestStateMachine_CanFireAndPermittedTriggers(t *testing.T) {
	m := newReviewBuilder().Build(StateReceived)

	if !m.CanFire(TriggerApprove) {
		t.Error("CanFire(APPROVE) = false, want true")
	}
	if m.CanFire(TriggerReceive) {
		t.Error("CanFire(RECEIVE) = true, want false")
	}

	got := m.PermittedTriggers()
	want := []Trigger{TriggerApprove, TriggerReject, TriggerStartReview}
	if len(got) != len(want) {
		t.Fatalf("PermittedTriggers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PermittedTriggers()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBuilder_MachinesAreIndependent(t *testing.T) {
	b := newReviewBuilder()
	m1 := b.Build(StateNotSent)
	m2 := b.Build(StateNotSent)

	if err := m1.Fire(context.Background(), TriggerApprove); err != nil {
		t.Fatalf("Fire() error = %v", err)
	}
	if m2.State() != StateNotSent {
		t.Errorf("second machine state = %v, want %v", m2.State(), StateNotSent)
	}

	// configuration added after Build is not visible to existing machines
	b.Configure(StateApproved).Permit(TriggerReject, StateRejected)
	if m1.CanFire(TriggerReject) {
		t.Error("machine observed configuration added after Build")
	}
}
