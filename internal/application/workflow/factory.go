package workflow

import (
	"context"

	domainwf "github.com/garyjia/closing-dashboard/internal/domain/workflow"
)

// BuildReportStateMachine creates a state machine for the head-office
// review of a BU report
func BuildReportStateMachine(initialState domainwf.State) domainwf.StateMachine {
	builder := domainwf.NewBuilder()

	// NOT_SENT: head office may decide before the BU file arrives
	builder.Configure(domainwf.StateNotSent).
		Permit(domainwf.TriggerReceive, domainwf.StateReceived).
		Permit(domainwf.TriggerApprove, domainwf.StateApproved).
		Permit(domainwf.TriggerReject, domainwf.StateRejected)

	builder.Configure(domainwf.StateReceived).
		Permit(domainwf.TriggerStartReview, domainwf.StateInReview).
		Permit(domainwf.TriggerApprove, domainwf.StateApproved).
		Permit(domainwf.TriggerReject, domainwf.StateRejected)

	builder.Configure(domainwf.StateInReview).
		Permit(domainwf.TriggerApprove, domainwf.StateApproved).
		Permit(domainwf.TriggerReject, domainwf.StateRejected)

	// APPROVED and REJECTED are terminal states - no outgoing transitions

	return builder.Build(initialState)
}

// BuildTaskStateMachine creates a state machine for a BU closing task
func BuildTaskStateMachine(initialState domainwf.State) domainwf.StateMachine {
	builder := domainwf.NewBuilder()

	builder.Configure(domainwf.StateTaskOpen).
		Permit(domainwf.TriggerConfirm, domainwf.StateTaskSent)

	// A rejected task is corrected and sent again
	builder.Configure(domainwf.StateTaskReject).
		Permit(domainwf.TriggerConfirm, domainwf.StateTaskSent)

	// SENT, APPROVE and IN_PROGRESS accept no user action

	return builder.Build(initialState)
}

// Next fires trigger on a fresh machine positioned at from and returns the
// resulting state. Unknown states fail with ErrInvalidState.
func Next(ctx context.Context, build func(domainwf.State) domainwf.StateMachine, from domainwf.State, trigger domainwf.Trigger) (domainwf.State, error) {
	if !from.IsValid() {
		return "", domainwf.ErrInvalidState
	}
	machine := build(from)
	if err := machine.Fire(ctx, trigger); err != nil {
		return from, err
	}
	return machine.State(), nil
}
