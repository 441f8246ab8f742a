package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/closing-dashboard/internal/application/operation"
	"github.com/garyjia/closing-dashboard/internal/domain/assistant"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

func testBanks(t *testing.T) map[assistant.Context]*assistant.Bank {
	t.Helper()
	faq, err := assistant.NewBank([]assistant.Entry{
		{ID: "q1", Question: "What does 'In Progress (on EPM)' mean?",
			Answer: assistant.TextAnswer{Text: "The consolidation is still running in EPM."}},
		{ID: "q2", Question: "When can I download reports?",
			Answer: assistant.TextAnswer{Text: "When the status is Completed or Closed."}},
	})
	require.NoError(t, err)

	mgmt, err := assistant.NewBank([]assistant.Entry{
		{ID: "m1", Question: "Net Sales by company",
			Answer: assistant.TableAnswer{Table: assistant.Table{Columns: []string{"Company", "Net Sales"}}}},
	})
	require.NoError(t, err)

	return map[assistant.Context]*assistant.Bank{
		assistant.ContextConsolidated: faq,
		assistant.ContextManagement:   mgmt,
	}
}

func newTestChatService(t *testing.T, delay time.Duration) (ChatService, *operation.Tracker) {
	t.Helper()
	clock := fixedClock{at: testNow}
	tracker := operation.NewTracker(clock, zap.NewNop())
	t.Cleanup(func() { _ = tracker.Drain(context.Background()) })
	return NewChatService(testBanks(t), tracker, Delays{Chat: delay}, clock, nil, &mockLogger{}), tracker
}

func TestChatService_AskSync(t *testing.T) {
	svc, _ := newTestChatService(t, 0)
	ctx := context.Background()

	reply, err := svc.AskSync(ctx, "", "EPM")
	require.NoError(t, err)
	assert.True(t, reply.Matched)
	assert.Equal(t, assistant.ContextConsolidated, reply.Context)
	assert.Equal(t, "EPM", reply.Question)
	assert.Equal(t, assistant.KindText, reply.Answer.Kind)

	// padding is part of the question, and "  epm " is not a substring of any entry
	reply, err = svc.AskSync(ctx, "", "  EPM ")
	require.NoError(t, err)
	assert.False(t, reply.Matched)
	assert.Equal(t, "  EPM ", reply.Question)
	assert.Equal(t, assistant.FallbackText, reply.Answer.Answer.Headline())

	reply, err = svc.AskSync(ctx, assistant.ContextConsolidated, "what is the weather")
	require.NoError(t, err)
	assert.False(t, reply.Matched)
	assert.Equal(t, assistant.FallbackText, reply.Answer.Answer.Headline())

	reply, err = svc.AskSync(ctx, assistant.ContextManagement, "show me net sales by company please")
	require.NoError(t, err)
	assert.True(t, reply.Matched)
	assert.Equal(t, assistant.KindTable, reply.Answer.Kind)
}

func TestChatService_InvalidInput(t *testing.T) {
	svc, _ := newTestChatService(t, 0)
	ctx := context.Background()

	_, err := svc.AskSync(ctx, "", "   ")
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = svc.AskSync(ctx, "sales", "EPM")
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = svc.Ask(ctx, "", "", "")
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = svc.Suggestions("nope")
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestChatService_AskResolvesAfterDelay(t *testing.T) {
	svc, tracker := newTestChatService(t, 20*time.Millisecond)
	ctx := context.Background()

	op, err := svc.Ask(ctx, assistant.ContextConsolidated, "session-1", "download")
	require.NoError(t, err)
	assert.Equal(t, operation.StatusPending, op.Status)
	assert.Equal(t, "chat:consolidated:session-1", op.Target)

	_, err = svc.Ask(ctx, assistant.ContextConsolidated, "session-1", "EPM")
	assert.ErrorIs(t, err, operation.ErrOperationPending)

	done, err := tracker.Wait(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, operation.StatusResolved, done.Status)

	reply, ok := done.Result.(ChatReply)
	require.True(t, ok)
	assert.True(t, reply.Matched)
	assert.Equal(t, "When the status is Completed or Closed.", reply.Answer.Answer.Headline())
}

func TestChatService_Suggestions(t *testing.T) {
	svc, _ := newTestChatService(t, 0)

	faq, err := svc.Suggestions("")
	require.NoError(t, err)
	assert.Equal(t, []string{"What does 'In Progress (on EPM)' mean?", "When can I download reports?"}, faq)

	mgmt, err := svc.Suggestions(assistant.ContextManagement)
	require.NoError(t, err)
	assert.Len(t, mgmt, 1)
}
