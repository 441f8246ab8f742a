package service

import (
	"context"
	"fmt"

	"github.com/garyjia/closing-dashboard/internal/application/dispatcher"
	"github.com/garyjia/closing-dashboard/internal/application/operation"
	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/domain/assistant"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
	"github.com/garyjia/closing-dashboard/internal/domain/event"
	"github.com/garyjia/closing-dashboard/pkg/utils"
)

// maxQuestionLength bounds chat input
const maxQuestionLength = 1000

// ChatReply is the assistant's answer to one message
type ChatReply struct {
	Context  assistant.Context  `json:"context"`
	Question string             `json:"question"`
	Matched  bool               `json:"matched"`
	Answer   assistant.Envelope `json:"answer"`
}

// ChatService answers questions from the prepared Q&A banks
type ChatService interface {
	// Ask submits the message; the reply arrives when the operation resolves
	Ask(ctx context.Context, chatCtx assistant.Context, sessionID, message string) (operation.Operation, error)
	AskSync(ctx context.Context, chatCtx assistant.Context, message string) (*ChatReply, error)
	Suggestions(chatCtx assistant.Context) ([]string, error)
	Operation(ctx context.Context, id string) (operation.Operation, error)
}

type chatServiceImpl struct {
	banks      map[assistant.Context]*assistant.Bank
	ops        Operations
	delay      Delays
	clock      port.Clock
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	banks map[assistant.Context]*assistant.Bank,
	ops Operations,
	delay Delays,
	clock port.Clock,
	d dispatcher.Dispatcher,
	logger Logger,
) ChatService {
	return &chatServiceImpl{
		banks:      banks,
		ops:        ops,
		delay:      delay,
		clock:      clock,
		dispatcher: d,
		logger:     logger,
	}
}

// bank resolves the bank of chatCtx; an empty context means the
// consolidation FAQ
func (s *chatServiceImpl) bank(chatCtx assistant.Context) (assistant.Context, *assistant.Bank, error) {
	if chatCtx == "" {
		chatCtx = assistant.ContextConsolidated
	}
	if !chatCtx.IsValid() {
		return "", nil, entity.ValidationError{Field: "context", Message: fmt.Sprintf("unknown chat context %q", chatCtx)}
	}
	b, ok := s.banks[chatCtx]
	if !ok {
		return "", nil, entity.NotFoundError{Kind: "chat bank", ID: string(chatCtx)}
	}
	return chatCtx, b, nil
}

// validateMessage rejects blank input. The message itself is matched as typed:
// surrounding spaces take part in the substring match.
func validateMessage(message string) (string, error) {
	if utils.SanitizeString(message) == "" {
		return "", entity.ValidationError{Field: "message", Message: "message must not be empty"}
	}
	if len(message) > maxQuestionLength {
		return "", entity.ValidationError{Field: "message", Message: fmt.Sprintf("message must be at most %d characters", maxQuestionLength)}
	}
	return message, nil
}

// Ask answers after the chat delay. One reply per session is in flight at a
// time; sessionID may be empty, in which case the context is the target.
func (s *chatServiceImpl) Ask(ctx context.Context, chatCtx assistant.Context, sessionID, message string) (operation.Operation, error) {
	message, err := validateMessage(message)
	if err != nil {
		return operation.Operation{}, err
	}
	chatCtx, b, err := s.bank(chatCtx)
	if err != nil {
		return operation.Operation{}, err
	}

	target := "chat:" + string(chatCtx)
	if sessionID != "" {
		target += ":" + sessionID
	}

	return s.ops.Submit(operation.KindChatReply, target, s.delay.Chat, func(ctx context.Context) (operation.Outcome, error) {
		reply := s.answer(ctx, b, chatCtx, message)
		return operation.Outcome{Result: reply}, nil
	})
}

// AskSync answers immediately
func (s *chatServiceImpl) AskSync(ctx context.Context, chatCtx assistant.Context, message string) (*ChatReply, error) {
	message, err := validateMessage(message)
	if err != nil {
		return nil, err
	}
	chatCtx, b, err := s.bank(chatCtx)
	if err != nil {
		return nil, err
	}
	reply := s.answer(ctx, b, chatCtx, message)
	return &reply, nil
}

func (s *chatServiceImpl) answer(ctx context.Context, b *assistant.Bank, chatCtx assistant.Context, message string) ChatReply {
	answer, matched := b.Reply(message)

	s.logger.Info("Chat answered", "context", chatCtx, "matched", matched, "kind", answer.Kind())
	publishEvent(ctx, s.dispatcher, s.logger, event.NewEvent(event.TypeChatAnswered, string(chatCtx), s.clock.Now(), map[string]interface{}{
		event.KeyMessage: message,
		event.KeyMatched: matched,
	}))

	return ChatReply{
		Context:  chatCtx,
		Question: message,
		Matched:  matched,
		Answer:   assistant.Wrap(answer),
	}
}

// Suggestions returns the suggested questions of a context
func (s *chatServiceImpl) Suggestions(chatCtx assistant.Context) ([]string, error) {
	_, b, err := s.bank(chatCtx)
	if err != nil {
		return nil, err
	}
	return b.Suggestions(), nil
}

// Operation returns the state of a submitted question
func (s *chatServiceImpl) Operation(ctx context.Context, id string) (operation.Operation, error) {
	return s.ops.Get(id)
}
