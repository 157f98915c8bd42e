package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
	"github.com/medhub/ambulatorio-api/internal/service/action"
	"github.com/medhub/ambulatorio-api/internal/service/event"
	"github.com/medhub/ambulatorio-api/pkg/llm"
	"github.com/medhub/ambulatorio-api/pkg/logger"
)

// historyTurns is how many stored messages are replayed into the prompt.
const historyTurns = 10

// Service is the conversational front of the clinic: it keeps per-session
// history, asks the language model for a reply, and executes any structured
// command the reply carries. The model never touches data; only the executor
// does.
type Service struct {
	llm      llm.Client
	chat     repository.ChatRepository
	executor *action.Executor
	events   *event.Recorder
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(llmClient llm.Client, chat repository.ChatRepository, executor *action.Executor, events *event.Recorder, logger *logger.Logger) *Service {
	return &Service{
		llm:      llmClient,
		chat:     chat,
		executor: executor,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleMessage runs one turn of the conversation.
func (s *Service) HandleMessage(ctx context.Context, userID string, req *model.ChatRequest) (*model.ChatResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	if err := s.saveMessage(ctx, sessionID, userID, req.Ambulatorio, model.ChatRoleUser, req.Message); err != nil {
		return nil, err
	}

	history, err := s.chat.ListBySession(ctx, sessionID, historyTurns)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	reply, err := s.llm.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt(s.now())},
		{Role: llm.RoleUser, Content: buildConversation(history, req.Message)},
	})
	if err != nil {
		return nil, fmt.Errorf("language model call failed: %w", err)
	}

	response := &model.ChatResponse{SessionID: sessionID, Response: reply}

	if act, ok := parseAction(reply); ok {
		result := s.executor.Execute(ctx, userID, req.Ambulatorio, act)
		response.ActionPerformed = result
		// The execution outcome is the displayed reply; any prose around the
		// command block is discarded.
		if result.Message != "" {
			response.Response = result.Message
		}

		if err := s.events.RecordAction(ctx, userID, req.Ambulatorio, result); err != nil {
			s.logger.Error(err, "failed to record action event", "action", string(result.ActionType))
		}
	}

	if err := s.saveMessage(ctx, sessionID, userID, req.Ambulatorio, model.ChatRoleAssistant, response.Response); err != nil {
		return nil, err
	}
	return response, nil
}

func (s *Service) saveMessage(ctx context.Context, sessionID, userID string, site model.Ambulatorio, role model.ChatRole, content string) error {
	err := s.chat.Insert(ctx, &model.ChatMessage{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		UserID:      userID,
		Ambulatorio: site,
		Role:        role,
		Content:     content,
		Timestamp:   s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

// buildConversation flattens prior turns plus the new message into one block,
// newest last. The stored history already contains the new user message, so it
// is skipped when replaying.
func buildConversation(history []*model.ChatMessage, message string) string {
	var b strings.Builder
	for i, msg := range history {
		if i == len(history)-1 && msg.Role == model.ChatRoleUser && msg.Content == message {
			break
		}
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(msg.Role)), msg.Content)
	}
	fmt.Fprintf(&b, "\nUSER: %s", message)
	return b.String()
}

// History returns a session's messages in chronological order.
func (s *Service) History(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	return s.chat.ListBySession(ctx, sessionID, 0)
}

// Sessions lists the user's conversations for one site, most recent first.
func (s *Service) Sessions(ctx context.Context, userID string, site model.Ambulatorio) ([]*model.ChatSession, error) {
	return s.chat.ListSessions(ctx, userID, site)
}

func (s *Service) DeleteSession(ctx context.Context, sessionID, userID string) error {
	return s.chat.DeleteSession(ctx, sessionID, userID)
}

func (s *Service) ClearHistory(ctx context.Context, userID string, site model.Ambulatorio) error {
	return s.chat.DeleteAll(ctx, userID, site)
}
