package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/ctxutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/pkg/pagination"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/platform/openai"
)

const (
	chatHistoryWindow = 12
	chatMaxContentLen = 4000
	chatDefaultTitle  = "New Conversation"
	chatTitleMaxLen   = 60

	chatFallbackReply = "Sorry, I could not come up with a recommendation just now. Please try again."

	chatSystemPrompt = `You are a travel assistant for the Wanderly platform. Recommend flights,
hotels, activities and destinations based on the conversation. Keep answers
short and concrete. Accumulated trip constraints so far: %s`
)

var chatTurnSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"reply": map[string]any{"type": "string"},
		"context": map[string]any{
			"type":                 "object",
			"additionalProperties": true,
		},
	},
	"required":             []string{"reply", "context"},
	"additionalProperties": false,
}

type ChatSend struct {
	SessionID *uuid.UUID `json:"session_id"`
	Content   string     `json:"content"`
}

// ChatTurn is the outcome of one exchange: the stored user message and
// the assistant's answer.
type ChatTurn struct {
	Session   *types.ChatSession `json:"session"`
	UserMsg   *types.ChatMessage `json:"user_message"`
	Assistant *types.ChatMessage `json:"assistant_message"`
}

type ChatService interface {
	// SendMessage appends a user turn, asks the model for an answer and
	// appends it. With no session id it reuses the caller's active
	// session, creating one on the first message.
	SendMessage(ctx context.Context, in ChatSend) (*ChatTurn, error)
	ListSessions(ctx context.Context, p pagination.Params) ([]*types.ChatSession, int64, error)
	ListMessages(ctx context.Context, sessionID uuid.UUID, p pagination.Params) ([]*types.ChatMessage, int64, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
}

type chatService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.ChatSessionRepo
	messageRepo repos.ChatMessageRepo
	llm         openai.Client
}

func NewChatService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.ChatSessionRepo,
	messageRepo repos.ChatMessageRepo,
	llm openai.Client,
) ChatService {
	return &chatService{
		db:          db,
		log:         log.With("service", "ChatService"),
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		llm:         llm,
	}
}

func chatTitleFrom(content string) string {
	title := strings.TrimSpace(content)
	if title == "" {
		return chatDefaultTitle
	}
	runes := []rune(title)
	if len(runes) > chatTitleMaxLen {
		title = string(runes[:chatTitleMaxLen])
	}
	return title
}

func (cs *chatService) SendMessage(ctx context.Context, in ChatSend) (*ChatTurn, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apierr.Validation("content required")
	}
	if len(content) > chatMaxContentLen {
		return nil, apierr.Validation("content exceeds %d characters", chatMaxContentLen)
	}

	var (
		out          *ChatTurn
		turnLimitErr error
	)
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		session, err := cs.resolveSession(dbc, rd.UserID, in.SessionID, content)
		if err != nil {
			return err
		}
		if session.Status != types.ChatStatusActive {
			return apierr.Conflict("conversation is completed")
		}
		if session.TurnCount >= session.MaxTurns {
			// Rows written before completion stamping close out here, so
			// the next message starts a fresh session. The rejection must
			// not roll this back.
			if err := cs.sessionRepo.UpdateFields(dbc, session.ID, map[string]any{
				"status": types.ChatStatusCompleted,
			}); err != nil {
				return fmt.Errorf("complete session: %w", err)
			}
			turnLimitErr = apierr.Conflict("conversation reached its turn limit of %d", session.MaxTurns)
			return nil
		}

		userSeq := session.NextSeq
		userMsg := &types.ChatMessage{
			SessionID: session.ID,
			UserID:    rd.UserID,
			Seq:       userSeq,
			Role:      types.ChatRoleUser,
			Content:   content,
		}
		if _, err := cs.messageRepo.Create(dbc, []*types.ChatMessage{userMsg}); err != nil {
			return fmt.Errorf("store user message: %w", err)
		}

		window, err := cs.messageRepo.ListRecentBySession(dbc, session.ID, chatHistoryWindow)
		if err != nil {
			return fmt.Errorf("load conversation window: %w", err)
		}

		reply, newContext, llmErr := cs.generateReply(ctx, session, window)
		if llmErr != nil {
			// The fallback turn is persisted so the exchange stays
			// visible, but the accumulated constraints do not move.
			cs.log.Warn("chat completion failed", "session_id", session.ID, "error", llmErr)
			reply, newContext = chatFallbackReply, nil
		}

		assistant := &types.ChatMessage{
			SessionID: session.ID,
			UserID:    rd.UserID,
			Seq:       userSeq + 1,
			Role:      types.ChatRoleAssistant,
			Content:   reply,
		}
		if _, err := cs.messageRepo.Create(dbc, []*types.ChatMessage{assistant}); err != nil {
			return fmt.Errorf("store assistant message: %w", err)
		}

		if err := cs.sessionRepo.UpdateFields(dbc, session.ID,
			chatTurnUpdates(session, userSeq, time.Now().UTC(), newContext)); err != nil {
			return fmt.Errorf("advance session: %w", err)
		}

		fresh, err := cs.sessionRepo.GetByID(dbc, session.ID)
		if err != nil {
			return fmt.Errorf("reload session: %w", err)
		}
		out = &ChatTurn{Session: fresh, UserMsg: userMsg, Assistant: assistant}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if turnLimitErr != nil {
		return nil, turnLimitErr
	}
	return out, nil
}

// chatTurnUpdates builds the session bookkeeping for one committed
// exchange. The turn that reaches the limit completes the conversation;
// a degraded turn (nil newContext) leaves the accumulated constraints
// untouched.
func chatTurnUpdates(session *types.ChatSession, userSeq int64, now time.Time, newContext datatypes.JSON) map[string]any {
	updates := map[string]any{
		"next_seq":        userSeq + 2,
		"turn_count":      session.TurnCount + 1,
		"last_message_at": now,
	}
	if session.TurnCount+1 >= session.MaxTurns {
		updates["status"] = types.ChatStatusCompleted
	}
	if newContext != nil {
		updates["context"] = newContext
	}
	return updates
}

// resolveSession locks the addressed session or, with no id, the user's
// active one. The first message of a user creates the session.
func (cs *chatService) resolveSession(dbc dbctx.Context, userID uuid.UUID, sessionID *uuid.UUID, firstContent string) (*types.ChatSession, error) {
	if sessionID != nil {
		session, err := cs.sessionRepo.LockByID(dbc, *sessionID)
		if err != nil {
			return nil, fmt.Errorf("lock session: %w", err)
		}
		if session == nil || session.UserID != userID {
			return nil, apierr.NotFound("conversation not found")
		}
		return session, nil
	}

	active, err := cs.sessionRepo.GetActiveByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("find active session: %w", err)
	}
	if active != nil {
		session, err := cs.sessionRepo.LockByID(dbc, active.ID)
		if err != nil {
			return nil, fmt.Errorf("lock session: %w", err)
		}
		if session != nil {
			return session, nil
		}
	}

	session := &types.ChatSession{
		UserID:        userID,
		Title:         chatTitleFrom(firstContent),
		Status:        types.ChatStatusActive,
		Context:       datatypes.JSON([]byte(`{}`)),
		MaxTurns:      50,
		LastMessageAt: time.Now().UTC(),
	}
	if _, err := cs.sessionRepo.Create(dbc, []*types.ChatSession{session}); err != nil {
		// The partial unique index arbitrates concurrent first messages.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflict("a conversation was just started, retry")
		}
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (cs *chatService) generateReply(ctx context.Context, session *types.ChatSession, window []*types.ChatMessage) (string, datatypes.JSON, error) {
	system := fmt.Sprintf(chatSystemPrompt, string(session.Context))

	var b strings.Builder
	b.WriteString("Conversation so far, oldest first. Answer the last user message and return the updated trip constraints.\n\n")
	for _, msg := range window {
		b.WriteString(msg.Role)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}

	result, err := cs.llm.GenerateJSON(ctx, system, b.String(), "travel_chat_turn", chatTurnSchema)
	if err != nil {
		return "", nil, err
	}
	reply, _ := result["reply"].(string)
	if strings.TrimSpace(reply) == "" {
		return "", nil, fmt.Errorf("model returned empty reply")
	}
	var newContext datatypes.JSON
	if ctxObj, ok := result["context"].(map[string]any); ok {
		if raw, err := json.Marshal(ctxObj); err == nil {
			newContext = datatypes.JSON(raw)
		}
	}
	return reply, newContext, nil
}

func (cs *chatService) ListSessions(ctx context.Context, p pagination.Params) ([]*types.ChatSession, int64, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, 0, apierr.Unauthorized("no principal in context")
	}
	return cs.sessionRepo.ListByUser(dbctx.Context{Ctx: ctx}, rd.UserID, p)
}

func (cs *chatService) ListMessages(ctx context.Context, sessionID uuid.UUID, p pagination.Params) ([]*types.ChatMessage, int64, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, 0, apierr.Unauthorized("no principal in context")
	}
	dbc := dbctx.Context{Ctx: ctx}
	session, err := cs.sessionRepo.GetByID(dbc, sessionID)
	if err != nil {
		return nil, 0, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.UserID != rd.UserID {
		return nil, 0, apierr.NotFound("conversation not found")
	}
	return cs.messageRepo.ListBySession(dbc, sessionID, p)
}

func (cs *chatService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("no principal in context")
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		session, err := cs.sessionRepo.LockByID(dbc, sessionID)
		if err != nil {
			return fmt.Errorf("lock session: %w", err)
		}
		if session == nil || session.UserID != rd.UserID {
			return apierr.NotFound("conversation not found")
		}
		if _, err := cs.messageRepo.DeleteBySessionID(dbc, sessionID); err != nil {
			return fmt.Errorf("clear messages: %w", err)
		}
		if _, err := cs.sessionRepo.SoftDeleteByID(dbc, sessionID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}
