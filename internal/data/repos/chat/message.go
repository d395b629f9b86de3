package chat

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/pkg/pagination"
)

type MessageRepo interface {
	Create(dbc dbctx.Context, rows []*types.ChatMessage) ([]*types.ChatMessage, error)
	ListBySession(dbc dbctx.Context, sessionID uuid.UUID, p pagination.Params) ([]*types.ChatMessage, int64, error)
	// ListRecentBySession returns the newest n messages in ascending
	// seq order, used to build the provider prompt window.
	ListRecentBySession(dbc dbctx.Context, sessionID uuid.UUID, n int) ([]*types.ChatMessage, error)
	DeleteBySessionID(dbc dbctx.Context, sessionID uuid.UUID) (int64, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, rows []*types.ChatMessage) ([]*types.ChatMessage, error) {
	if len(rows) == 0 {
		return []*types.ChatMessage{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *messageRepo) ListBySession(dbc dbctx.Context, sessionID uuid.UUID, p pagination.Params) ([]*types.ChatMessage, int64, error) {
	if sessionID == uuid.Nil {
		return nil, 0, fmt.Errorf("missing session_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).
		Model(&types.ChatMessage{}).
		Where("session_id = ?", sessionID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []*types.ChatMessage
	if err := q.
		Order("seq ASC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *messageRepo) ListRecentBySession(dbc dbctx.Context, sessionID uuid.UUID, n int) ([]*types.ChatMessage, error) {
	if sessionID == uuid.Nil {
		return nil, fmt.Errorf("missing session_id")
	}
	if n <= 0 {
		return []*types.ChatMessage{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var newest []*types.ChatMessage
	if err := txx.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Order("seq DESC").
		Limit(n).
		Find(&newest).Error; err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	out := make([]*types.ChatMessage, len(newest))
	for i, m := range newest {
		out[len(newest)-1-i] = m
	}
	return out, nil
}

func (r *messageRepo) DeleteBySessionID(dbc dbctx.Context, sessionID uuid.UUID) (int64, error) {
	if sessionID == uuid.Nil {
		return 0, fmt.Errorf("missing session_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Delete(&types.ChatMessage{})
	return res.RowsAffected, res.Error
}
