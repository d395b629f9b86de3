package onboarding

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, rows []*types.OnboardingSession) ([]*types.OnboardingSession, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.OnboardingSession, error)
	// GetActiveByUser returns the user's in-progress session, nil when
	// none exists or the latest one is completed.
	GetActiveByUser(dbc dbctx.Context, userID uuid.UUID) (*types.OnboardingSession, error)
	// GetLatestByUser returns the user's most recent session regardless
	// of status, nil when the user never started one.
	GetLatestByUser(dbc dbctx.Context, userID uuid.UUID) (*types.OnboardingSession, error)
	// LockByID reads the session under FOR UPDATE so answer submission
	// serializes per session.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.OnboardingSession, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "OnboardingSessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, rows []*types.OnboardingSession) ([]*types.OnboardingSession, error) {
	if len(rows) == 0 {
		return []*types.OnboardingSession{}, nil
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

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.OnboardingSession, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.OnboardingSession
	err := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Take(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sessionRepo) GetActiveByUser(dbc dbctx.Context, userID uuid.UUID) (*types.OnboardingSession, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.OnboardingSession
	err := txx.WithContext(dbc.Ctx).
		Where("user_id = ? AND completed_at IS NULL", userID).
		Order("created_at DESC").
		Take(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sessionRepo) GetLatestByUser(dbc dbctx.Context, userID uuid.UUID) (*types.OnboardingSession, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.OnboardingSession
	err := txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Take(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sessionRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.OnboardingSession, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("row lock requires a transaction")
	}
	var out types.OnboardingSession
	err := dbc.Tx.WithContext(dbc.Ctx).
		Raw(`SELECT * FROM "onboarding_session" WHERE id = ? FOR UPDATE`, id).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *sessionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]any{}
	}
	updates["updated_at"] = time.Now().UTC()
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.OnboardingSession{}).
		Where("id = ?", id).
		Updates(updates).Error
}
