package travel

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/pkg/pagination"
)

type ItineraryRepo interface {
	Create(dbc dbctx.Context, rows []*types.Itinerary) ([]*types.Itinerary, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Itinerary, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, p pagination.Params) ([]*types.Itinerary, int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	SoftDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type itineraryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItineraryRepo(db *gorm.DB, baseLog *logger.Logger) ItineraryRepo {
	return &itineraryRepo{db: db, log: baseLog.With("repo", "ItineraryRepo")}
}

func (r *itineraryRepo) Create(dbc dbctx.Context, rows []*types.Itinerary) ([]*types.Itinerary, error) {
	if len(rows) == 0 {
		return []*types.Itinerary{}, nil
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

func (r *itineraryRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Itinerary, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Itinerary
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

func (r *itineraryRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, p pagination.Params) ([]*types.Itinerary, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).
		Model(&types.Itinerary{}).
		Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []*types.Itinerary
	if err := q.
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *itineraryRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
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
		Model(&types.Itinerary{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *itineraryRepo) SoftDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Itinerary{})
	return res.RowsAffected, res.Error
}
