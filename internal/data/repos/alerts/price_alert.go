package alerts

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

type PriceAlertFilter struct {
	Active    *bool
	Triggered *bool
}

type PriceAlertRepo interface {
	Create(dbc dbctx.Context, rows []*types.PriceAlert) ([]*types.PriceAlert, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PriceAlert, error)
	// LockByID takes a row lock; requires dbc.Tx.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.PriceAlert, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, filter PriceAlertFilter, p pagination.Params) ([]*types.PriceAlert, int64, error)
	// ListActive returns every alert the sweeper should evaluate:
	// active, not expired at the given instant.
	ListActive(dbc dbctx.Context, now time.Time) ([]*types.PriceAlert, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type priceAlertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPriceAlertRepo(db *gorm.DB, baseLog *logger.Logger) PriceAlertRepo {
	return &priceAlertRepo{db: db, log: baseLog.With("repo", "PriceAlertRepo")}
}

func (r *priceAlertRepo) Create(dbc dbctx.Context, rows []*types.PriceAlert) ([]*types.PriceAlert, error) {
	if len(rows) == 0 {
		return []*types.PriceAlert{}, nil
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

func (r *priceAlertRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PriceAlert, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.PriceAlert
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

func (r *priceAlertRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.PriceAlert, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires a transaction")
	}
	var out types.PriceAlert
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Raw(`SELECT * FROM "price_alert" WHERE id = ? FOR UPDATE`, id).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *priceAlertRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, filter PriceAlertFilter, p pagination.Params) ([]*types.PriceAlert, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).
		Model(&types.PriceAlert{}).
		Where("user_id = ?", userID)
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}
	if filter.Triggered != nil {
		q = q.Where("triggered = ?", *filter.Triggered)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []*types.PriceAlert
	if err := q.
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *priceAlertRepo) ListActive(dbc dbctx.Context, now time.Time) ([]*types.PriceAlert, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.PriceAlert
	if err := txx.WithContext(dbc.Ctx).
		Where("active = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *priceAlertRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
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
		Model(&types.PriceAlert{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *priceAlertRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.PriceAlert{})
	return res.RowsAffected, res.Error
}
