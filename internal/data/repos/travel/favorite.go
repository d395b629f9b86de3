package travel

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/pkg/pagination"
)

type FavoriteRepo interface {
	Create(dbc dbctx.Context, rows []*types.Favorite) ([]*types.Favorite, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Favorite, error)
	ExistsByUserItem(dbc dbctx.Context, userID uuid.UUID, itemType types.ItemType, itemID string) (bool, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, itemType *types.ItemType, p pagination.Params) ([]*types.Favorite, int64, error)
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type favoriteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) FavoriteRepo {
	return &favoriteRepo{db: db, log: baseLog.With("repo", "FavoriteRepo")}
}

func (r *favoriteRepo) Create(dbc dbctx.Context, rows []*types.Favorite) ([]*types.Favorite, error) {
	if len(rows) == 0 {
		return []*types.Favorite{}, nil
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

func (r *favoriteRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Favorite, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Favorite
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

func (r *favoriteRepo) ExistsByUserItem(dbc dbctx.Context, userID uuid.UUID, itemType types.ItemType, itemID string) (bool, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var count int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Favorite{}).
		Where("user_id = ? AND item_type = ? AND item_id = ?", userID, itemType, itemID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *favoriteRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, itemType *types.ItemType, p pagination.Params) ([]*types.Favorite, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).
		Model(&types.Favorite{}).
		Where("user_id = ?", userID)
	if itemType != nil {
		q = q.Where("item_type = ?", *itemType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []*types.Favorite
	if err := q.
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *favoriteRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Favorite{})
	return res.RowsAffected, res.Error
}
