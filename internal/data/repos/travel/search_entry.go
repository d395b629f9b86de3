package travel

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/pkg/pagination"
)

type SearchEntryRepo interface {
	// Upsert inserts the entry or, when (user_id, search_type, params_hash)
	// already exists, increments count and bumps last_searched_at.
	Upsert(dbc dbctx.Context, row *types.SearchEntry) (*types.SearchEntry, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.SearchEntry, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, searchType *types.SearchType, p pagination.Params) ([]*types.SearchEntry, int64, error)
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
	DeleteAllByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type searchEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSearchEntryRepo(db *gorm.DB, baseLog *logger.Logger) SearchEntryRepo {
	return &searchEntryRepo{db: db, log: baseLog.With("repo", "SearchEntryRepo")}
}

func (r *searchEntryRepo) Upsert(dbc dbctx.Context, row *types.SearchEntry) (*types.SearchEntry, error) {
	if row == nil {
		return nil, fmt.Errorf("missing row")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	now := time.Now().UTC()
	if err := txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "search_type"},
				{Name: "params_hash"},
			},
			DoUpdates: clause.Assignments(map[string]any{
				"count":            gorm.Expr("search_entry.count + 1"),
				"params":           row.Params,
				"last_searched_at": now,
				"updated_at":       now,
			}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}

	// Re-read so the caller sees the merged count on the conflict path.
	var out types.SearchEntry
	if err := txx.WithContext(dbc.Ctx).
		Where("user_id = ? AND search_type = ? AND params_hash = ?", row.UserID, row.SearchType, row.ParamsHash).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *searchEntryRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.SearchEntry, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.SearchEntry
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

func (r *searchEntryRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, searchType *types.SearchType, p pagination.Params) ([]*types.SearchEntry, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).
		Model(&types.SearchEntry{}).
		Where("user_id = ?", userID)
	if searchType != nil {
		q = q.Where("search_type = ?", *searchType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []*types.SearchEntry
	if err := q.
		Order("last_searched_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *searchEntryRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.SearchEntry{})
	return res.RowsAffected, res.Error
}

func (r *searchEntryRepo) DeleteAllByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Delete(&types.SearchEntry{})
	return res.RowsAffected, res.Error
}
