package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

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
)

type FavoriteCreate struct {
	ItemType string          `json:"item_type"`
	ItemID   string          `json:"item_id"`
	Payload  json.RawMessage `json:"payload"`
}

type FavoriteService interface {
	Add(ctx context.Context, in FavoriteCreate) (*types.Favorite, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Favorite, error)
	List(ctx context.Context, itemType string, p pagination.Params) ([]*types.Favorite, int64, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type favoriteService struct {
	db           *gorm.DB
	log          *logger.Logger
	favoriteRepo repos.FavoriteRepo
}

func NewFavoriteService(db *gorm.DB, log *logger.Logger, favoriteRepo repos.FavoriteRepo) FavoriteService {
	return &favoriteService{
		db:           db,
		log:          log.With("service", "FavoriteService"),
		favoriteRepo: favoriteRepo,
	}
}

func (fs *favoriteService) Add(ctx context.Context, in FavoriteCreate) (*types.Favorite, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	itemType, err := types.ParseItemType(in.ItemType)
	if err != nil {
		return nil, apierr.Validation("item_type: %v", err)
	}
	if in.ItemID == "" {
		return nil, apierr.Validation("item_id required")
	}

	payload := datatypes.JSON([]byte(`{}`))
	if len(in.Payload) > 0 {
		payload = datatypes.JSON(in.Payload)
	}

	row := &types.Favorite{
		UserID:   rd.UserID,
		ItemType: itemType,
		ItemID:   in.ItemID,
		Payload:  payload,
	}
	err = fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := fs.favoriteRepo.Create(dbc, []*types.Favorite{row}); err != nil {
			// Composite unique index arbitrates concurrent saves of the
			// same item.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Conflict("item already in favorites")
			}
			return fmt.Errorf("create favorite: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (fs *favoriteService) Get(ctx context.Context, id uuid.UUID) (*types.Favorite, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	row, err := fs.favoriteRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load favorite: %w", err)
	}
	// Another user's record is indistinguishable from a missing one.
	if row == nil || row.UserID != rd.UserID {
		return nil, apierr.NotFound("favorite not found")
	}
	return row, nil
}

func (fs *favoriteService) List(ctx context.Context, itemType string, p pagination.Params) ([]*types.Favorite, int64, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, 0, apierr.Unauthorized("no principal in context")
	}
	var filter *types.ItemType
	if itemType != "" {
		parsed, err := types.ParseItemType(itemType)
		if err != nil {
			return nil, 0, apierr.Validation("item_type: %v", err)
		}
		filter = &parsed
	}
	return fs.favoriteRepo.ListByUser(dbctx.Context{Ctx: ctx}, rd.UserID, filter, p)
}

func (fs *favoriteService) Remove(ctx context.Context, id uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("no principal in context")
	}
	return fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := fs.favoriteRepo.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("load favorite: %w", err)
		}
		// Another user's record is indistinguishable from a missing one.
		if row == nil || row.UserID != rd.UserID {
			return apierr.NotFound("favorite not found")
		}
		if _, err := fs.favoriteRepo.DeleteByID(dbc, id); err != nil {
			return fmt.Errorf("delete favorite: %w", err)
		}
		return nil
	})
}
