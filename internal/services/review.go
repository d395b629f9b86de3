package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/ctxutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/pkg/pagination"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
)

type ReviewCreate struct {
	ItemType string `json:"item_type"`
	ItemID   string `json:"item_id"`
	Rating   int    `json:"rating"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

type ReviewUpdate struct {
	Rating OptionalInt    `json:"rating"`
	Title  OptionalString `json:"title"`
	Body   OptionalString `json:"body"`
}

type ReviewService interface {
	Create(ctx context.Context, in ReviewCreate) (*types.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Review, error)
	List(ctx context.Context, itemType, itemID string, p pagination.Params) ([]*types.Review, int64, error)
	Update(ctx context.Context, id uuid.UUID, patch ReviewUpdate) (*types.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewService struct {
	db         *gorm.DB
	log        *logger.Logger
	reviewRepo repos.ReviewRepo
}

func NewReviewService(db *gorm.DB, log *logger.Logger, reviewRepo repos.ReviewRepo) ReviewService {
	return &reviewService{
		db:         db,
		log:        log.With("service", "ReviewService"),
		reviewRepo: reviewRepo,
	}
}

func validRating(r int) bool { return r >= 1 && r <= 5 }

func (rs *reviewService) Create(ctx context.Context, in ReviewCreate) (*types.Review, error) {
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
	if !validRating(in.Rating) {
		return nil, apierr.Validation("rating must be between 1 and 5")
	}

	row := &types.Review{
		UserID:   rd.UserID,
		ItemType: itemType,
		ItemID:   in.ItemID,
		Rating:   in.Rating,
		Title:    in.Title,
		Body:     in.Body,
	}
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := rs.reviewRepo.Create(dbc, []*types.Review{row}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Conflict("item already reviewed")
			}
			return fmt.Errorf("create review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (rs *reviewService) Get(ctx context.Context, id uuid.UUID) (*types.Review, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	row, err := rs.reviewRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load review: %w", err)
	}
	// Another user's record is indistinguishable from a missing one.
	if row == nil || row.UserID != rd.UserID {
		return nil, apierr.NotFound("review not found")
	}
	return row, nil
}

func (rs *reviewService) List(ctx context.Context, itemType, itemID string, p pagination.Params) ([]*types.Review, int64, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, 0, apierr.Unauthorized("no principal in context")
	}
	filter := repos.ReviewFilter{ItemID: itemID}
	if itemType != "" {
		parsed, err := types.ParseItemType(itemType)
		if err != nil {
			return nil, 0, apierr.Validation("item_type: %v", err)
		}
		filter.ItemType = &parsed
	}
	return rs.reviewRepo.ListByUser(dbctx.Context{Ctx: ctx}, rd.UserID, filter, p)
}

func (rs *reviewService) Update(ctx context.Context, id uuid.UUID, patch ReviewUpdate) (*types.Review, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}

	updates := map[string]any{}
	if patch.Rating.Set {
		if patch.Rating.Value == nil || !validRating(*patch.Rating.Value) {
			return nil, apierr.Validation("rating must be between 1 and 5")
		}
		updates["rating"] = *patch.Rating.Value
	}
	if patch.Title.Set {
		v := ""
		if patch.Title.Value != nil {
			v = *patch.Title.Value
		}
		updates["title"] = v
	}
	if patch.Body.Set {
		v := ""
		if patch.Body.Value != nil {
			v = *patch.Body.Value
		}
		updates["body"] = v
	}

	var out *types.Review
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := rs.reviewRepo.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("load review: %w", err)
		}
		if row == nil || row.UserID != rd.UserID {
			return apierr.NotFound("review not found")
		}
		if len(updates) > 0 {
			if err := rs.reviewRepo.UpdateFields(dbc, id, updates); err != nil {
				return fmt.Errorf("update review: %w", err)
			}
		}
		fresh, err := rs.reviewRepo.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("reload review: %w", err)
		}
		out = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (rs *reviewService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("no principal in context")
	}
	return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := rs.reviewRepo.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("load review: %w", err)
		}
		if row == nil || row.UserID != rd.UserID {
			return apierr.NotFound("review not found")
		}
		if _, err := rs.reviewRepo.SoftDeleteByID(dbc, id); err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		return nil
	})
}
