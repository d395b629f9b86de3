package services

import (
	"context"
	"encoding/json"
	"fmt"
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
)

const (
	ItineraryStatusDraft     = "draft"
	ItineraryStatusPlanned   = "planned"
	ItineraryStatusCompleted = "completed"
)

type ItineraryCreate struct {
	Title       string          `json:"title"`
	Destination string          `json:"destination"`
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	Items       json.RawMessage `json:"items"`
	Notes       string          `json:"notes"`
}

type ItineraryUpdate struct {
	Title       OptionalString `json:"title"`
	Destination OptionalString `json:"destination"`
	Status      OptionalString `json:"status"`
	StartDate   OptionalTime   `json:"start_date"`
	EndDate     OptionalTime   `json:"end_date"`
	Items       OptionalJSON   `json:"items"`
	Notes       OptionalString `json:"notes"`
}

type ItineraryService interface {
	Create(ctx context.Context, in ItineraryCreate) (*types.Itinerary, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Itinerary, error)
	List(ctx context.Context, p pagination.Params) ([]*types.Itinerary, int64, error)
	Update(ctx context.Context, id uuid.UUID, patch ItineraryUpdate) (*types.Itinerary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type itineraryService struct {
	db            *gorm.DB
	log           *logger.Logger
	itineraryRepo repos.ItineraryRepo
}

func NewItineraryService(db *gorm.DB, log *logger.Logger, itineraryRepo repos.ItineraryRepo) ItineraryService {
	return &itineraryService{
		db:            db,
		log:           log.With("service", "ItineraryService"),
		itineraryRepo: itineraryRepo,
	}
}

func validItineraryStatus(s string) bool {
	switch s {
	case ItineraryStatusDraft, ItineraryStatusPlanned, ItineraryStatusCompleted:
		return true
	}
	return false
}

func validDateRange(start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return !end.Before(*start)
}

func (is *itineraryService) Create(ctx context.Context, in ItineraryCreate) (*types.Itinerary, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	if in.Title == "" {
		return nil, apierr.Validation("title required")
	}
	if !validDateRange(in.StartDate, in.EndDate) {
		return nil, apierr.Validation("end_date must not precede start_date")
	}

	items := datatypes.JSON([]byte(`[]`))
	if len(in.Items) > 0 {
		items = datatypes.JSON(in.Items)
	}

	row := &types.Itinerary{
		UserID:      rd.UserID,
		Title:       in.Title,
		Destination: in.Destination,
		Status:      ItineraryStatusDraft,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Items:       items,
		Notes:       in.Notes,
	}
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := is.itineraryRepo.Create(dbc, []*types.Itinerary{row}); err != nil {
			return fmt.Errorf("create itinerary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (is *itineraryService) owned(dbc dbctx.Context, userID, id uuid.UUID) (*types.Itinerary, error) {
	row, err := is.itineraryRepo.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load itinerary: %w", err)
	}
	if row == nil || row.UserID != userID {
		return nil, apierr.NotFound("itinerary not found")
	}
	return row, nil
}

func (is *itineraryService) Get(ctx context.Context, id uuid.UUID) (*types.Itinerary, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	return is.owned(dbctx.Context{Ctx: ctx}, rd.UserID, id)
}

func (is *itineraryService) List(ctx context.Context, p pagination.Params) ([]*types.Itinerary, int64, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, 0, apierr.Unauthorized("no principal in context")
	}
	return is.itineraryRepo.ListByUser(dbctx.Context{Ctx: ctx}, rd.UserID, p)
}

func (is *itineraryService) Update(ctx context.Context, id uuid.UUID, patch ItineraryUpdate) (*types.Itinerary, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}

	updates := map[string]any{}
	if patch.Title.Set {
		if patch.Title.Value == nil {
			return nil, apierr.Validation("title cannot be empty")
		}
		updates["title"] = *patch.Title.Value
	}
	if patch.Destination.Set {
		v := ""
		if patch.Destination.Value != nil {
			v = *patch.Destination.Value
		}
		updates["destination"] = v
	}
	if patch.Status.Set {
		if patch.Status.Value == nil || !validItineraryStatus(*patch.Status.Value) {
			return nil, apierr.Validation("status must be draft, planned or completed")
		}
		updates["status"] = *patch.Status.Value
	}
	if patch.StartDate.Set {
		updates["start_date"] = patch.StartDate.Value
	}
	if patch.EndDate.Set {
		updates["end_date"] = patch.EndDate.Value
	}
	if patch.Items.Set {
		items := datatypes.JSON([]byte(`[]`))
		if patch.Items.Value != nil {
			items = datatypes.JSON(*patch.Items.Value)
		}
		updates["items"] = items
	}
	if patch.Notes.Set {
		v := ""
		if patch.Notes.Value != nil {
			v = *patch.Notes.Value
		}
		updates["notes"] = v
	}

	var out *types.Itinerary
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := is.owned(dbc, rd.UserID, id)
		if err != nil {
			return err
		}

		// Validate the date range as it will be after the patch.
		start, end := row.StartDate, row.EndDate
		if patch.StartDate.Set {
			start = patch.StartDate.Value
		}
		if patch.EndDate.Set {
			end = patch.EndDate.Value
		}
		if !validDateRange(start, end) {
			return apierr.Validation("end_date must not precede start_date")
		}

		if len(updates) > 0 {
			if err := is.itineraryRepo.UpdateFields(dbc, id, updates); err != nil {
				return fmt.Errorf("update itinerary: %w", err)
			}
		}
		fresh, err := is.itineraryRepo.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("reload itinerary: %w", err)
		}
		out = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (is *itineraryService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("no principal in context")
	}
	return is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := is.owned(dbc, rd.UserID, id); err != nil {
			return err
		}
		if _, err := is.itineraryRepo.SoftDeleteByID(dbc, id); err != nil {
			return fmt.Errorf("delete itinerary: %w", err)
		}
		return nil
	})
}
