package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

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

type BookingCreate struct {
	BookingType string          `json:"booking_type"`
	ItemRef     string          `json:"item_ref"`
	Details     json.RawMessage `json:"details"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
}

type BookingListFilter struct {
	Status      string
	BookingType string
}

type BookingService interface {
	Create(ctx context.Context, in BookingCreate) (*types.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Booking, error)
	List(ctx context.Context, filter BookingListFilter, p pagination.Params) ([]*types.Booking, int64, error)
	Cancel(ctx context.Context, id uuid.UUID) (*types.Booking, error)
}

type bookingService struct {
	db          *gorm.DB
	log         *logger.Logger
	bookingRepo repos.BookingRepo
}

func NewBookingService(db *gorm.DB, log *logger.Logger, bookingRepo repos.BookingRepo) BookingService {
	return &bookingService{
		db:          db,
		log:         log.With("service", "BookingService"),
		bookingRepo: bookingRepo,
	}
}

func validBookingType(s string) bool {
	switch s {
	case string(types.ItemTypeFlight), string(types.ItemTypeHotel), string(types.ItemTypeActivity):
		return true
	}
	return false
}

func validBookingStatus(s string) bool {
	switch s {
	case types.BookingStatusPending, types.BookingStatusConfirmed, types.BookingStatusCancelled:
		return true
	}
	return false
}

func (bs *bookingService) Create(ctx context.Context, in BookingCreate) (*types.Booking, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	if !validBookingType(in.BookingType) {
		return nil, apierr.Validation("booking_type must be flight, hotel or activity")
	}
	if in.ItemRef == "" {
		return nil, apierr.Validation("item_ref required")
	}
	if in.Amount <= 0 {
		return nil, apierr.Validation("amount must be positive")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, apierr.Validation("currency must be a 3-letter code")
	}

	details := datatypes.JSON([]byte(`{}`))
	if len(in.Details) > 0 {
		details = datatypes.JSON(in.Details)
	}

	row := &types.Booking{
		UserID:      rd.UserID,
		BookingType: in.BookingType,
		ItemRef:     in.ItemRef,
		Details:     details,
		Amount:      in.Amount,
		Currency:    currency,
		Status:      types.BookingStatusPending,
	}
	err := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := bs.bookingRepo.Create(dbc, []*types.Booking{row}); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (bs *bookingService) Get(ctx context.Context, id uuid.UUID) (*types.Booking, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	row, err := bs.bookingRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if row == nil || row.UserID != rd.UserID {
		return nil, apierr.NotFound("booking not found")
	}
	return row, nil
}

func (bs *bookingService) List(ctx context.Context, filter BookingListFilter, p pagination.Params) ([]*types.Booking, int64, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, 0, apierr.Unauthorized("no principal in context")
	}
	f := repos.BookingFilter{}
	if filter.Status != "" {
		if !validBookingStatus(filter.Status) {
			return nil, 0, apierr.Validation("status must be pending, confirmed or cancelled")
		}
		f.Status = &filter.Status
	}
	if filter.BookingType != "" {
		if !validBookingType(filter.BookingType) {
			return nil, 0, apierr.Validation("booking_type must be flight, hotel or activity")
		}
		f.BookingType = &filter.BookingType
	}
	return bs.bookingRepo.ListByUser(dbctx.Context{Ctx: ctx}, rd.UserID, f, p)
}

func (bs *bookingService) Cancel(ctx context.Context, id uuid.UUID) (*types.Booking, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	var out *types.Booking
	err := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		// Row lock keeps a concurrent capture from confirming a booking
		// that is being cancelled.
		row, err := bs.bookingRepo.LockByID(dbc, id)
		if err != nil {
			return fmt.Errorf("lock booking: %w", err)
		}
		if row == nil || row.UserID != rd.UserID {
			return apierr.NotFound("booking not found")
		}
		if !row.Cancellable() {
			return apierr.Conflict("booking in status %q cannot be cancelled", row.Status)
		}
		if err := bs.bookingRepo.UpdateFields(dbc, id, map[string]any{
			"status": types.BookingStatusCancelled,
		}); err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}
		fresh, err := bs.bookingRepo.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("reload booking: %w", err)
		}
		out = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
