package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/ctxutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/platform/flouci"
	"github.com/wanderly/wanderly-backend/internal/platform/paypal"
)

type PaymentCreate struct {
	BookingID uuid.UUID `json:"booking_id"`
	Provider  string    `json:"provider"`
}

// PaymentIntent pairs the stored payment with the provider link the
// buyer approves it on.
type PaymentIntent struct {
	Payment    *types.Payment `json:"payment"`
	ApproveURL string         `json:"approve_url"`
}

type PaymentService interface {
	Create(ctx context.Context, in PaymentCreate) (*PaymentIntent, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Payment, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*types.Payment, error)

	// Capture settles the payment with its provider and, on success,
	// confirms the booking in the same transaction.
	Capture(ctx context.Context, id uuid.UUID) (*types.Payment, error)
}

type paymentService struct {
	db          *gorm.DB
	log         *logger.Logger
	bookingRepo repos.BookingRepo
	paymentRepo repos.PaymentRepo
	userRepo    repos.UserRepo
	paypal      paypal.Client
	flouci      flouci.Client
	notifier    Notifier
}

func NewPaymentService(
	db *gorm.DB,
	log *logger.Logger,
	bookingRepo repos.BookingRepo,
	paymentRepo repos.PaymentRepo,
	userRepo repos.UserRepo,
	paypalClient paypal.Client,
	flouciClient flouci.Client,
	notifier Notifier,
) PaymentService {
	return &paymentService{
		db:          db,
		log:         log.With("service", "PaymentService"),
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		paypal:      paypalClient,
		flouci:      flouciClient,
		notifier:    notifier,
	}
}

func (ps *paymentService) Create(ctx context.Context, in PaymentCreate) (*PaymentIntent, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	switch in.Provider {
	case types.PaymentProviderPayPal, types.PaymentProviderFlouci:
	default:
		return nil, apierr.Validation("provider must be paypal or flouci")
	}

	var out *PaymentIntent
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		bk, err := ps.bookingRepo.LockByID(dbc, in.BookingID)
		if err != nil {
			return fmt.Errorf("lock booking: %w", err)
		}
		if bk == nil || bk.UserID != rd.UserID {
			return apierr.NotFound("booking not found")
		}
		if bk.Status != types.BookingStatusPending {
			return apierr.Conflict("booking in status %q cannot be paid", bk.Status)
		}

		var (
			orderID    string
			approveURL string
			raw        datatypes.JSON
		)
		switch in.Provider {
		case types.PaymentProviderPayPal:
			order, err := ps.paypal.CreateOrder(ctx, bk.Amount, bk.Currency,
				fmt.Sprintf("%s booking %s", bk.BookingType, bk.ItemRef))
			if err != nil {
				return apierr.Upstream(fmt.Errorf("paypal create order: %w", err))
			}
			orderID, approveURL, raw = order.ID, order.ApproveURL, datatypes.JSON(order.Raw)
		case types.PaymentProviderFlouci:
			millimes := int64(math.Round(bk.Amount * 1000))
			pay, err := ps.flouci.GeneratePayment(ctx, millimes, bk.ID.String())
			if err != nil {
				return apierr.Upstream(fmt.Errorf("flouci generate payment: %w", err))
			}
			orderID, approveURL, raw = pay.ID, pay.PayURL, datatypes.JSON(pay.Raw)
		}

		row := &types.Payment{
			UserID:          rd.UserID,
			BookingID:       bk.ID,
			Provider:        in.Provider,
			ProviderOrderID: orderID,
			Amount:          bk.Amount,
			Currency:        bk.Currency,
			Status:          types.PaymentStatusCreated,
			ProviderPayload: raw,
		}
		if _, err := ps.paymentRepo.Create(dbc, []*types.Payment{row}); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		out = &PaymentIntent{Payment: row, ApproveURL: approveURL}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ps *paymentService) Get(ctx context.Context, id uuid.UUID) (*types.Payment, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	row, err := ps.paymentRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load payment: %w", err)
	}
	if row == nil || row.UserID != rd.UserID {
		return nil, apierr.NotFound("payment not found")
	}
	return row, nil
}

func (ps *paymentService) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*types.Payment, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	dbc := dbctx.Context{Ctx: ctx}
	bk, err := ps.bookingRepo.GetByID(dbc, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if bk == nil || bk.UserID != rd.UserID {
		return nil, apierr.NotFound("booking not found")
	}
	return ps.paymentRepo.ListByBooking(dbc, bookingID)
}

func (ps *paymentService) Capture(ctx context.Context, id uuid.UUID) (*types.Payment, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	var (
		out       *types.Payment
		confirmed *types.Booking
	)
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		pay, err := ps.paymentRepo.LockByID(dbc, id)
		if err != nil {
			return fmt.Errorf("lock payment: %w", err)
		}
		if pay == nil || pay.UserID != rd.UserID {
			return apierr.NotFound("payment not found")
		}
		if pay.Status == types.PaymentStatusCaptured {
			// Repeated captures are harmless, hand back the settled row.
			out = pay
			return nil
		}
		if pay.Status == types.PaymentStatusFailed {
			return apierr.Conflict("payment already failed, create a new one")
		}

		bk, err := ps.bookingRepo.LockByID(dbc, pay.BookingID)
		if err != nil {
			return fmt.Errorf("lock booking: %w", err)
		}
		if bk == nil {
			return apierr.NotFound("booking not found")
		}
		if bk.Status == types.BookingStatusCancelled {
			return apierr.Conflict("booking was cancelled")
		}

		var (
			completed bool
			raw       datatypes.JSON
		)
		switch pay.Provider {
		case types.PaymentProviderPayPal:
			res, err := ps.paypal.CaptureOrder(ctx, pay.ProviderOrderID)
			if err != nil {
				return apierr.Upstream(fmt.Errorf("paypal capture: %w", err))
			}
			completed, raw = res.Completed, datatypes.JSON(res.Raw)
		case types.PaymentProviderFlouci:
			res, err := ps.flouci.VerifyPayment(ctx, pay.ProviderOrderID)
			if err != nil {
				return apierr.Upstream(fmt.Errorf("flouci verify: %w", err))
			}
			completed, raw = res.Completed, datatypes.JSON(res.Raw)
		default:
			return apierr.Configuration("unknown payment provider %q", pay.Provider)
		}

		if !completed {
			// Buyer has not approved yet. Leave the payment open so the
			// capture can be retried.
			return apierr.Conflict("payment not completed by provider")
		}

		now := time.Now().UTC()
		if err := ps.paymentRepo.UpdateFields(dbc, pay.ID, map[string]any{
			"status":           types.PaymentStatusCaptured,
			"captured_at":      now,
			"provider_payload": raw,
		}); err != nil {
			return fmt.Errorf("settle payment: %w", err)
		}
		if err := ps.bookingRepo.UpdateFields(dbc, bk.ID, map[string]any{
			"status":     types.BookingStatusConfirmed,
			"payment_id": pay.ID,
		}); err != nil {
			return fmt.Errorf("confirm booking: %w", err)
		}
		fresh, err := ps.paymentRepo.GetByID(dbc, pay.ID)
		if err != nil {
			return fmt.Errorf("reload payment: %w", err)
		}
		out = fresh
		confirmed = bk
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Idempotent replays skip the mail; only a fresh capture confirms.
	if confirmed != nil {
		ps.notifyConfirmed(ctx, confirmed, out)
	}
	return out, nil
}

func (ps *paymentService) notifyConfirmed(ctx context.Context, bk *types.Booking, pay *types.Payment) {
	users, err := ps.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{pay.UserID})
	if err != nil || len(users) == 0 {
		ps.log.Warn("payment owner lookup failed", "payment_id", pay.ID, "error", err)
		return
	}
	if err := ps.notifier.NotifyBookingConfirmed(ctx, users[0], bk, pay); err != nil {
		// Delivery is best effort, the capture is already recorded.
		ps.log.Warn("booking confirmation email failed", "payment_id", pay.ID, "error", err)
	}
}
