package services

import (
	"context"
	"fmt"
	"strings"
	"time"

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

type PriceAlertCreate struct {
	ItemType     string     `json:"item_type"`
	ItemID       string     `json:"item_id"`
	Threshold    float64    `json:"threshold"`
	Direction    string     `json:"direction"`
	Currency     string     `json:"currency"`
	RepeatNotify bool       `json:"repeat_notify"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

type PriceAlertUpdate struct {
	Threshold    OptionalFloat64 `json:"threshold"`
	Direction    OptionalString  `json:"direction"`
	Active       OptionalBool    `json:"active"`
	RepeatNotify OptionalBool    `json:"repeat_notify"`
	ExpiresAt    OptionalTime    `json:"expires_at"`
}

type PriceAlertListFilter struct {
	Active    *bool
	Triggered *bool
}

type PriceAlertService interface {
	Create(ctx context.Context, in PriceAlertCreate) (*types.PriceAlert, error)
	Get(ctx context.Context, id uuid.UUID) (*types.PriceAlert, error)
	List(ctx context.Context, filter PriceAlertListFilter, p pagination.Params) ([]*types.PriceAlert, int64, error)
	Update(ctx context.Context, id uuid.UUID, patch PriceAlertUpdate) (*types.PriceAlert, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Evaluate applies a caller-observed price to the alert, recording
	// trigger state the same way the background sweeper does.
	Evaluate(ctx context.Context, id uuid.UUID, observedPrice float64) (*types.PriceAlert, error)
}

type priceAlertService struct {
	db        *gorm.DB
	log       *logger.Logger
	alertRepo repos.PriceAlertRepo
	userRepo  repos.UserRepo
	notifier  Notifier
}

func NewPriceAlertService(
	db *gorm.DB,
	log *logger.Logger,
	alertRepo repos.PriceAlertRepo,
	userRepo repos.UserRepo,
	notifier Notifier,
) PriceAlertService {
	return &priceAlertService{
		db:        db,
		log:       log.With("service", "PriceAlertService"),
		alertRepo: alertRepo,
		userRepo:  userRepo,
		notifier:  notifier,
	}
}

// AlertShouldTrigger reports whether an observed price crosses the alert
// threshold. A price equal to the threshold counts as crossed.
func AlertShouldTrigger(direction types.AlertDirection, threshold, price float64) bool {
	switch direction {
	case types.AlertDirectionBelow:
		return price <= threshold
	case types.AlertDirectionAbove:
		return price >= threshold
	}
	return false
}

// AlertEvaluation is the outcome of applying one observed price to an
// alert.
type AlertEvaluation struct {
	Triggered bool
	Expired   bool
}

// EvaluateAlert decides what an observed price means for an alert
// without touching storage. Expired and inactive alerts never trigger.
func EvaluateAlert(alert *types.PriceAlert, price float64, now time.Time) AlertEvaluation {
	if alert.Expired(now) {
		return AlertEvaluation{Expired: true}
	}
	if !alert.Active {
		return AlertEvaluation{}
	}
	return AlertEvaluation{Triggered: AlertShouldTrigger(alert.Direction, alert.Threshold, price)}
}

// alertEvalUpdates turns an evaluation into the column updates that
// record it. The observed price is stored even when nothing fired, so
// clients can show price movement.
func alertEvalUpdates(alert *types.PriceAlert, ev AlertEvaluation, price float64, now time.Time) map[string]any {
	updates := map[string]any{"current_price": price}
	if ev.Expired {
		updates["active"] = false
	}
	if ev.Triggered {
		updates["triggered"] = true
		updates["triggered_at"] = now
		updates["trigger_count"] = gorm.Expr("trigger_count + 1")
		if !alert.RepeatNotify {
			updates["active"] = false
		}
	}
	return updates
}

func (as *priceAlertService) Create(ctx context.Context, in PriceAlertCreate) (*types.PriceAlert, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	if _, err := types.ParseItemType(in.ItemType); err != nil {
		return nil, apierr.Validation("item_type: %v", err)
	}
	if in.ItemID == "" {
		return nil, apierr.Validation("item_id required")
	}
	if in.Threshold <= 0 {
		return nil, apierr.Validation("threshold must be positive")
	}
	direction, err := types.ParseAlertDirection(in.Direction)
	if err != nil {
		return nil, apierr.Validation("direction: %v", err)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, apierr.Validation("currency must be a 3-letter code")
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(time.Now()) {
		return nil, apierr.Validation("expires_at must be in the future")
	}

	row := &types.PriceAlert{
		UserID:       rd.UserID,
		ItemType:     in.ItemType,
		ItemID:       in.ItemID,
		Threshold:    in.Threshold,
		Direction:    direction,
		Currency:     currency,
		Active:       true,
		RepeatNotify: in.RepeatNotify,
		ExpiresAt:    in.ExpiresAt,
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.alertRepo.Create(dbc, []*types.PriceAlert{row}); err != nil {
			return fmt.Errorf("create price alert: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (as *priceAlertService) owned(dbc dbctx.Context, userID, id uuid.UUID) (*types.PriceAlert, error) {
	row, err := as.alertRepo.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load price alert: %w", err)
	}
	if row == nil || row.UserID != userID {
		return nil, apierr.NotFound("price alert not found")
	}
	return row, nil
}

func (as *priceAlertService) Get(ctx context.Context, id uuid.UUID) (*types.PriceAlert, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	return as.owned(dbctx.Context{Ctx: ctx}, rd.UserID, id)
}

func (as *priceAlertService) List(ctx context.Context, filter PriceAlertListFilter, p pagination.Params) ([]*types.PriceAlert, int64, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, 0, apierr.Unauthorized("no principal in context")
	}
	f := repos.PriceAlertFilter{Active: filter.Active, Triggered: filter.Triggered}
	return as.alertRepo.ListByUser(dbctx.Context{Ctx: ctx}, rd.UserID, f, p)
}

func (as *priceAlertService) Update(ctx context.Context, id uuid.UUID, patch PriceAlertUpdate) (*types.PriceAlert, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}

	updates := map[string]any{}
	if patch.Threshold.Set {
		if patch.Threshold.Value == nil || *patch.Threshold.Value <= 0 {
			return nil, apierr.Validation("threshold must be positive")
		}
		updates["threshold"] = *patch.Threshold.Value
	}
	if patch.Direction.Set {
		if patch.Direction.Value == nil {
			return nil, apierr.Validation("direction cannot be empty")
		}
		direction, err := types.ParseAlertDirection(*patch.Direction.Value)
		if err != nil {
			return nil, apierr.Validation("direction: %v", err)
		}
		updates["direction"] = direction
	}
	if patch.Active.Set {
		if patch.Active.Value == nil {
			return nil, apierr.Validation("active must be true or false")
		}
		updates["active"] = *patch.Active.Value
		// Reactivation clears the fired state so the sweeper evaluates
		// the alert afresh.
		if *patch.Active.Value {
			updates["triggered"] = false
			updates["triggered_at"] = nil
		}
	}
	if patch.RepeatNotify.Set {
		if patch.RepeatNotify.Value == nil {
			return nil, apierr.Validation("repeat_notify must be true or false")
		}
		updates["repeat_notify"] = *patch.RepeatNotify.Value
	}
	if patch.ExpiresAt.Set {
		if patch.ExpiresAt.Value != nil && !patch.ExpiresAt.Value.After(time.Now()) {
			return nil, apierr.Validation("expires_at must be in the future")
		}
		updates["expires_at"] = patch.ExpiresAt.Value
	}

	var out *types.PriceAlert
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.owned(dbc, rd.UserID, id); err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := as.alertRepo.UpdateFields(dbc, id, updates); err != nil {
				return fmt.Errorf("update price alert: %w", err)
			}
		}
		fresh, err := as.alertRepo.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("reload price alert: %w", err)
		}
		out = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (as *priceAlertService) Evaluate(ctx context.Context, id uuid.UUID, observedPrice float64) (*types.PriceAlert, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	if observedPrice <= 0 {
		return nil, apierr.Validation("observed_price must be positive")
	}

	now := time.Now().UTC()
	var (
		out *types.PriceAlert
		ev  AlertEvaluation
	)
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		// Row lock so a concurrent sweep cannot double-count the trigger.
		row, err := as.alertRepo.LockByID(dbc, id)
		if err != nil {
			return fmt.Errorf("lock price alert: %w", err)
		}
		if row == nil || row.UserID != rd.UserID {
			return apierr.NotFound("price alert not found")
		}

		ev = EvaluateAlert(row, observedPrice, now)
		if err := as.alertRepo.UpdateFields(dbc, row.ID, alertEvalUpdates(row, ev, observedPrice, now)); err != nil {
			return fmt.Errorf("record evaluation: %w", err)
		}
		fresh, err := as.alertRepo.GetByID(dbc, row.ID)
		if err != nil {
			return fmt.Errorf("reload price alert: %w", err)
		}
		out = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ev.Triggered {
		users, err := as.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{out.UserID})
		if err != nil || len(users) == 0 {
			as.log.Warn("alert owner lookup failed", "alert_id", out.ID, "error", err)
			return out, nil
		}
		if err := as.notifier.NotifyAlertTriggered(ctx, users[0], out, observedPrice); err != nil {
			// Delivery is best effort, the trigger state is already recorded.
			as.log.Warn("alert notification failed", "alert_id", out.ID, "error", err)
		}
	}
	return out, nil
}

func (as *priceAlertService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("no principal in context")
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.owned(dbc, rd.UserID, id); err != nil {
			return err
		}
		if _, err := as.alertRepo.DeleteByID(dbc, id); err != nil {
			return fmt.Errorf("delete price alert: %w", err)
		}
		return nil
	})
}
