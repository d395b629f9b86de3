package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/envutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/platform/pricefeed"
)

// AlertSweeper polls the price feed for every active alert and records
// trigger state. One sweep runs at a time.
type AlertSweeper struct {
	db          *gorm.DB
	log         *logger.Logger
	alertRepo   repos.PriceAlertRepo
	userRepo    repos.UserRepo
	feed        pricefeed.Client
	notifier    Notifier
	interval    time.Duration
	concurrency int
}

func NewAlertSweeper(
	db *gorm.DB,
	log *logger.Logger,
	alertRepo repos.PriceAlertRepo,
	userRepo repos.UserRepo,
	feed pricefeed.Client,
	notifier Notifier,
) *AlertSweeper {
	interval := time.Duration(envutil.Int("ALERT_SWEEP_INTERVAL_SECONDS", 300)) * time.Second
	concurrency := envutil.Int("ALERT_SWEEP_CONCURRENCY", 8)
	if concurrency < 1 {
		concurrency = 1
	}
	return &AlertSweeper{
		db:          db,
		log:         log.With("service", "AlertSweeper"),
		alertRepo:   alertRepo,
		userRepo:    userRepo,
		feed:        feed,
		notifier:    notifier,
		interval:    interval,
		concurrency: concurrency,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *AlertSweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.log.Info("alert sweeper started", "interval", s.interval.String(), "concurrency", s.concurrency)
		for {
			select {
			case <-ctx.Done():
				s.log.Info("alert sweeper stopped")
				return
			case <-ticker.C:
				if err := s.SweepOnce(ctx); err != nil {
					s.log.Error("alert sweep failed", "error", err)
				}
			}
		}
	}()
}

// SweepOnce evaluates every active, unexpired alert against the feed.
func (s *AlertSweeper) SweepOnce(ctx context.Context) error {
	now := time.Now().UTC()
	alerts, err := s.alertRepo.ListActive(dbctx.Context{Ctx: ctx}, now)
	if err != nil {
		return fmt.Errorf("list active alerts: %w", err)
	}
	if len(alerts) == 0 {
		return nil
	}
	s.log.Debug("sweeping alerts", "count", len(alerts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, alert := range alerts {
		alert := alert
		g.Go(func() error {
			if err := s.evaluate(gctx, alert, now); err != nil {
				// One broken quote must not abort the whole sweep.
				s.log.Warn("alert evaluation failed", "alert_id", alert.ID, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *AlertSweeper) evaluate(ctx context.Context, alert *types.PriceAlert, now time.Time) error {
	quote, err := s.feed.Quote(ctx, alert.ItemType, alert.ItemID)
	if err != nil {
		return fmt.Errorf("quote %s/%s: %w", alert.ItemType, alert.ItemID, err)
	}
	ev := EvaluateAlert(alert, quote.Price, now)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		return s.alertRepo.UpdateFields(dbc, alert.ID, alertEvalUpdates(alert, ev, quote.Price, now))
	})
	if err != nil {
		return fmt.Errorf("record evaluation: %w", err)
	}

	if ev.Triggered {
		s.notify(ctx, alert, quote.Price)
	}
	return nil
}

func (s *AlertSweeper) notify(ctx context.Context, alert *types.PriceAlert, price float64) {
	users, err := s.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{alert.UserID})
	if err != nil || len(users) == 0 {
		s.log.Warn("alert owner lookup failed", "alert_id", alert.ID, "error", err)
		return
	}
	if err := s.notifier.NotifyAlertTriggered(ctx, users[0], alert, price); err != nil {
		// Delivery is best effort, the trigger state is already recorded.
		s.log.Warn("alert notification failed", "alert_id", alert.ID, "error", err)
	}
}
