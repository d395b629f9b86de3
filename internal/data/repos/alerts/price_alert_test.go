package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/wanderly/wanderly-backend/internal/data/repos/alerts"
	"github.com/wanderly/wanderly-backend/internal/data/repos/testutil"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
)

func TestPriceAlertRepo_ListActiveSkipsExpiredAndInactive(t *testing.T) {
	tx := testutil.Tx(t)
	repo := alerts.NewPriceAlertRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	live := testutil.SeedPriceAlert(t, tx, u.ID, 100)

	past := time.Now().UTC().Add(-time.Hour)
	expired := &types.PriceAlert{
		UserID:    u.ID,
		ItemType:  string(types.ItemTypeFlight),
		ItemID:    "FL-expired",
		Direction: types.AlertDirectionBelow,
		Threshold: 100,
		Active:    true,
		ExpiresAt: &past,
	}
	if err := tx.Create(expired).Error; err != nil {
		t.Fatalf("seed expired alert: %v", err)
	}

	inactive := &types.PriceAlert{
		UserID:    u.ID,
		ItemType:  string(types.ItemTypeFlight),
		ItemID:    "FL-off",
		Direction: types.AlertDirectionAbove,
		Threshold: 50,
		Active:    false,
	}
	if err := tx.Create(inactive).Error; err != nil {
		t.Fatalf("seed inactive alert: %v", err)
	}

	got, err := repo.ListActive(dbc, time.Now().UTC())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(got) != 1 || got[0].ID != live.ID {
		t.Fatalf("expected only the live alert, got %d rows", len(got))
	}
}

func TestPriceAlertRepo_UpdateFieldsRecordsTrigger(t *testing.T) {
	tx := testutil.Tx(t)
	repo := alerts.NewPriceAlertRepo(tx, testutil.Log(t))
	u := testutil.SeedUser(t, tx)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	a := testutil.SeedPriceAlert(t, tx, u.ID, 100)

	now := time.Now().UTC()
	price := 90.0
	if err := repo.UpdateFields(dbc, a.ID, map[string]any{
		"current_price": price,
		"triggered":     true,
		"triggered_at":  now,
		"trigger_count": 1,
		"active":        false,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(dbc, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || !got.Triggered || got.Active {
		t.Fatalf("expected triggered inactive alert, got %+v", got)
	}
	if got.CurrentPrice == nil || *got.CurrentPrice != price {
		t.Fatalf("expected current_price %v, got %v", price, got.CurrentPrice)
	}
	if got.TriggerCount != 1 {
		t.Fatalf("expected trigger_count=1, got %d", got.TriggerCount)
	}
}
