package services

import (
	"testing"
	"time"

	types "github.com/wanderly/wanderly-backend/internal/domain"
)

func TestAlertShouldTrigger(t *testing.T) {
	cases := []struct {
		name      string
		direction types.AlertDirection
		threshold float64
		price     float64
		want      bool
	}{
		{"below fires under threshold", types.AlertDirectionBelow, 100, 90, true},
		{"below holds over threshold", types.AlertDirectionBelow, 100, 110, false},
		{"below fires at threshold", types.AlertDirectionBelow, 100, 100, true},
		{"above fires over threshold", types.AlertDirectionAbove, 100, 110, true},
		{"above holds under threshold", types.AlertDirectionAbove, 100, 90, false},
		{"above fires at threshold", types.AlertDirectionAbove, 100, 100, true},
		{"unknown direction never fires", types.AlertDirection("sideways"), 100, 90, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AlertShouldTrigger(tc.direction, tc.threshold, tc.price)
			if got != tc.want {
				t.Fatalf("AlertShouldTrigger(%q, %v, %v) = %v, want %v",
					tc.direction, tc.threshold, tc.price, got, tc.want)
			}
		})
	}
}

func TestEvaluateAlert(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name  string
		alert types.PriceAlert
		price float64
		want  AlertEvaluation
	}{
		{
			name:  "active below alert fires",
			alert: types.PriceAlert{Active: true, Direction: types.AlertDirectionBelow, Threshold: 100},
			price: 90,
			want:  AlertEvaluation{Triggered: true},
		},
		{
			name:  "active below alert holds",
			alert: types.PriceAlert{Active: true, Direction: types.AlertDirectionBelow, Threshold: 100},
			price: 110,
			want:  AlertEvaluation{},
		},
		{
			name:  "expired alert never fires",
			alert: types.PriceAlert{Active: true, Direction: types.AlertDirectionBelow, Threshold: 100, ExpiresAt: &past},
			price: 90,
			want:  AlertEvaluation{Expired: true},
		},
		{
			name:  "unexpired deadline still fires",
			alert: types.PriceAlert{Active: true, Direction: types.AlertDirectionBelow, Threshold: 100, ExpiresAt: &future},
			price: 90,
			want:  AlertEvaluation{Triggered: true},
		},
		{
			name:  "inactive alert never fires",
			alert: types.PriceAlert{Active: false, Direction: types.AlertDirectionBelow, Threshold: 100},
			price: 90,
			want:  AlertEvaluation{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateAlert(&tc.alert, tc.price, now)
			if got != tc.want {
				t.Fatalf("EvaluateAlert() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestAlertEvalUpdates(t *testing.T) {
	now := time.Now().UTC()

	t.Run("non-trigger still records the observed price", func(t *testing.T) {
		alert := &types.PriceAlert{Active: true}
		updates := alertEvalUpdates(alert, AlertEvaluation{}, 110, now)
		if updates["current_price"] != 110.0 {
			t.Fatalf("current_price = %v, want 110", updates["current_price"])
		}
		if _, ok := updates["triggered"]; ok {
			t.Fatal("non-trigger must not touch triggered")
		}
	})

	t.Run("one-shot trigger deactivates", func(t *testing.T) {
		alert := &types.PriceAlert{Active: true, RepeatNotify: false}
		updates := alertEvalUpdates(alert, AlertEvaluation{Triggered: true}, 90, now)
		if updates["triggered"] != true {
			t.Fatal("expected triggered update")
		}
		if updates["active"] != false {
			t.Fatal("one-shot alert must deactivate on trigger")
		}
	})

	t.Run("repeat alert stays active", func(t *testing.T) {
		alert := &types.PriceAlert{Active: true, RepeatNotify: true}
		updates := alertEvalUpdates(alert, AlertEvaluation{Triggered: true}, 90, now)
		if _, ok := updates["active"]; ok {
			t.Fatal("repeat alert must stay active after a trigger")
		}
	})

	t.Run("expiry deactivates", func(t *testing.T) {
		alert := &types.PriceAlert{Active: true}
		updates := alertEvalUpdates(alert, AlertEvaluation{Expired: true}, 90, now)
		if updates["active"] != false {
			t.Fatal("expired alert must deactivate")
		}
	})
}
