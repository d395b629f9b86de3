package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wanderly/wanderly-backend/internal/domain"
)

// SeedUser inserts a user with a unique email and returns it.
func SeedUser(t *testing.T, tx *gorm.DB) *types.User {
	t.Helper()
	u := &types.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     fmt.Sprintf("test-%s@example.com", uuid.NewString()),
		Password:  "not-a-real-hash",
	}
	if err := tx.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedChatSession inserts an active chat session for the given user.
func SeedChatSession(t *testing.T, tx *gorm.DB, userID uuid.UUID) *types.ChatSession {
	t.Helper()
	s := &types.ChatSession{
		UserID:   userID,
		Title:    "Trip planning",
		Status:   types.ChatStatusActive,
		MaxTurns: 50,
	}
	if err := tx.Create(s).Error; err != nil {
		t.Fatalf("seed chat session: %v", err)
	}
	return s
}

// SeedPriceAlert inserts an active below-threshold alert.
func SeedPriceAlert(t *testing.T, tx *gorm.DB, userID uuid.UUID, threshold float64) *types.PriceAlert {
	t.Helper()
	exp := time.Now().UTC().Add(24 * time.Hour)
	a := &types.PriceAlert{
		UserID:    userID,
		ItemType:  string(types.ItemTypeFlight),
		ItemID:    "FL-" + uuid.NewString()[:8],
		Direction: types.AlertDirectionBelow,
		Threshold: threshold,
		Active:    true,
		ExpiresAt: &exp,
	}
	if err := tx.Create(a).Error; err != nil {
		t.Fatalf("seed price alert: %v", err)
	}
	return a
}
