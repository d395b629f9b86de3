package db

import (
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Core identity + auth
		// =========================
		&types.User{},
		&types.UserToken{},

		// =========================
		// Owned travel records
		// =========================
		&types.Favorite{},
		&types.Review{},
		&types.SearchEntry{},
		&types.Itinerary{},

		// =========================
		// Bookings + payments
		// =========================
		&types.Booking{},
		&types.Payment{},

		// =========================
		// Price alerts
		// =========================
		&types.PriceAlert{},

		// =========================
		// Conversational state
		// =========================
		&types.ChatSession{},
		&types.ChatMessage{},
		&types.OnboardingSession{},
	)
}
