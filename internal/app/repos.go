package app

import (
	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo

	Favorite    repos.FavoriteRepo
	Review      repos.ReviewRepo
	SearchEntry repos.SearchEntryRepo
	Itinerary   repos.ItineraryRepo

	Booking repos.BookingRepo
	Payment repos.PaymentRepo

	PriceAlert repos.PriceAlertRepo

	ChatSession       repos.ChatSessionRepo
	ChatMessage       repos.ChatMessageRepo
	OnboardingSession repos.OnboardingSessionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),

		Favorite:    repos.NewFavoriteRepo(db, log),
		Review:      repos.NewReviewRepo(db, log),
		SearchEntry: repos.NewSearchEntryRepo(db, log),
		Itinerary:   repos.NewItineraryRepo(db, log),

		Booking: repos.NewBookingRepo(db, log),
		Payment: repos.NewPaymentRepo(db, log),

		PriceAlert: repos.NewPriceAlertRepo(db, log),

		ChatSession:       repos.NewChatSessionRepo(db, log),
		ChatMessage:       repos.NewChatMessageRepo(db, log),
		OnboardingSession: repos.NewOnboardingSessionRepo(db, log),
	}
}
