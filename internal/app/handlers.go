package app

import (
	"gorm.io/gorm"

	httpH "github.com/wanderly/wanderly-backend/internal/http/handlers"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

type Handlers struct {
	Health         *httpH.HealthHandler
	Auth           *httpH.AuthHandler
	User           *httpH.UserHandler
	Favorite       *httpH.FavoriteHandler
	Review         *httpH.ReviewHandler
	SearchHistory  *httpH.SearchHistoryHandler
	Itinerary      *httpH.ItineraryHandler
	Booking        *httpH.BookingHandler
	Payment        *httpH.PaymentHandler
	PriceAlert     *httpH.PriceAlertHandler
	Chat           *httpH.ChatHandler
	Recommendation *httpH.RecommendationHandler
	Onboarding     *httpH.OnboardingHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:         httpH.NewHealthHandler(db),
		Auth:           httpH.NewAuthHandler(s.Auth),
		User:           httpH.NewUserHandler(s.User),
		Favorite:       httpH.NewFavoriteHandler(s.Favorite),
		Review:         httpH.NewReviewHandler(s.Review),
		SearchHistory:  httpH.NewSearchHistoryHandler(s.SearchHistory),
		Itinerary:      httpH.NewItineraryHandler(s.Itinerary),
		Booking:        httpH.NewBookingHandler(s.Booking),
		Payment:        httpH.NewPaymentHandler(s.Payment),
		PriceAlert:     httpH.NewPriceAlertHandler(s.PriceAlert),
		Chat:           httpH.NewChatHandler(s.Chat),
		Recommendation: httpH.NewRecommendationHandler(s.Recommendation),
		Onboarding:     httpH.NewOnboardingHandler(s.Onboarding),
	}
}
