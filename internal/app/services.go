package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/services"
)

type Services struct {
	Avatar services.AvatarService
	Auth   services.AuthService
	User   services.UserService

	Favorite      services.FavoriteService
	Review        services.ReviewService
	SearchHistory services.SearchHistoryService
	Itinerary     services.ItineraryService

	Booking services.BookingService
	Payment services.PaymentService

	PriceAlert   services.PriceAlertService
	AlertSweeper *services.AlertSweeper

	Chat           services.ChatService
	Recommendation services.RecommendationService
	Onboarding     services.OnboardingService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) (Services, error) {
	log.Info("Wiring services...")

	avatarService, err := services.NewAvatarService(db, log, r.User)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}
	authService, err := services.NewAuthService(db, log, r.User, r.UserToken, avatarService,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	notifier := services.NoopNotifier(log)
	if c.Mailjet != nil {
		notifier = services.NewEmailNotifier(log, c.Mailjet)
	}

	var sweeper *services.AlertSweeper
	if c.PriceFeed != nil {
		sweeper = services.NewAlertSweeper(db, log, r.PriceAlert, r.User, c.PriceFeed, notifier)
	}

	return Services{
		Avatar: avatarService,
		Auth:   authService,
		User:   services.NewUserService(db, log, r.User, avatarService),

		Favorite:      services.NewFavoriteService(db, log, r.Favorite),
		Review:        services.NewReviewService(db, log, r.Review),
		SearchHistory: services.NewSearchHistoryService(db, log, r.SearchEntry),
		Itinerary:     services.NewItineraryService(db, log, r.Itinerary),

		Booking: services.NewBookingService(db, log, r.Booking),
		Payment: services.NewPaymentService(db, log, r.Booking, r.Payment, r.User, c.PayPal, c.Flouci, notifier),

		PriceAlert:   services.NewPriceAlertService(db, log, r.PriceAlert, r.User, notifier),
		AlertSweeper: sweeper,

		Chat:           services.NewChatService(db, log, r.ChatSession, r.ChatMessage, c.OpenAI),
		Recommendation: services.NewRecommendationService(log, r.User, c.OpenAI, c.Cache),
		Onboarding:     services.NewOnboardingService(db, log, r.OnboardingSession, r.User, c.OpenAI),
	}, nil
}
