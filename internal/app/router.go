package app

import (
	"github.com/gin-gonic/gin"

	httpRouter "github.com/wanderly/wanderly-backend/internal/http"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, cfg Config, h Handlers, mw Middleware) *gin.Engine {
	return httpRouter.NewRouter(httpRouter.RouterConfig{
		Log:            log,
		AuthMiddleware: mw.Auth,
		TraceService:   cfg.ServiceName,

		HealthHandler:         h.Health,
		AuthHandler:           h.Auth,
		UserHandler:           h.User,
		FavoriteHandler:       h.Favorite,
		ReviewHandler:         h.Review,
		SearchHistoryHandler:  h.SearchHistory,
		ItineraryHandler:      h.Itinerary,
		BookingHandler:        h.Booking,
		PaymentHandler:        h.Payment,
		PriceAlertHandler:     h.PriceAlert,
		ChatHandler:           h.Chat,
		RecommendationHandler: h.Recommendation,
		OnboardingHandler:     h.Onboarding,
	})
}
