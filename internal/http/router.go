package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/wanderly/wanderly-backend/internal/http/handlers"
	httpMW "github.com/wanderly/wanderly-backend/internal/http/middleware"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware
	TraceService   string

	HealthHandler         *httpH.HealthHandler
	AuthHandler           *httpH.AuthHandler
	UserHandler           *httpH.UserHandler
	FavoriteHandler       *httpH.FavoriteHandler
	ReviewHandler         *httpH.ReviewHandler
	SearchHistoryHandler  *httpH.SearchHistoryHandler
	ItineraryHandler      *httpH.ItineraryHandler
	BookingHandler        *httpH.BookingHandler
	PaymentHandler        *httpH.PaymentHandler
	PriceAlertHandler     *httpH.PriceAlertHandler
	ChatHandler           *httpH.ChatHandler
	RecommendationHandler *httpH.RecommendationHandler
	OnboardingHandler     *httpH.OnboardingHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TraceService != "" {
		r.Use(httpMW.Tracing(cfg.TraceService))
	}
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.UpdateMe)
			protected.GET("/me/avatar", cfg.UserHandler.GetAvatar)
			protected.PATCH("/me/avatar_color", cfg.UserHandler.UpdateAvatarColor)
		}

		if cfg.FavoriteHandler != nil {
			protected.POST("/favorites", cfg.FavoriteHandler.Add)
			protected.GET("/favorites", cfg.FavoriteHandler.List)
			protected.GET("/favorites/:id", cfg.FavoriteHandler.Get)
			protected.DELETE("/favorites/:id", cfg.FavoriteHandler.Remove)
		}

		if cfg.ReviewHandler != nil {
			protected.POST("/reviews", cfg.ReviewHandler.Create)
			protected.GET("/reviews", cfg.ReviewHandler.List)
			protected.GET("/reviews/:id", cfg.ReviewHandler.Get)
			protected.PATCH("/reviews/:id", cfg.ReviewHandler.Update)
			protected.DELETE("/reviews/:id", cfg.ReviewHandler.Delete)
		}

		if cfg.SearchHistoryHandler != nil {
			protected.POST("/searches", cfg.SearchHistoryHandler.Record)
			protected.GET("/searches", cfg.SearchHistoryHandler.List)
			protected.DELETE("/searches/:id", cfg.SearchHistoryHandler.Delete)
			protected.DELETE("/searches", cfg.SearchHistoryHandler.Clear)
		}

		if cfg.ItineraryHandler != nil {
			protected.POST("/itineraries", cfg.ItineraryHandler.Create)
			protected.GET("/itineraries", cfg.ItineraryHandler.List)
			protected.GET("/itineraries/:id", cfg.ItineraryHandler.Get)
			protected.PATCH("/itineraries/:id", cfg.ItineraryHandler.Update)
			protected.DELETE("/itineraries/:id", cfg.ItineraryHandler.Delete)
		}

		if cfg.BookingHandler != nil {
			protected.POST("/bookings", cfg.BookingHandler.Create)
			protected.GET("/bookings", cfg.BookingHandler.List)
			protected.GET("/bookings/:id", cfg.BookingHandler.Get)
			protected.POST("/bookings/:id/cancel", cfg.BookingHandler.Cancel)
		}

		if cfg.PaymentHandler != nil {
			protected.POST("/payments", cfg.PaymentHandler.Create)
			protected.GET("/payments/:id", cfg.PaymentHandler.Get)
			protected.POST("/payments/:id/capture", cfg.PaymentHandler.Capture)
			protected.GET("/bookings/:id/payments", cfg.PaymentHandler.ListByBooking)
		}

		if cfg.PriceAlertHandler != nil {
			protected.POST("/price-alerts", cfg.PriceAlertHandler.Create)
			protected.GET("/price-alerts", cfg.PriceAlertHandler.List)
			protected.GET("/price-alerts/:id", cfg.PriceAlertHandler.Get)
			protected.PATCH("/price-alerts/:id", cfg.PriceAlertHandler.Update)
			protected.POST("/price-alerts/:id/evaluate", cfg.PriceAlertHandler.Evaluate)
			protected.DELETE("/price-alerts/:id", cfg.PriceAlertHandler.Delete)
		}

		if cfg.ChatHandler != nil {
			protected.POST("/chat/messages", cfg.ChatHandler.Send)
			protected.GET("/chat/sessions", cfg.ChatHandler.ListSessions)
			protected.GET("/chat/sessions/:id/messages", cfg.ChatHandler.ListMessages)
			protected.DELETE("/chat/sessions/:id", cfg.ChatHandler.DeleteSession)
		}

		if cfg.RecommendationHandler != nil {
			protected.POST("/recommendations", cfg.RecommendationHandler.Recommend)
		}

		if cfg.OnboardingHandler != nil {
			protected.POST("/onboarding/start", cfg.OnboardingHandler.Start)
			protected.GET("/onboarding/status", cfg.OnboardingHandler.Status)
			protected.POST("/onboarding/answer", cfg.OnboardingHandler.SubmitAnswer)
		}
	}

	return r
}
