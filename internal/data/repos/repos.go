package repos

import (
	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos/alerts"
	"github.com/wanderly/wanderly-backend/internal/data/repos/auth"
	"github.com/wanderly/wanderly-backend/internal/data/repos/booking"
	"github.com/wanderly/wanderly-backend/internal/data/repos/chat"
	"github.com/wanderly/wanderly-backend/internal/data/repos/onboarding"
	"github.com/wanderly/wanderly-backend/internal/data/repos/travel"
	"github.com/wanderly/wanderly-backend/internal/data/repos/user"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type FavoriteRepo = travel.FavoriteRepo
type ReviewRepo = travel.ReviewRepo
type ReviewFilter = travel.ReviewFilter
type SearchEntryRepo = travel.SearchEntryRepo
type ItineraryRepo = travel.ItineraryRepo

type BookingRepo = booking.BookingRepo
type BookingFilter = booking.BookingFilter
type PaymentRepo = booking.PaymentRepo

type PriceAlertRepo = alerts.PriceAlertRepo
type PriceAlertFilter = alerts.PriceAlertFilter

type ChatSessionRepo = chat.SessionRepo
type ChatMessageRepo = chat.MessageRepo

type OnboardingSessionRepo = onboarding.SessionRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) FavoriteRepo {
	return travel.NewFavoriteRepo(db, baseLog)
}
func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return travel.NewReviewRepo(db, baseLog)
}
func NewSearchEntryRepo(db *gorm.DB, baseLog *logger.Logger) SearchEntryRepo {
	return travel.NewSearchEntryRepo(db, baseLog)
}
func NewItineraryRepo(db *gorm.DB, baseLog *logger.Logger) ItineraryRepo {
	return travel.NewItineraryRepo(db, baseLog)
}

func NewBookingRepo(db *gorm.DB, baseLog *logger.Logger) BookingRepo {
	return booking.NewBookingRepo(db, baseLog)
}
func NewPaymentRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRepo {
	return booking.NewPaymentRepo(db, baseLog)
}

func NewPriceAlertRepo(db *gorm.DB, baseLog *logger.Logger) PriceAlertRepo {
	return alerts.NewPriceAlertRepo(db, baseLog)
}

func NewChatSessionRepo(db *gorm.DB, baseLog *logger.Logger) ChatSessionRepo {
	return chat.NewSessionRepo(db, baseLog)
}
func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return chat.NewMessageRepo(db, baseLog)
}

func NewOnboardingSessionRepo(db *gorm.DB, baseLog *logger.Logger) OnboardingSessionRepo {
	return onboarding.NewSessionRepo(db, baseLog)
}
