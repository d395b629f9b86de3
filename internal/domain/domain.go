package domain

import (
	"github.com/wanderly/wanderly-backend/internal/domain/alerts"
	"github.com/wanderly/wanderly-backend/internal/domain/auth"
	"github.com/wanderly/wanderly-backend/internal/domain/booking"
	"github.com/wanderly/wanderly-backend/internal/domain/chat"
	"github.com/wanderly/wanderly-backend/internal/domain/onboarding"
	"github.com/wanderly/wanderly-backend/internal/domain/travel"
	"github.com/wanderly/wanderly-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type ItemType = travel.ItemType
type SearchType = travel.SearchType
type Favorite = travel.Favorite
type Review = travel.Review
type SearchEntry = travel.SearchEntry
type Itinerary = travel.Itinerary

type Booking = booking.Booking
type Payment = booking.Payment

type PriceAlert = alerts.PriceAlert
type AlertDirection = alerts.Direction

type ChatSession = chat.ChatSession
type ChatMessage = chat.ChatMessage

type OnboardingSession = onboarding.OnboardingSession

const (
	ItemTypeFlight      = travel.ItemTypeFlight
	ItemTypeHotel       = travel.ItemTypeHotel
	ItemTypeActivity    = travel.ItemTypeActivity
	ItemTypeDestination = travel.ItemTypeDestination

	SearchTypeFlight   = travel.SearchTypeFlight
	SearchTypeHotel    = travel.SearchTypeHotel
	SearchTypeActivity = travel.SearchTypeActivity

	BookingStatusPending   = booking.StatusPending
	BookingStatusConfirmed = booking.StatusConfirmed
	BookingStatusCancelled = booking.StatusCancelled

	PaymentProviderPayPal = booking.PaymentProviderPayPal
	PaymentProviderFlouci = booking.PaymentProviderFlouci
	PaymentStatusCreated  = booking.PaymentStatusCreated
	PaymentStatusCaptured = booking.PaymentStatusCaptured
	PaymentStatusFailed   = booking.PaymentStatusFailed

	AlertDirectionBelow = alerts.DirectionBelow
	AlertDirectionAbove = alerts.DirectionAbove

	ChatStatusActive    = chat.StatusActive
	ChatStatusCompleted = chat.StatusCompleted
	ChatRoleUser        = chat.RoleUser
	ChatRoleAssistant   = chat.RoleAssistant

	OnboardingStatusActive    = onboarding.StatusActive
	OnboardingStatusCompleted = onboarding.StatusCompleted
)

var (
	ParseItemType       = travel.ParseItemType
	ParseSearchType     = travel.ParseSearchType
	ParseAlertDirection = alerts.ParseDirection
)
