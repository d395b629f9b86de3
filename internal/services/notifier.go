package services

import (
	"context"
	"fmt"

	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/platform/mailjet"
)

// Notifier delivers user-facing event mail: triggered price alerts and
// confirmed bookings. Delivery is best effort everywhere it is called.
type Notifier interface {
	NotifyAlertTriggered(ctx context.Context, user *types.User, alert *types.PriceAlert, price float64) error
	NotifyBookingConfirmed(ctx context.Context, user *types.User, bk *types.Booking, pay *types.Payment) error
}

type emailNotifier struct {
	log    *logger.Logger
	mailer mailjet.Client
}

func NewEmailNotifier(log *logger.Logger, mailer mailjet.Client) Notifier {
	return &emailNotifier{
		log:    log.With("service", "EmailNotifier"),
		mailer: mailer,
	}
}

func (n *emailNotifier) NotifyAlertTriggered(ctx context.Context, user *types.User, alert *types.PriceAlert, price float64) error {
	verb := "dropped below"
	if alert.Direction == types.AlertDirectionAbove {
		verb = "rose above"
	}
	subject := fmt.Sprintf("Price alert: %s %s is now %.2f %s", alert.ItemType, alert.ItemID, price, alert.Currency)
	text := fmt.Sprintf(
		"Hi %s,\n\nThe price for %s %s %s your threshold of %.2f %s and is now %.2f %s.\n\nSafe travels,\nWanderly",
		user.FirstName, alert.ItemType, alert.ItemID, verb, alert.Threshold, alert.Currency, price, alert.Currency,
	)
	return n.send(ctx, user, subject, text)
}

func (n *emailNotifier) NotifyBookingConfirmed(ctx context.Context, user *types.User, bk *types.Booking, pay *types.Payment) error {
	subject := fmt.Sprintf("Booking confirmed: %s %s", bk.BookingType, bk.ItemRef)
	text := fmt.Sprintf(
		"Hi %s,\n\nYour %s booking %s is confirmed. We captured %.2f %s via %s.\n\nSafe travels,\nWanderly",
		user.FirstName, bk.BookingType, bk.ItemRef, pay.Amount, pay.Currency, pay.Provider,
	)
	return n.send(ctx, user, subject, text)
}

func (n *emailNotifier) send(ctx context.Context, user *types.User, subject, text string) error {
	_, err := n.mailer.Send(ctx, mailjet.SendEmailRequest{
		To:      []mailjet.EmailAddress{{Email: user.Email, Name: fmt.Sprintf("%s %s", user.FirstName, user.LastName)}},
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NoopNotifier drops notifications, used when no mail transport is
// configured.
func NoopNotifier(log *logger.Logger) Notifier {
	return &noopNotifier{log: log.With("service", "NoopNotifier")}
}

type noopNotifier struct {
	log *logger.Logger
}

func (n *noopNotifier) NotifyAlertTriggered(ctx context.Context, user *types.User, alert *types.PriceAlert, price float64) error {
	n.log.Info("alert notification dropped, no mail transport configured",
		"alert_id", alert.ID, "user_id", user.ID)
	return nil
}

func (n *noopNotifier) NotifyBookingConfirmed(ctx context.Context, user *types.User, bk *types.Booking, pay *types.Payment) error {
	n.log.Info("booking notification dropped, no mail transport configured",
		"booking_id", bk.ID, "user_id", user.ID)
	return nil
}
