package booking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PaymentProviderPayPal = "paypal"
	PaymentProviderFlouci = "flouci"

	PaymentStatusCreated  = "created"
	PaymentStatusCaptured = "captured"
	PaymentStatusFailed   = "failed"
)

type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`

	Provider        string `gorm:"column:provider;not null;index" json:"provider"`
	ProviderOrderID string `gorm:"column:provider_order_id;not null;index" json:"provider_order_id"`

	Amount   float64 `gorm:"column:amount;not null" json:"amount"`
	Currency string  `gorm:"column:currency;not null;default:'USD'" json:"currency"`
	Status   string  `gorm:"column:status;not null;default:'created';index" json:"status"`

	// Raw provider response kept for reconciliation.
	ProviderPayload datatypes.JSON `gorm:"type:jsonb;column:provider_payload;not null;default:'{}'" json:"-"`

	CapturedAt *time.Time `gorm:"column:captured_at" json:"captured_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Payment) TableName() string { return "payment" }
