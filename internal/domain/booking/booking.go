package booking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Booking struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	BookingType string `gorm:"column:booking_type;not null;index" json:"booking_type"`
	ItemRef     string `gorm:"column:item_ref;not null" json:"item_ref"`

	Details  datatypes.JSON `gorm:"type:jsonb;column:details;not null;default:'{}'" json:"details"`
	Amount   float64        `gorm:"column:amount;not null" json:"amount"`
	Currency string         `gorm:"column:currency;not null;default:'USD'" json:"currency"`
	Status   string         `gorm:"column:status;not null;default:'pending';index" json:"status"`

	PaymentID *uuid.UUID `gorm:"type:uuid;column:payment_id;index" json:"payment_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Booking) TableName() string { return "booking" }

// Cancellable reports whether the status lifecycle still permits cancellation.
func (b *Booking) Cancellable() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}
