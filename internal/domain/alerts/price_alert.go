package alerts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Direction tells which side of the threshold fires the alert.
type Direction string

const (
	DirectionBelow Direction = "below"
	DirectionAbove Direction = "above"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionBelow, DirectionAbove:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

type PriceAlert struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	ItemType string `gorm:"column:item_type;not null" json:"item_type"`
	ItemID   string `gorm:"column:item_id;not null;index" json:"item_id"`

	Threshold float64   `gorm:"column:threshold;not null" json:"threshold"`
	Direction Direction `gorm:"column:direction;not null" json:"direction"`
	Currency  string    `gorm:"column:currency;not null;default:'USD'" json:"currency"`

	// CurrentPrice is the last observed value, persisted on every evaluation
	// whether or not the alert fired.
	CurrentPrice *float64 `gorm:"column:current_price" json:"current_price,omitempty"`

	Active       bool       `gorm:"column:active;not null;default:true;index" json:"active"`
	Triggered    bool       `gorm:"column:triggered;not null;default:false" json:"triggered"`
	TriggeredAt  *time.Time `gorm:"column:triggered_at" json:"triggered_at,omitempty"`
	TriggerCount int        `gorm:"column:trigger_count;not null;default:0" json:"trigger_count"`

	// RepeatNotify controls re-firing: when false the alert deactivates after
	// its first trigger instead of notifying on every sweep.
	RepeatNotify bool `gorm:"column:repeat_notify;not null;default:false" json:"repeat_notify"`

	ExpiresAt *time.Time `gorm:"column:expires_at;index" json:"expires_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PriceAlert) TableName() string { return "price_alert" }

func (a *PriceAlert) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}
