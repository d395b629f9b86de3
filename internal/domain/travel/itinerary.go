package travel

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Itinerary struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Title       string `gorm:"column:title;not null" json:"title"`
	Destination string `gorm:"column:destination;not null;default:''" json:"destination"`
	Status      string `gorm:"column:status;not null;default:'draft';index" json:"status"`

	StartDate *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`

	// Items is the ordered day-by-day plan (flights, stays, activities).
	Items datatypes.JSON `gorm:"type:jsonb;column:items;not null;default:'[]'" json:"items"`
	Notes string         `gorm:"column:notes;type:text;not null;default:''" json:"notes"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Itinerary) TableName() string { return "itinerary" }
