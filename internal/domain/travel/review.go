package travel

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is one user's rating of an item. One review per (user, item_type, item_id).
type Review struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_review_user_item,unique,priority:1" json:"user_id"`

	ItemType ItemType `gorm:"column:item_type;not null;index:idx_review_user_item,unique,priority:2" json:"item_type"`
	ItemID   string   `gorm:"column:item_id;not null;index;index:idx_review_user_item,unique,priority:3" json:"item_id"`

	Rating int    `gorm:"column:rating;not null" json:"rating"`
	Title  string `gorm:"column:title;not null;default:''" json:"title"`
	Body   string `gorm:"column:body;type:text;not null;default:''" json:"body"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Review) TableName() string { return "review" }
