package travel

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Favorite is a user-saved item. At most one row per (user, item_type, item_id);
// the composite unique index is the arbiter under concurrent creates.
type Favorite struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_favorite_user_item,unique,priority:1" json:"user_id"`

	ItemType ItemType `gorm:"column:item_type;not null;index:idx_favorite_user_item,unique,priority:2" json:"item_type"`
	ItemID   string   `gorm:"column:item_id;not null;index:idx_favorite_user_item,unique,priority:3" json:"item_id"`

	Payload datatypes.JSON `gorm:"type:jsonb;column:payload;not null;default:'{}'" json:"payload,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Favorite) TableName() string { return "favorite" }
