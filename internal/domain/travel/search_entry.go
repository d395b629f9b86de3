package travel

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SearchEntry coalesces repeated identical searches: re-recording the same
// (user, search_type, params_hash) bumps Count and LastSearchedAt instead of
// inserting a second row.
type SearchEntry struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_search_entry_user_params,unique,priority:1" json:"user_id"`

	SearchType SearchType `gorm:"column:search_type;not null;index:idx_search_entry_user_params,unique,priority:2" json:"search_type"`

	// ParamsHash is the canonical sha256 of Params, computed at the service
	// boundary so the unique index has a stable key.
	ParamsHash string         `gorm:"column:params_hash;not null;index:idx_search_entry_user_params,unique,priority:3" json:"-"`
	Params     datatypes.JSON `gorm:"type:jsonb;column:params;not null;default:'{}'" json:"params"`

	Count          int       `gorm:"column:count;not null;default:1" json:"count"`
	LastSearchedAt time.Time `gorm:"column:last_searched_at;not null;default:now();index" json:"last_searched_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SearchEntry) TableName() string { return "search_entry" }
