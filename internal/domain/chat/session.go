package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// ChatSession is one recommendation conversation. Created lazily on the
// first message; the partial unique index holds the at-most-one-active-
// session-per-user invariant against concurrent creates.
type ChatSession struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_chat_session_active_user,where:status = 'active' AND deleted_at IS NULL" json:"user_id"`

	Title  string `gorm:"column:title;not null;default:'New Conversation'" json:"title"`
	Status string `gorm:"column:status;not null;default:'active';index" json:"status"`

	// Context carries accumulated trip constraints fed back to the LLM each turn.
	Context datatypes.JSON `gorm:"type:jsonb;column:context;not null;default:'{}'" json:"context,omitempty"`

	TurnCount int `gorm:"column:turn_count;not null;default:0" json:"turn_count"`
	MaxTurns  int `gorm:"column:max_turns;not null;default:50" json:"max_turns"`

	// NextSeq hands out message sequence numbers under a row lock.
	NextSeq int64 `gorm:"column:next_seq;not null;default:0" json:"-"`

	LastMessageAt time.Time `gorm:"column:last_message_at;not null;default:now();index" json:"last_message_at"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChatSession) TableName() string { return "chat_session" }
