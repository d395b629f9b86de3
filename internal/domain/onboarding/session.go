package onboarding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// OnboardingSession walks a new user through a fixed number of preference
// questions. CurrentStep is the only step whose answer is accepted; stale or
// out-of-order submissions are rejected without touching state.
type OnboardingSession struct {
	// The partial unique index keeps one in-progress interview per user
	// even under concurrent starts.
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_onboarding_session_active_user,where:completed_at IS NULL" json:"user_id"`

	Status string `gorm:"column:status;not null;default:'active';index" json:"status"`

	CurrentStep int `gorm:"column:current_step;not null;default:1" json:"current_step"`
	TotalSteps  int `gorm:"column:total_steps;not null;default:5" json:"total_steps"`

	// CurrentQuestion is the text presented for CurrentStep, kept so retries
	// after a provider failure re-serve the same question.
	CurrentQuestion string `gorm:"column:current_question;type:text;not null;default:''" json:"current_question"`

	// Answers accumulates {step, question, answer} objects in order.
	Answers datatypes.JSON `gorm:"type:jsonb;column:answers;not null;default:'[]'" json:"answers"`

	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (OnboardingSession) TableName() string { return "onboarding_session" }
