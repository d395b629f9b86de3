package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	FirstName string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName  string    `gorm:"not null;column:last_name" json:"last_name"`

	AvatarColor string `gorm:"column:avatar_color" json:"avatar_color"`
	AvatarPNG   []byte `gorm:"type:bytea;column:avatar_png" json:"-"`

	HomeAirport string `gorm:"column:home_airport" json:"home_airport"`
	Currency    string `gorm:"column:currency;not null;default:'USD'" json:"currency"`

	// Preferences holds the derived travel profile written back on onboarding
	// completion (budget band, travel style, interests).
	Preferences         datatypes.JSON `gorm:"type:jsonb;column:preferences;not null;default:'{}'" json:"preferences,omitempty"`
	OnboardingCompleted bool           `gorm:"column:onboarding_completed;not null;default:false" json:"onboarding_completed"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "user" }
