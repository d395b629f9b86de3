package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/repos"
	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/ctxutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
)

// UserUpdate is the PATCH payload for the profile. Absent fields are
// left untouched.
type UserUpdate struct {
	FirstName   OptionalString `json:"first_name"`
	LastName    OptionalString `json:"last_name"`
	HomeAirport OptionalString `json:"home_airport"`
	Currency    OptionalString `json:"currency"`
	AvatarColor OptionalString `json:"avatar_color"`
}

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateMe(ctx context.Context, patch UserUpdate) (*types.User, error)
	GetAvatarPNG(ctx context.Context) ([]byte, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService) UserService {
	return &userService{
		db:            db,
		log:           log.With("service", "UserService"),
		userRepo:      userRepo,
		avatarService: avatarService,
	}
}

func (us *userService) currentUser(ctx context.Context, dbc dbctx.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("no principal in context")
	}
	users, err := us.userRepo.GetByIDs(dbc, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user not found")
	}
	return users[0], nil
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	return us.currentUser(ctx, dbctx.Context{Ctx: ctx})
}

func (us *userService) UpdateMe(ctx context.Context, patch UserUpdate) (*types.User, error) {
	updates := map[string]any{}
	if patch.FirstName.Set {
		if patch.FirstName.Value == nil {
			return nil, apierr.Validation("first_name cannot be empty")
		}
		updates["first_name"] = *patch.FirstName.Value
	}
	if patch.LastName.Set {
		if patch.LastName.Value == nil {
			return nil, apierr.Validation("last_name cannot be empty")
		}
		updates["last_name"] = *patch.LastName.Value
	}
	if patch.HomeAirport.Set {
		v := ""
		if patch.HomeAirport.Value != nil {
			v = strings.ToUpper(*patch.HomeAirport.Value)
		}
		updates["home_airport"] = v
	}
	if patch.Currency.Set {
		if patch.Currency.Value == nil {
			return nil, apierr.Validation("currency cannot be empty")
		}
		cur := strings.ToUpper(strings.TrimSpace(*patch.Currency.Value))
		if len(cur) != 3 {
			return nil, apierr.Validation("currency must be a 3-letter code")
		}
		updates["currency"] = cur
	}
	if patch.AvatarColor.Set {
		if patch.AvatarColor.Value == nil {
			return nil, apierr.Validation("avatar_color cannot be empty")
		}
		hexColor := normalizeHex(*patch.AvatarColor.Value)
		if hexColor == "" {
			return nil, apierr.Validation("avatar_color must be a #RRGGBB hex color")
		}
		updates["avatar_color"] = hexColor
	}
	if len(updates) == 0 {
		return us.GetMe(ctx)
	}

	var out *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		user, err := us.currentUser(ctx, dbc)
		if err != nil {
			return err
		}
		if err := us.userRepo.UpdateFields(dbc, user.ID, updates); err != nil {
			return fmt.Errorf("update user: %w", err)
		}

		// Name and color changes invalidate the rendered initials avatar.
		rerender := false
		if v, ok := updates["first_name"]; ok {
			user.FirstName = v.(string)
			rerender = true
		}
		if v, ok := updates["last_name"]; ok {
			user.LastName = v.(string)
			rerender = true
		}
		if v, ok := updates["avatar_color"]; ok {
			user.AvatarColor = v.(string)
			rerender = true
		}
		if rerender {
			if err := us.avatarService.CreateUserAvatar(dbc, user); err != nil {
				return fmt.Errorf("regenerate avatar: %w", err)
			}
		}

		fresh, err := us.currentUser(ctx, dbc)
		if err != nil {
			return err
		}
		out = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (us *userService) GetAvatarPNG(ctx context.Context) ([]byte, error) {
	user, err := us.GetMe(ctx)
	if err != nil {
		return nil, err
	}
	if len(user.AvatarPNG) == 0 {
		return nil, apierr.NotFound("avatar not generated")
	}
	return user.AvatarPNG, nil
}
