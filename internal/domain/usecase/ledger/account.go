package ledger

import (
	"context"
	"net/url"
	"strings"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
)

// Registration is a verified sign-up form
type Registration struct {
	Name     string
	GameName string
	Phone    string
}

// ProfileUpdate holds the editable profile fields; nil fields are left unchanged
type ProfileUpdate struct {
	GameName *string
	Email    *string
	Phone    *string
	Avatar   *string
}

// Register creates a user with the welcome bonus and signs them in
func (e *Engine) Register(ctx context.Context, reg Registration) (*entity.User, error) {
	var created *entity.User

	err := e.mutate(ctx, "register", map[string]any{
		"name": reg.Name,
	}, func(t *tx) error {
		if err := e.validator.ValidateHandle(reg.Name); err != nil {
			return err
		}
		if err := e.validator.ValidatePhone(reg.Phone); err != nil {
			return err
		}

		users, err := t.Users()
		if err != nil {
			return err
		}
		if _, taken := users.ByName(reg.Name); taken {
			return errs.ErrDuplicateHandle
		}
		if _, taken := users.ByPhone(reg.Phone); taken {
			return errs.ErrDuplicatePhone
		}
		tournaments, err := t.Tournaments()
		if err != nil {
			return err
		}
		if tournaments.HoldsSeat(reg.Name) {
			return errs.ErrHandleHoldsSeat
		}

		gameName := reg.GameName
		if strings.TrimSpace(gameName) == "" {
			gameName = reg.Name
		}
		user, err := entity.NewUser(
			e.ids.NewID(),
			reg.Name,
			gameName,
			reg.Phone,
			reg.Phone+"@"+e.policy.EmailDomain,
			e.policy.AvatarBaseURL+url.QueryEscape(reg.Name),
			entity.RoleUser,
			e.policy.WelcomeBonus,
			e.timeProvider,
		)
		if err != nil {
			return err
		}

		t.ReplaceUsers(append(users, user))
		if err := t.SaveUsers(); err != nil {
			return err
		}
		if err := t.SignIn(user); err != nil {
			return err
		}

		created = user.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SignIn loads the registry record of handle into the session
func (e *Engine) SignIn(ctx context.Context, name string) (*entity.User, error) {
	var signedIn *entity.User

	err := e.mutate(ctx, "sign_in", map[string]any{
		"name": name,
	}, func(t *tx) error {
		users, err := t.Users()
		if err != nil {
			return err
		}
		user, ok := users.ByName(name)
		if !ok {
			return errs.ErrUserNotFound
		}
		if err := t.SignIn(user); err != nil {
			return err
		}

		signedIn = user.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return signedIn, nil
}

// SignOut clears the session
func (e *Engine) SignOut(ctx context.Context) error {
	return e.mutate(ctx, "sign_out", nil, func(t *tx) error {
		t.SignOut()
		return nil
	})
}

// UpdateProfile writes profile changes through to the registry and the session
func (e *Engine) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*entity.User, error) {
	var updated *entity.User

	err := e.mutate(ctx, "update_profile", map[string]any{
		"user_id": userID,
	}, func(t *tx) error {
		user, err := t.User(userID)
		if err != nil {
			return err
		}

		if update.Phone != nil && *update.Phone != user.Phone {
			if err := e.validator.ValidatePhone(*update.Phone); err != nil {
				return err
			}
			users, err := t.Users()
			if err != nil {
				return err
			}
			if _, taken := users.ByPhone(*update.Phone); taken {
				return errs.ErrDuplicatePhone
			}
			user.Phone = *update.Phone
		}
		if update.GameName != nil {
			if strings.TrimSpace(*update.GameName) == "" {
				return errs.NewValidationError("gameName", "must not be empty")
			}
			user.GameName = *update.GameName
		}
		if update.Email != nil {
			user.Email = strings.TrimSpace(*update.Email)
		}
		if update.Avatar != nil {
			user.Avatar = *update.Avatar
		}
		user.UpdatedAt = e.timeProvider.Now()

		if err := t.SaveUsers(user); err != nil {
			return err
		}

		updated = user.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetTheme persists the UI theme preference
func (e *Engine) SetTheme(ctx context.Context, theme string) error {
	return e.mutate(ctx, "set_theme", map[string]any{
		"theme": theme,
	}, func(t *tx) error {
		if !entity.IsValidTheme(theme) {
			return errs.NewValidationError("theme", theme)
		}
		return e.repos.Settings.StageTheme(t.cs, entity.Theme(theme))
	})
}

// MarkAllNotificationsRead flags the whole notification log as read
func (e *Engine) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	changed := 0

	err := e.mutate(ctx, "mark_notifications_read", nil, func(t *tx) error {
		list, err := e.repos.Notifications.Load(ctx)
		if err != nil {
			return err
		}
		changed = entity.MarkAllRead(list)
		if changed == 0 {
			return nil
		}
		return e.repos.Notifications.Stage(t.cs, list)
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}
