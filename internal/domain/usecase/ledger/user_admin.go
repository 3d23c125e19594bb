package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
)

// NotificationInput describes an administrator broadcast
type NotificationInput struct {
	Title   string
	Message string
	Type    string
}

// DeleteUser removes a user with their ledger and match history
func (e *Engine) DeleteUser(ctx context.Context, actorID, targetUserID string) error {
	return e.mutate(ctx, "delete_user", map[string]any{
		"actor_id": actorID,
		"user_id":  targetUserID,
	}, func(t *tx) error {
		if _, err := t.Admin(actorID); err != nil {
			return err
		}
		if actorID == targetUserID {
			return fmt.Errorf("%w: administrators cannot delete themselves", errs.ErrForbidden)
		}

		users, err := t.Users()
		if err != nil {
			return err
		}
		if _, ok := users.ByID(targetUserID); !ok {
			return errs.ErrUserNotFound
		}

		t.ReplaceUsers(users.Without(targetUserID))
		if err := t.SaveUsers(); err != nil {
			return err
		}
		e.repos.Transactions.StageDelete(t.cs, targetUserID)
		e.repos.History.StageDelete(t.cs, targetUserID)
		return nil
	})
}

// SetRole changes the role of a user
func (e *Engine) SetRole(ctx context.Context, actorID, targetUserID, role string) (*entity.User, error) {
	var updated *entity.User

	err := e.mutate(ctx, "set_role", map[string]any{
		"actor_id": actorID,
		"user_id":  targetUserID,
		"role":     role,
	}, func(t *tx) error {
		if _, err := t.Admin(actorID); err != nil {
			return err
		}
		if !entity.IsValidRole(role) {
			return errs.NewValidationError("role", "unknown role "+role)
		}
		if actorID == targetUserID && entity.Role(role) != entity.RoleAdmin {
			return fmt.Errorf("%w: administrators cannot demote themselves", errs.ErrForbidden)
		}

		user, err := t.User(targetUserID)
		if err != nil {
			return err
		}
		user.Role = entity.Role(role)
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

// SetGlobalNotice replaces the ticker text; an empty text clears it
func (e *Engine) SetGlobalNotice(ctx context.Context, actorID, text string) error {
	return e.mutate(ctx, "set_global_notice", map[string]any{
		"actor_id": actorID,
	}, func(t *tx) error {
		if _, err := t.Admin(actorID); err != nil {
			return err
		}
		return e.repos.Settings.StageNotice(t.cs, strings.TrimSpace(text))
	})
}

// PushNotification adds an administrator message to the notification log
func (e *Engine) PushNotification(ctx context.Context, actorID string, in NotificationInput) (*entity.Notification, error) {
	var pushed *entity.Notification

	err := e.mutate(ctx, "push_notification", map[string]any{
		"actor_id": actorID,
		"title":    in.Title,
	}, func(t *tx) error {
		if _, err := t.Admin(actorID); err != nil {
			return err
		}
		if strings.TrimSpace(in.Title) == "" {
			return errs.NewValidationError("title", "must not be empty")
		}
		nType := entity.NotificationInfo
		if in.Type != "" {
			if !entity.IsValidNotificationType(in.Type) {
				return errs.NewValidationError("type", in.Type)
			}
			nType = entity.NotificationType(in.Type)
		}

		n, err := t.Notify(in.Title, in.Message, nType)
		if err != nil {
			return err
		}
		pushed = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pushed, nil
}
