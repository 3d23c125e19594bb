package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
)

func TestEngine_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("should create a user with the welcome bonus and sign them in", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		user, err := h.engine.Register(ctx, Registration{Name: "rahim", Phone: "01711111111"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "100.00", user.GetWallet())
		assert.Equal(t, user.Wallet(), user.InitialWallet())
		assert.Equal(t, "rahim", user.GameName)
		assert.Equal(t, "01711111111@ludotaka.com", user.Email)
		assert.Equal(t, entity.RoleUser, user.Role)

		current, err := h.engine.CurrentUser()
		require.NoError(t, err)
		assert.Equal(t, user.ID, current.ID)
	})

	t.Run("should reject a duplicate handle without touching the registry", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		before, err := h.engine.ListUsers(ctx, adminID)
		require.NoError(t, err)

		// Act
		_, err = h.engine.Register(ctx, Registration{Name: "admin", Phone: "01799999999"})

		// Assert
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, errs.KindConflict, errs.KindOf(err))
		after, err := h.engine.ListUsers(ctx, adminID)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("should reject a duplicate phone", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.engine.Register(ctx, Registration{Name: "newbie", Phone: "01700000000"})
		assert.ErrorIs(t, err, errs.ErrDuplicatePhone)
	})

	t.Run("should refuse a handle that already holds a seat", func(t *testing.T) {
		// Arrange: tarek_ludo is a seeded Daily Mega Cup participant
		h := newHarness(t)

		// Act
		_, err := h.engine.Register(ctx, Registration{Name: "tarek_ludo", Phone: "01799999998"})

		// Assert
		assert.ErrorIs(t, err, errs.ErrHandleHoldsSeat)
		assert.Equal(t, errs.KindConflict, errs.KindOf(err))
		assert.ErrorIs(t, h.engine.CheckAvailable(ctx, "tarek_ludo", "01799999998"), errs.ErrConflict)
		_, err = h.engine.FindUserByName(ctx, "tarek_ludo")
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("should refuse the handle of a deleted user who kept a seat", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		player := h.register(t, "gone_soon", "01799999997")
		_, err := h.engine.JoinTournament(ctx, player.ID, "1001")
		require.NoError(t, err)
		require.NoError(t, h.engine.DeleteUser(ctx, adminID, player.ID))

		// Act
		_, err = h.engine.Register(ctx, Registration{Name: "gone_soon", Phone: "01799999996"})

		// Assert
		assert.ErrorIs(t, err, errs.ErrHandleHoldsSeat)
	})

	t.Run("should validate the phone format", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.engine.Register(ctx, Registration{Name: "newbie", Phone: "0171234"})
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})
}

func TestEngine_SignInSignOut(t *testing.T) {
	ctx := context.Background()

	t.Run("should fail for an unknown handle", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.engine.SignIn(ctx, "nobody")
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("should load and clear the session", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		user, err := h.engine.SignIn(ctx, "admin")
		require.NoError(t, err)
		require.NoError(t, h.engine.SignOut(ctx))

		// Assert
		assert.Equal(t, adminID, user.ID)
		_, err = h.engine.CurrentUser()
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
		persisted, err := h.repos.Sessions.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, persisted)
	})
}

func TestEngine_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("should write through to the registry and the session", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		user := h.register(t, "profile", "01711112222")
		gameName := "Ludo King"
		phone := "01711113333"

		// Act
		updated, err := h.engine.UpdateProfile(ctx, user.ID, ProfileUpdate{GameName: &gameName, Phone: &phone})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, gameName, updated.GameName)
		assert.Equal(t, phone, updated.Phone)
		current, err := h.engine.CurrentUser()
		require.NoError(t, err)
		assert.Equal(t, gameName, current.GameName)
		registry, err := h.engine.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, phone, registry.Phone)
	})

	t.Run("should reject a phone owned by someone else", func(t *testing.T) {
		h := newHarness(t)
		user := h.register(t, "profile2", "01711114444")
		phone := "01700000000"
		_, err := h.engine.UpdateProfile(ctx, user.ID, ProfileUpdate{Phone: &phone})
		assert.ErrorIs(t, err, errs.ErrDuplicatePhone)
	})

	t.Run("should reject an empty game name", func(t *testing.T) {
		h := newHarness(t)
		empty := "  "
		_, err := h.engine.UpdateProfile(ctx, adminID, ProfileUpdate{GameName: &empty})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestEngine_Settings(t *testing.T) {
	ctx := context.Background()

	t.Run("should default to the dark theme and persist a change", func(t *testing.T) {
		h := newHarness(t)

		theme, err := h.engine.Theme(ctx)
		require.NoError(t, err)
		assert.Equal(t, entity.DefaultTheme, theme)

		require.NoError(t, h.engine.SetTheme(ctx, "light"))
		theme, err = h.engine.Theme(ctx)
		require.NoError(t, err)
		assert.Equal(t, entity.ThemeLight, theme)

		assert.ErrorIs(t, h.engine.SetTheme(ctx, "purple"), errs.ErrValidation)
	})

	t.Run("should set and clear the global notice", func(t *testing.T) {
		h := newHarness(t)

		require.NoError(t, h.engine.SetGlobalNotice(ctx, adminID, "  Server maintenance at 9pm  "))
		notice, err := h.engine.GlobalNotice(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Server maintenance at 9pm", notice)

		require.NoError(t, h.engine.SetGlobalNotice(ctx, adminID, ""))
		notice, err = h.engine.GlobalNotice(ctx)
		require.NoError(t, err)
		assert.Empty(t, notice)
	})

	t.Run("should forbid notice changes by players", func(t *testing.T) {
		h := newHarness(t)
		player := h.register(t, "noticer", "01711115555")
		assert.ErrorIs(t, h.engine.SetGlobalNotice(ctx, player.ID, "hi"), errs.ErrForbidden)
	})
}

func TestEngine_Notifications(t *testing.T) {
	ctx := context.Background()

	t.Run("should push newest first and mark all read", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		_, err := h.engine.PushNotification(ctx, adminID, NotificationInput{Title: "First"})
		require.NoError(t, err)
		h.clock.Advance(time.Minute)
		_, err = h.engine.PushNotification(ctx, adminID, NotificationInput{Title: "Second", Type: "warning"})
		require.NoError(t, err)

		// Act
		changed, err := h.engine.MarkAllNotificationsRead(ctx)
		require.NoError(t, err)
		again, err := h.engine.MarkAllNotificationsRead(ctx)
		require.NoError(t, err)

		// Assert
		assert.Equal(t, 2, changed)
		assert.Equal(t, 0, again)
		list, err := h.engine.ListNotifications(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Second", list[0].Title)
		assert.Equal(t, entity.NotificationWarning, list[0].Type)
		for _, n := range list {
			assert.True(t, n.IsRead)
		}
	})

	t.Run("should validate title and type", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.engine.PushNotification(ctx, adminID, NotificationInput{Title: ""})
		assert.ErrorIs(t, err, errs.ErrValidation)
		_, err = h.engine.PushNotification(ctx, adminID, NotificationInput{Title: "x", Type: "loud"})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestEngine_UserAdministration(t *testing.T) {
	ctx := context.Background()

	t.Run("should delete a user with their ledger and history", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		player := h.register(t, "doomed", "01711116666")
		_, err := h.engine.JoinTournament(ctx, player.ID, "1001")
		require.NoError(t, err)

		// Act
		err = h.engine.DeleteUser(ctx, adminID, player.ID)

		// Assert
		require.NoError(t, err)
		_, err = h.engine.GetUser(ctx, player.ID)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
		entries, err := h.repos.Transactions.Load(ctx, player.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
		history, err := h.repos.History.Load(ctx, player.ID)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("should forbid deleting yourself", func(t *testing.T) {
		h := newHarness(t)
		assert.ErrorIs(t, h.engine.DeleteUser(ctx, adminID, adminID), errs.ErrForbidden)
	})

	t.Run("should promote a user and forbid self demotion", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		player := h.register(t, "promoted", "01711117777")

		// Act
		updated, err := h.engine.SetRole(ctx, adminID, player.ID, "admin")

		// Assert
		require.NoError(t, err)
		assert.True(t, updated.IsAdmin())
		_, err = h.engine.SetRole(ctx, adminID, adminID, "user")
		assert.ErrorIs(t, err, errs.ErrForbidden)
		_, err = h.engine.SetRole(ctx, adminID, player.ID, "overlord")
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("should list users for admins only", func(t *testing.T) {
		h := newHarness(t)
		player := h.register(t, "curious", "01711118888")
		_, err := h.engine.ListUsers(ctx, player.ID)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestEngine_TournamentAdministration(t *testing.T) {
	ctx := context.Background()

	t.Run("should create at the head of the catalog with a default start", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		created, err := h.engine.CreateTournament(ctx, adminID, TournamentInput{
			Title:     "Night Cup",
			EntryFee:  "30",
			PrizePool: "100",
			Slots:     4,
			Type:      string(entity.TournamentFourPlayer),
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 0, created.SlotsFilled())
		assert.Equal(t, entity.TournamentAvailable, created.Status)
		assert.Equal(t, entity.DefaultMap, created.Map)
		assert.Equal(t, testStart.Add(DefaultStartDelay), created.StartTime)
		list, err := h.engine.ListTournaments(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, created.ID, list[0].ID)
	})

	t.Run("should reject invalid tournament input", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.engine.CreateTournament(ctx, adminID, TournamentInput{
			Title: "Bad", EntryFee: "-1", PrizePool: "0", Slots: 2, Type: "1vs1",
		})
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		_, err = h.engine.CreateTournament(ctx, adminID, TournamentInput{
			Title: "Bad", EntryFee: "1", PrizePool: "0", Slots: 0, Type: "1vs1",
		})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("should not shrink slots below the filled count", func(t *testing.T) {
		h := newHarness(t)
		slots := 1
		_, err := h.engine.EditTournament(ctx, adminID, "1001", TournamentPatch{Slots: &slots})
		assert.ErrorIs(t, err, errs.ErrValidation)

		unchanged, err := h.engine.GetTournament(ctx, "1001")
		require.NoError(t, err)
		assert.Equal(t, 4, unchanged.Slots)
	})

	t.Run("should keep joined ids after a tournament is deleted", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		player := h.register(t, "keeper", "01711119999")
		_, err := h.engine.JoinTournament(ctx, player.ID, "1001")
		require.NoError(t, err)
		_, err = h.engine.JoinTournament(ctx, player.ID, "1002")
		require.NoError(t, err)

		// Act
		require.NoError(t, h.engine.DeleteTournament(ctx, adminID, "1001"))

		// Assert
		user, err := h.engine.GetUser(ctx, player.ID)
		require.NoError(t, err)
		assert.Contains(t, user.JoinedMatchIDs(), "1001")
		mine, err := h.engine.MyTournaments(ctx, player.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "1002", mine[0].ID)

		assert.ErrorIs(t, h.engine.DeleteTournament(ctx, adminID, "1001"), errs.ErrTournamentNotFound)
	})

	t.Run("should list my tournaments by start time", func(t *testing.T) {
		// Arrange: Quick Duel starts before Mega Cup
		h := newHarness(t)
		player := h.register(t, "sorted", "01711110000")
		_, err := h.engine.JoinTournament(ctx, player.ID, "1001")
		require.NoError(t, err)
		_, err = h.engine.JoinTournament(ctx, player.ID, "1002")
		require.NoError(t, err)

		// Act
		mine, err := h.engine.MyTournaments(ctx, player.ID)

		// Assert
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, "1002", mine[0].ID)
		assert.Equal(t, "1001", mine[1].ID)
	})
}
