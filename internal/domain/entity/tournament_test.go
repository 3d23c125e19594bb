package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTournament(t *testing.T) {
	start := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

	t.Run("Defaults map", func(t *testing.T) {
		tr, err := NewTournament("t-1", "Weekend Cup", 5000, 18000, 4, start, TournamentAvailable, "", TournamentFourPlayer, "")

		require.NoError(t, err)
		assert.Equal(t, DefaultMap, tr.Map)
		assert.Equal(t, 0, tr.SlotsFilled())
		assert.True(t, tr.IsJoinable())
	})

	t.Run("Validation", func(t *testing.T) {
		testCases := []struct {
			name    string
			fee     int64
			slots   int
			status  TournamentStatus
			tType   TournamentType
			wantErr error
		}{
			{"Negative fee", -1, 4, TournamentAvailable, TournamentOneVsOne, errs.ErrInvalidAmount},
			{"Zero slots", 0, 0, TournamentAvailable, TournamentOneVsOne, errs.ErrValidation},
			{"Bad status", 0, 2, TournamentStatus("open"), TournamentOneVsOne, errs.ErrValidation},
			{"Bad type", 0, 2, TournamentAvailable, TournamentType("3v3"), errs.ErrValidation},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewTournament("t-1", "Cup", tc.fee, 0, tc.slots, start, tc.status, "", tc.tType, "")
				assert.ErrorIs(t, err, tc.wantErr)
			})
		}
	})
}

func TestTournamentParticipants(t *testing.T) {
	tr := RestoreTournament(Tournament{
		ID:     "1002",
		Title:  "Quick Duel",
		Slots:  2,
		Status: TournamentAvailable,
		Type:   TournamentOneVsOne,
	}, 1, []string{"rahim_hero"})

	require.NoError(t, tr.CheckConsistency())
	assert.True(t, tr.HasParticipant("rahim_hero"))

	err := tr.AddParticipant("rahim_hero")
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, 1, tr.SlotsFilled())

	require.NoError(t, tr.AddParticipant("sakib_boss"))
	assert.Equal(t, 2, tr.SlotsFilled())
	assert.Equal(t, []string{"rahim_hero", "sakib_boss"}, tr.Participants())
	assert.False(t, tr.IsJoinable())

	err = tr.AddParticipant("tarek_ludo")
	assert.ErrorIs(t, err, errs.ErrUnavailable)
	require.NoError(t, tr.CheckConsistency())

	tr.Slots = 1
	assert.ErrorIs(t, tr.Validate(), errs.ErrValidation)
}

func TestTournamentStatusGate(t *testing.T) {
	tr := RestoreTournament(Tournament{ID: "t", Title: "t", Slots: 4, Status: TournamentLive, Type: TournamentTwoVsTwo}, 0, nil)

	assert.False(t, tr.IsJoinable())
	assert.ErrorIs(t, tr.AddParticipant("x"), errs.ErrUnavailable)
}

func TestTournamentConsistency(t *testing.T) {
	broken := RestoreTournament(Tournament{ID: "t", Slots: 4}, 3, []string{"a", "b"})
	assert.Error(t, broken.CheckConsistency())

	dup := RestoreTournament(Tournament{ID: "t", Slots: 4}, 2, []string{"a", "a"})
	assert.Error(t, dup.CheckConsistency())
}
