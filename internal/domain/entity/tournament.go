package entity

import (
	"fmt"
	"slices"
	"time"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
)

// TournamentStatus is set by an administrator, never derived from time
type TournamentStatus string

// Tournament statuses
const (
	TournamentAvailable TournamentStatus = "available"
	TournamentLive      TournamentStatus = "live"
	TournamentComplete  TournamentStatus = "complete"
)

// TournamentType is the match format
type TournamentType string

// Tournament types
const (
	TournamentOneVsOne   TournamentType = "1vs1"
	TournamentTwoVsTwo   TournamentType = "2vs2"
	TournamentFourPlayer TournamentType = "4player"
)

// DefaultMap is used when a tournament is created without a map
const DefaultMap = "Classic"

// IsValidTournamentStatus validates a status string
func IsValidTournamentStatus(s string) bool {
	switch TournamentStatus(s) {
	case TournamentAvailable, TournamentLive, TournamentComplete:
		return true
	}
	return false
}

// IsValidTournamentType validates a type string
func IsValidTournamentType(s string) bool {
	switch TournamentType(s) {
	case TournamentOneVsOne, TournamentTwoVsTwo, TournamentFourPlayer:
		return true
	}
	return false
}

// Tournament is a joinable event with limited slots and an entry fee
type Tournament struct {
	ID        string
	Title     string
	EntryFee  int64 // Minor units
	PrizePool int64 // Minor units
	Slots     int
	StartTime time.Time
	Status    TournamentStatus
	Map       string
	Type      TournamentType
	RoomCode  string

	slotsFilled  int
	participants []string // Ordered handles, len == slotsFilled
}

// NewTournament creates an empty tournament after validating its fields
func NewTournament(id, title string, entryFee, prizePool int64, slots int, start time.Time, status TournamentStatus, mapName string, tType TournamentType, roomCode string) (*Tournament, error) {
	t := &Tournament{
		ID:        id,
		Title:     title,
		EntryFee:  entryFee,
		PrizePool: prizePool,
		Slots:     slots,
		StartTime: start,
		Status:    status,
		Map:       mapName,
		Type:      tType,
		RoomCode:  roomCode,
	}
	if t.Map == "" {
		t.Map = DefaultMap
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// RestoreTournament rebuilds a tournament from persisted state (for repositories)
func RestoreTournament(t Tournament, slotsFilled int, participants []string) *Tournament {
	t.slotsFilled = slotsFilled
	t.participants = slices.Clone(participants)
	return &t
}

// Validate checks the editable fields
func (t *Tournament) Validate() error {
	switch {
	case t.ID == "":
		return errs.NewValidationError("id", "must not be empty")
	case t.Title == "":
		return errs.NewValidationError("title", "must not be empty")
	case t.EntryFee < 0:
		return fmt.Errorf("%w: entry fee cannot be negative", errs.ErrInvalidAmount)
	case t.PrizePool < 0:
		return fmt.Errorf("%w: prize pool cannot be negative", errs.ErrInvalidAmount)
	case t.Slots <= 0:
		return errs.NewValidationError("slots", "must be positive")
	case t.Slots < t.slotsFilled:
		return errs.NewValidationError("slots", fmt.Sprintf("cannot be below the %d filled slots", t.slotsFilled))
	case !IsValidTournamentStatus(string(t.Status)):
		return errs.NewValidationError("status", string(t.Status))
	case !IsValidTournamentType(string(t.Type)):
		return errs.NewValidationError("type", string(t.Type))
	}
	return nil
}

// SlotsFilled returns the number of taken slots
func (t *Tournament) SlotsFilled() int {
	return t.slotsFilled
}

// Participants returns a copy of the joined handles in join order
func (t *Tournament) Participants() []string {
	return slices.Clone(t.participants)
}

// HasParticipant reports whether handle already joined
func (t *Tournament) HasParticipant(handle string) bool {
	return slices.Contains(t.participants, handle)
}

// IsJoinable reports whether the tournament accepts another participant
func (t *Tournament) IsJoinable() bool {
	return t.Status == TournamentAvailable && t.slotsFilled < t.Slots
}

// AddParticipant takes one slot for handle
func (t *Tournament) AddParticipant(handle string) error {
	if t.HasParticipant(handle) {
		return fmt.Errorf("%w: %s already joined %s", errs.ErrConflict, handle, t.ID)
	}
	if !t.IsJoinable() {
		return errs.NewUnavailableError(t.ID, string(t.Status), t.slotsFilled, t.Slots)
	}
	t.participants = append(t.participants, handle)
	t.slotsFilled++
	return nil
}

// CheckConsistency verifies the slot and participant bookkeeping
func (t *Tournament) CheckConsistency() error {
	if len(t.participants) != t.slotsFilled {
		return fmt.Errorf("tournament %s: %d participants but %d slots filled", t.ID, len(t.participants), t.slotsFilled)
	}
	if t.slotsFilled < 0 || t.slotsFilled > t.Slots {
		return fmt.Errorf("tournament %s: %d slots filled out of %d", t.ID, t.slotsFilled, t.Slots)
	}
	seen := make(map[string]struct{}, len(t.participants))
	for _, p := range t.participants {
		if _, dup := seen[p]; dup {
			return fmt.Errorf("tournament %s: participant %s appears twice", t.ID, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// Clone returns an independent copy of the tournament
func (t *Tournament) Clone() *Tournament {
	c := *t
	c.participants = slices.Clone(t.participants)
	return &c
}

// TournamentList is the in-memory form of the tournament catalog
type TournamentList []*Tournament

// ByID finds a tournament by id
func (l TournamentList) ByID(id string) (*Tournament, bool) {
	for _, t := range l {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// HoldsSeat reports whether handle appears in any tournament's participant list
func (l TournamentList) HoldsSeat(handle string) bool {
	for _, t := range l {
		if t.HasParticipant(handle) {
			return true
		}
	}
	return false
}

// Without returns the catalog minus the tournament with id
func (l TournamentList) Without(id string) TournamentList {
	out := make(TournamentList, 0, len(l))
	for _, t := range l {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
