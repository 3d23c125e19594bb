package dto

import (
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
)

// TournamentResponse is the public view of a tournament
type TournamentResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	EntryFee         string    `json:"entryFee"`
	PrizePool        string    `json:"prizePool"`
	Slots            int       `json:"slots"`
	SlotsFilled      int       `json:"slotsFilled"`
	StartTime        time.Time `json:"startTime"`
	Status           string    `json:"status"`
	Map              string    `json:"map"`
	Type             string    `json:"type"`
	RoomCode         string    `json:"roomCode"`
	ParticipantNames []string  `json:"participantNames"`
}

// NewTournamentResponse maps a tournament entity
func NewTournamentResponse(t *entity.Tournament) TournamentResponse {
	return TournamentResponse{
		ID:               t.ID,
		Title:            t.Title,
		EntryFee:         entity.FormatAmount(t.EntryFee),
		PrizePool:        entity.FormatAmount(t.PrizePool),
		Slots:            t.Slots,
		SlotsFilled:      t.SlotsFilled(),
		StartTime:        t.StartTime,
		Status:           string(t.Status),
		Map:              t.Map,
		Type:             string(t.Type),
		RoomCode:         t.RoomCode,
		ParticipantNames: t.Participants(),
	}
}

// NewTournamentListResponse maps a catalog
func NewTournamentListResponse(list entity.TournamentList) []TournamentResponse {
	out := make([]TournamentResponse, 0, len(list))
	for _, t := range list {
		out = append(out, NewTournamentResponse(t))
	}
	return out
}

// TournamentRequest creates a tournament
type TournamentRequest struct {
	Title     string     `json:"title" binding:"required"`
	EntryFee  string     `json:"entryFee"`
	PrizePool string     `json:"prizePool"`
	Slots     int        `json:"slots" binding:"required,gt=0"`
	StartTime *time.Time `json:"startTime"`
	Status    string     `json:"status"`
	Map       string     `json:"map"`
	Type      string     `json:"type" binding:"required"`
	RoomCode  string     `json:"roomCode"`
}

// TournamentPatchRequest edits a tournament; omitted fields stay unchanged
type TournamentPatchRequest struct {
	Title     *string    `json:"title"`
	EntryFee  *string    `json:"entryFee"`
	PrizePool *string    `json:"prizePool"`
	Slots     *int       `json:"slots"`
	StartTime *time.Time `json:"startTime"`
	Status    *string    `json:"status"`
	Map       *string    `json:"map"`
	Type      *string    `json:"type"`
	RoomCode  *string    `json:"roomCode"`
}

// JoinResponse reports a join; joined is false for a repeated join
type JoinResponse struct {
	Joined     bool               `json:"joined"`
	User       UserResponse       `json:"user"`
	Tournament TournamentResponse `json:"tournament"`
}
