package model

import (
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Tournament is the stored form of a catalog entry
type Tournament struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	EntryFee         decimal.Decimal `json:"entryFee"`
	PrizePool        decimal.Decimal `json:"prizePool"`
	Slots            int             `json:"slots"`
	SlotsFilled      int             `json:"slotsFilled"`
	StartTime        time.Time       `json:"startTime"`
	Status           string          `json:"status"`
	Map              string          `json:"map"`
	Type             string          `json:"type"`
	RoomCode         string          `json:"roomCode,omitempty"`
	ParticipantNames []string        `json:"participantNames"`
}

// TournamentFromEntity converts a tournament to its stored form
func TournamentFromEntity(t *entity.Tournament) Tournament {
	participants := t.Participants()
	if participants == nil {
		participants = []string{}
	}
	return Tournament{
		ID:               t.ID,
		Title:            t.Title,
		EntryFee:         entity.AmountToDecimal(t.EntryFee),
		PrizePool:        entity.AmountToDecimal(t.PrizePool),
		Slots:            t.Slots,
		SlotsFilled:      t.SlotsFilled(),
		StartTime:        t.StartTime,
		Status:           string(t.Status),
		Map:              t.Map,
		Type:             string(t.Type),
		RoomCode:         t.RoomCode,
		ParticipantNames: participants,
	}
}

// ToEntity converts the stored form back to a tournament
func (m Tournament) ToEntity() (*entity.Tournament, error) {
	fee, err := entity.AmountFromDecimal(m.EntryFee)
	if err != nil {
		return nil, err
	}
	pool, err := entity.AmountFromDecimal(m.PrizePool)
	if err != nil {
		return nil, err
	}
	return entity.RestoreTournament(entity.Tournament{
		ID:        m.ID,
		Title:     m.Title,
		EntryFee:  fee,
		PrizePool: pool,
		Slots:     m.Slots,
		StartTime: m.StartTime,
		Status:    entity.TournamentStatus(m.Status),
		Map:       m.Map,
		Type:      entity.TournamentType(m.Type),
		RoomCode:  m.RoomCode,
	}, m.SlotsFilled, m.ParticipantNames), nil
}
