package model

import (
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MatchHistory is the stored form of a game history entry
type MatchHistory struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	TournamentID string          `json:"tournamentId"`
	Title        string          `json:"title"`
	Date         time.Time       `json:"date"`
	EntryFee     decimal.Decimal `json:"entryFee"`
	PrizeWon     decimal.Decimal `json:"prizeWon"`
	Status       string          `json:"status"`
	Type         string          `json:"type"`
}

// MatchHistoryFromEntity converts a history entry to its stored form
func MatchHistoryFromEntity(h *entity.MatchHistory) MatchHistory {
	return MatchHistory{
		ID:           h.ID,
		UserID:       h.UserID,
		TournamentID: h.TournamentID,
		Title:        h.Title,
		Date:         h.Date,
		EntryFee:     entity.AmountToDecimal(h.EntryFee),
		PrizeWon:     entity.AmountToDecimal(h.PrizeWon),
		Status:       string(h.Status),
		Type:         string(h.Type),
	}
}

// ToEntity converts the stored form back to a history entry
func (m MatchHistory) ToEntity() (*entity.MatchHistory, error) {
	fee, err := entity.AmountFromDecimal(m.EntryFee)
	if err != nil {
		return nil, err
	}
	prize, err := entity.AmountFromDecimal(m.PrizeWon)
	if err != nil {
		return nil, err
	}
	return &entity.MatchHistory{
		ID:           m.ID,
		UserID:       m.UserID,
		TournamentID: m.TournamentID,
		Title:        m.Title,
		Date:         m.Date,
		EntryFee:     fee,
		PrizeWon:     prize,
		Status:       entity.MatchResult(m.Status),
		Type:         entity.TournamentType(m.Type),
	}, nil
}
