package dto

import (
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
)

// AmountRequest carries a decimal amount such as "10.50"
type AmountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// TransactionResponse is one ledger entry
type TransactionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Amount    string    `json:"amount"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Reference string    `json:"reference,omitempty"`
	Date      time.Time `json:"date"`
}

// NewTransactionResponse maps a ledger entry
func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Amount:    t.GetAmount(),
		Type:      string(t.Type),
		Status:    string(t.Status),
		Reference: t.Reference,
		Date:      t.Date,
	}
}

// NewTransactionListResponse maps ledger entries
func NewTransactionListResponse(entries []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(entries))
	for _, t := range entries {
		out = append(out, NewTransactionResponse(t))
	}
	return out
}

// WalletResponse is the result of a wallet mutation
type WalletResponse struct {
	User        UserResponse         `json:"user"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// NewWalletResponse maps a wallet mutation result
func NewWalletResponse(user *entity.User, entry *entity.Transaction) WalletResponse {
	resp := WalletResponse{User: NewUserResponse(user)}
	if entry != nil {
		t := NewTransactionResponse(entry)
		resp.Transaction = &t
	}
	return resp
}

// MatchHistoryResponse is one played or pending match
type MatchHistoryResponse struct {
	ID           string    `json:"id"`
	TournamentID string    `json:"tournamentId"`
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	EntryFee     string    `json:"entryFee"`
	PrizeWon     string    `json:"prizeWon"`
	Status       string    `json:"status"`
	Type         string    `json:"type"`
}

// NewMatchHistoryListResponse maps match history
func NewMatchHistoryListResponse(history []*entity.MatchHistory) []MatchHistoryResponse {
	out := make([]MatchHistoryResponse, 0, len(history))
	for _, h := range history {
		out = append(out, MatchHistoryResponse{
			ID:           h.ID,
			TournamentID: h.TournamentID,
			Title:        h.Title,
			Date:         h.Date,
			EntryFee:     entity.FormatAmount(h.EntryFee),
			PrizeWon:     entity.FormatAmount(h.PrizeWon),
			Status:       string(h.Status),
			Type:         string(h.Type),
		})
	}
	return out
}
