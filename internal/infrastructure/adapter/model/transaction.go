package model

import (
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Transaction is the stored form of a ledger entry
type Transaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	Reference string          `json:"reference,omitempty"`
	Date      time.Time       `json:"date"`
}

// TransactionFromEntity converts a ledger entry to its stored form
func TransactionFromEntity(t *entity.Transaction) Transaction {
	return Transaction{
		ID:        t.ID,
		UserID:    t.UserID,
		Amount:    entity.AmountToDecimal(t.Amount),
		Type:      string(t.Type),
		Status:    string(t.Status),
		Reference: t.Reference,
		Date:      t.Date,
	}
}

// ToEntity converts the stored form back to a ledger entry
func (m Transaction) ToEntity() (*entity.Transaction, error) {
	amount, err := entity.AmountFromDecimal(m.Amount)
	if err != nil {
		return nil, err
	}
	return &entity.Transaction{
		ID:        m.ID,
		UserID:    m.UserID,
		Amount:    amount,
		Type:      entity.TransactionType(m.Type),
		Status:    entity.TransactionStatus(m.Status),
		Reference: m.Reference,
		Date:      m.Date,
	}, nil
}
