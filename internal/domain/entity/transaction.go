package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	tport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
)

// TransactionType classifies a ledger entry
type TransactionType string

// Transaction types
const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeEntryFee   TransactionType = "entry_fee"
	TypeWinning    TransactionType = "winning"
)

// TransactionStatus defines possible status values for a transaction
type TransactionStatus string

// TransactionStatus constants
const (
	StatusPending TransactionStatus = "pending"
	StatusSuccess TransactionStatus = "success"
	StatusFailed  TransactionStatus = "failed"
)

// ReferenceAdmin marks entries written by an administrative adjustment
const ReferenceAdmin = "admin"

// Transaction is an append-only ledger entry affecting one user's wallet
type Transaction struct {
	ID        string
	UserID    string
	Amount    int64 // Minor units, always > 0
	Type      TransactionType
	Status    TransactionStatus
	Reference string // Tournament id for entry fees and winnings
	Date      time.Time
}

// NewTransaction creates a successful ledger entry
func NewTransaction(
	id string,
	userID string,
	txType TransactionType,
	amount int64,
	reference string,
	timeProvider tport.TimeProvider,
) (*Transaction, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errs.NewValidationError("transaction id", "must not be empty")
	}
	if userID == "" {
		return nil, errs.NewValidationError("user id", "must not be empty")
	}
	if !IsValidTransactionType(string(txType)) {
		return nil, errs.NewValidationError("transaction type", string(txType))
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: ledger amounts must be positive", errs.ErrInvalidAmount)
	}

	return &Transaction{
		ID:        id,
		UserID:    userID,
		Amount:    amount,
		Type:      txType,
		Status:    StatusSuccess,
		Reference: reference,
		Date:      timeProvider.Now(),
	}, nil
}

// IsCredit returns true if this transaction increases the user's wallet
func (t *Transaction) IsCredit() bool {
	return t.Type == TypeDeposit || t.Type == TypeWinning
}

// IsDebit returns true if this transaction decreases the user's wallet
func (t *Transaction) IsDebit() bool {
	return t.Type == TypeWithdrawal || t.Type == TypeEntryFee
}

// SignedAmount returns the wallet effect of the entry; failed entries have none
func (t *Transaction) SignedAmount() int64 {
	if t.Status != StatusSuccess {
		return 0
	}
	if t.IsDebit() {
		return -t.Amount
	}
	return t.Amount
}

// GetAmount returns the amount with 2 decimal places
func (t *Transaction) GetAmount() string {
	return FormatAmount(t.Amount)
}

// IsValidTransactionType validates a transaction type string
func IsValidTransactionType(txType string) bool {
	switch TransactionType(txType) {
	case TypeDeposit, TypeWithdrawal, TypeEntryFee, TypeWinning:
		return true
	}
	return false
}

// IsValidTransactionStatus validates a transaction status string
func IsValidTransactionStatus(status string) bool {
	switch TransactionStatus(status) {
	case StatusPending, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

// LedgerBalance sums the wallet effect of entries on top of initial
func LedgerBalance(initial int64, entries []*Transaction) int64 {
	balance := initial
	for _, e := range entries {
		balance += e.SignedAmount()
	}
	return balance
}
