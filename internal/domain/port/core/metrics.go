package core

import "time"

// Outcomes recorded for engine operations
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics records operational measurements of the ledger engine
type Metrics interface {
	// ObserveOperation records one engine operation with its outcome and latency
	ObserveOperation(operation, outcome string, duration time.Duration)
	// ObserveLockWait records how long an operation waited for the write lock
	ObserveLockWait(duration time.Duration)
	// SetWalletDrift exports the audited difference between a wallet and its ledger
	SetWalletDrift(userID string, drift float64)
	// SetAuditViolations exports the number of violations found by the last audit
	SetAuditViolations(count int)
}
