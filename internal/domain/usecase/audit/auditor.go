package audit

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
)

// WalletDrift is a user whose wallet disagrees with their ledger
type WalletDrift struct {
	UserID   string
	Name     string
	Wallet   int64
	Expected int64
}

// Drift returns wallet minus expected, in minor units
func (d WalletDrift) Drift() int64 {
	return d.Wallet - d.Expected
}

// Report is the outcome of one audit run
type Report struct {
	UsersChecked       int
	TournamentsChecked int
	Drifts             []WalletDrift
	TournamentFaults   []string
}

// Violations counts every broken invariant in the report
func (r Report) Violations() int {
	return len(r.Drifts) + len(r.TournamentFaults)
}

// Clean reports whether no invariant was broken
func (r Report) Clean() bool {
	return r.Violations() == 0
}

// Auditor recomputes wallets from ledgers and checks tournament bookkeeping
type Auditor struct {
	users        persistence.UserRepository
	tournaments  persistence.TournamentRepository
	transactions persistence.TransactionRepository
	logger       coreport.Logger
	metrics      coreport.Metrics
}

// NewAuditor creates a new Auditor
func NewAuditor(
	users persistence.UserRepository,
	tournaments persistence.TournamentRepository,
	transactions persistence.TransactionRepository,
	logger coreport.Logger,
	metrics coreport.Metrics,
) *Auditor {
	return &Auditor{
		users:        users,
		tournaments:  tournaments,
		transactions: transactions,
		logger:       logger,
		metrics:      metrics,
	}
}

// Run audits committed state once. It reads without the write lock, so a
// concurrent commit can show up as a transient drift on the next run only.
func (a *Auditor) Run(ctx context.Context) (Report, error) {
	var report Report

	users, err := a.users.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		entries, err := a.transactions.Load(ctx, u.ID)
		if err != nil {
			return report, fmt.Errorf("failed to load ledger of %s: %w", u.ID, err)
		}
		report.UsersChecked++

		expected := entity.LedgerBalance(u.InitialWallet(), entries)
		drift := WalletDrift{UserID: u.ID, Name: u.Name, Wallet: u.Wallet(), Expected: expected}
		a.metrics.SetWalletDrift(u.ID, entity.AmountToDecimal(drift.Drift()).InexactFloat64())
		if drift.Drift() != 0 {
			report.Drifts = append(report.Drifts, drift)
			a.logger.Warn("Wallet does not match ledger", map[string]any{
				"user_id":  u.ID,
				"wallet":   entity.FormatAmount(drift.Wallet),
				"expected": entity.FormatAmount(drift.Expected),
			})
		}
	}

	tournaments, err := a.tournaments.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load tournaments: %w", err)
	}
	for _, t := range tournaments {
		report.TournamentsChecked++
		if err := t.CheckConsistency(); err != nil {
			report.TournamentFaults = append(report.TournamentFaults, err.Error())
			a.logger.Warn("Tournament bookkeeping is inconsistent", map[string]any{
				"tournament_id": t.ID,
				"error":         err.Error(),
			})
		}
	}

	a.metrics.SetAuditViolations(report.Violations())
	a.logger.Info("Ledger audit completed", map[string]any{
		"users":       report.UsersChecked,
		"tournaments": report.TournamentsChecked,
		"violations":  report.Violations(),
	})
	return report, nil
}
