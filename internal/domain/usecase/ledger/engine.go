package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/session"
)

// Policy holds the business thresholds of the ledger
type Policy struct {
	MinDeposit    int64 // Minor units
	MinWithdrawal int64 // Minor units
	WelcomeBonus  int64 // Minor units credited to new accounts
	EmailDomain   string
	AvatarBaseURL string
	LockTimeout   time.Duration
}

// DefaultPolicy returns the stock thresholds
func DefaultPolicy() Policy {
	return Policy{
		MinDeposit:    entity.WholeUnits(10),
		MinWithdrawal: entity.WholeUnits(100),
		WelcomeBonus:  entity.WholeUnits(100),
		EmailDomain:   "ludotaka.com",
		AvatarBaseURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=",
		LockTimeout:   5 * time.Second,
	}
}

// Repositories groups the collection repositories the engine works on
type Repositories struct {
	Users         persistence.UserRepository
	Sessions      persistence.SessionRepository
	Tournaments   persistence.TournamentRepository
	Transactions  persistence.TransactionRepository
	History       persistence.MatchHistoryRepository
	Notifications persistence.NotificationRepository
	Settings      persistence.SettingsRepository
	Seeder        persistence.Seeder
}

// Engine performs every compound mutation of users, wallets and tournaments.
// Mutations are serialized by the write lock and committed as a single change set.
type Engine struct {
	repos        Repositories
	session      *session.Context
	uow          persistence.UnitOfWork
	lock         persistence.WriteLock
	ids          coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	metrics      coreport.Metrics
	validator    *Validator
	policy       Policy
}

// NewEngine creates a new ledger engine
func NewEngine(
	repos Repositories,
	sessionCtx *session.Context,
	uow persistence.UnitOfWork,
	lock persistence.WriteLock,
	ids coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	metrics coreport.Metrics,
	policy Policy,
) *Engine {
	return &Engine{
		repos:        repos,
		session:      sessionCtx,
		uow:          uow,
		lock:         lock,
		ids:          ids,
		timeProvider: timeProvider,
		logger:       logger,
		metrics:      metrics,
		validator:    NewValidator(policy),
		policy:       policy,
	}
}

// Session returns the session context the engine keeps in sync
func (e *Engine) Session() *session.Context {
	return e.session
}

// Policy returns the thresholds in effect
func (e *Engine) Policy() Policy {
	return e.policy
}

// Open completes any interrupted commit, seeds absent collections and restores the session
func (e *Engine) Open(ctx context.Context) error {
	err := e.withWriteLock(ctx, func() error {
		if err := e.uow.Recover(ctx); err != nil {
			return fmt.Errorf("failed to recover interrupted commit: %w", err)
		}

		cs := persistence.NewChangeSet()
		seeded, err := e.repos.Seeder.StageSeed(ctx, cs)
		if err != nil {
			return fmt.Errorf("failed to stage seed data: %w", err)
		}
		if err := e.uow.Commit(ctx, cs); err != nil {
			return fmt.Errorf("failed to commit seed data: %w", err)
		}
		if len(seeded) > 0 {
			e.logger.Info("Seeded first-run collections", map[string]any{
				"collections": seeded,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	return e.session.Load(ctx)
}

// mutate runs fn under the write lock and commits everything it staged in one change set
func (e *Engine) mutate(ctx context.Context, operation string, fields map[string]any, fn func(t *tx) error) error {
	start := e.timeProvider.Now()

	err := e.withWriteLock(ctx, func() error {
		if err := e.uow.Recover(ctx); err != nil {
			return err
		}

		t := newTx(ctx, e)
		if err := fn(t); err != nil {
			return err
		}
		if t.cs.Len() == 0 {
			return nil
		}
		if err := e.uow.Commit(ctx, t.cs); err != nil {
			var commitErr *errs.CommitError
			if !errors.As(err, &commitErr) || !commitErr.Journaled {
				return err
			}
			// The journal is the commit point; Recover finishes the writes
			e.logger.Error("Commit journaled but not fully applied", errs.LogFields(err))
		}
		e.session.Apply(t.pending)
		return nil
	})

	e.record(operation, start, fields, err)
	return err
}

// withWriteLock acquires the ledger write lock, waiting at most the policy lock timeout
func (e *Engine) withWriteLock(ctx context.Context, fn func() error) error {
	lockCtx, cancel := e.timeProvider.WithTimeout(ctx, coreport.Duration(e.policy.LockTimeout))
	defer cancel()

	waitStart := e.timeProvider.Now()
	release, err := e.lock.Acquire(lockCtx)
	e.metrics.ObserveLockWait(e.timeProvider.Since(waitStart).Std())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: write lock not acquired within %s", errs.ErrBusy, e.policy.LockTimeout)
		}
		return fmt.Errorf("%w: failed to acquire write lock: %v", errs.ErrStore, err)
	}
	defer release()

	return fn()
}

// record logs and measures the outcome of an operation
func (e *Engine) record(operation string, start time.Time, fields map[string]any, err error) {
	duration := e.timeProvider.Since(start).Std()

	logFields := map[string]any{
		"operation":   operation,
		"duration_ms": duration.Milliseconds(),
	}
	for k, v := range fields {
		logFields[k] = v
	}

	switch {
	case err == nil:
		e.metrics.ObserveOperation(operation, coreport.OutcomeSuccess, duration)
		e.logger.Info("Ledger operation completed", logFields)
	case errs.IsBusinessError(err):
		e.metrics.ObserveOperation(operation, coreport.OutcomeRejected, duration)
		for k, v := range errs.LogFields(err) {
			logFields[k] = v
		}
		logFields["error"] = err.Error()
		e.logger.Warn("Ledger operation rejected", logFields)
	default:
		e.metrics.ObserveOperation(operation, coreport.OutcomeFailed, duration)
		for k, v := range errs.LogFields(err) {
			logFields[k] = v
		}
		logFields["error"] = err.Error()
		e.logger.Error("Ledger operation failed", logFields)
	}
}
