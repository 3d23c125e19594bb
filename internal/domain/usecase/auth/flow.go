package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/ledger"
)

// DefaultResendCooldown is the wait between OTP resends
const DefaultResendCooldown = 30 * time.Second

// Mode selects what a verified OTP does
type Mode string

const (
	ModeSignIn Mode = "signin"
	ModeCreate Mode = "create"
)

// State is the position of the login flow
type State string

const (
	StateForm          State = "form"
	StateOTPPending    State = "otp-pending"
	StateAuthenticated State = "authenticated"
)

// Form is the submitted sign-in or sign-up form
type Form struct {
	Mode     Mode
	Name     string
	GameName string
	Phone    string
	Password string
}

// Accounts is the part of the ledger engine the flow drives
type Accounts interface {
	CurrentUser() (*entity.User, error)
	FindUserByName(ctx context.Context, name string) (*entity.User, error)
	CheckAvailable(ctx context.Context, name, phone string) error
	Register(ctx context.Context, reg ledger.Registration) (*entity.User, error)
	SignIn(ctx context.Context, name string) (*entity.User, error)
	SignOut(ctx context.Context) error
	Validator() *ledger.Validator
}

// Status is a snapshot of the flow for the presentation layer
type Status struct {
	State          State
	Mode           Mode
	Phone          string
	ResendIn       time.Duration
	ResendCooldown time.Duration
}

// Flow is the form → otp-pending → authenticated state machine.
// The password is checked and dropped; it is never kept past Begin.
type Flow struct {
	accounts     Accounts
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	cooldown     time.Duration

	mu      sync.Mutex
	state   State
	pending *Form
	resend  *rate.Limiter
}

// NewFlow creates a flow; a restored session starts it authenticated
func NewFlow(accounts Accounts, timeProvider coreport.TimeProvider, logger coreport.Logger, cooldown time.Duration) *Flow {
	if cooldown <= 0 {
		cooldown = DefaultResendCooldown
	}
	f := &Flow{
		accounts:     accounts,
		timeProvider: timeProvider,
		logger:       logger,
		cooldown:     cooldown,
		state:        StateForm,
	}
	if _, err := accounts.CurrentUser(); err == nil {
		f.state = StateAuthenticated
	}
	return f
}

// Begin validates form and moves to otp-pending, starting the resend cooldown
func (f *Flow) Begin(ctx context.Context, form Form) (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateAuthenticated {
		return f.status(), fmt.Errorf("%w: sign out before starting a new login", errs.ErrInvalidState)
	}

	switch form.Mode {
	case ModeSignIn:
		if _, err := f.accounts.FindUserByName(ctx, form.Name); err != nil {
			return f.status(), err
		}
	case ModeCreate:
		if err := f.accounts.Validator().ValidateHandle(form.Name); err != nil {
			return f.status(), err
		}
		if err := f.accounts.CheckAvailable(ctx, form.Name, form.Phone); err != nil {
			return f.status(), err
		}
	default:
		return f.status(), errs.NewValidationError("mode", fmt.Sprintf("unknown mode %q", form.Mode))
	}

	if err := f.accounts.Validator().ValidatePhone(form.Phone); err != nil {
		return f.status(), err
	}
	if err := f.accounts.Validator().ValidatePassword(form.Password); err != nil {
		return f.status(), err
	}

	kept := form
	kept.Password = ""
	f.pending = &kept
	f.state = StateOTPPending

	now := f.timeProvider.Now()
	f.resend = rate.NewLimiter(rate.Every(f.cooldown), 1)
	f.resend.AllowN(now, 1)

	f.logger.Info("OTP requested", map[string]any{
		"mode": string(form.Mode),
		"name": form.Name,
	})
	return f.status(), nil
}

// ResendOTP restarts the cooldown, or fails with a CooldownError while it runs
func (f *Flow) ResendOTP() (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateOTPPending {
		return f.status(), fmt.Errorf("%w: no OTP is pending", errs.ErrInvalidState)
	}

	now := f.timeProvider.Now()
	r := f.resend.ReserveN(now, 1)
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return f.status(), &errs.CooldownError{Remaining: wait}
	}

	f.logger.Info("OTP resent", map[string]any{
		"name": f.pending.Name,
	})
	return f.status(), nil
}

// VerifyOTP completes the pending login. Any code is accepted.
func (f *Flow) VerifyOTP(ctx context.Context, code string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateOTPPending {
		return nil, fmt.Errorf("%w: no OTP is pending", errs.ErrInvalidState)
	}

	var (
		user *entity.User
		err  error
	)
	switch f.pending.Mode {
	case ModeCreate:
		user, err = f.accounts.Register(ctx, ledger.Registration{
			Name:     f.pending.Name,
			GameName: f.pending.GameName,
			Phone:    f.pending.Phone,
		})
	default:
		user, err = f.accounts.SignIn(ctx, f.pending.Name)
	}
	if err != nil {
		return nil, err
	}

	f.state = StateAuthenticated
	f.pending = nil
	f.resend = nil
	return user, nil
}

// SignOut clears the session and returns the flow to the form
func (f *Flow) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.accounts.SignOut(ctx); err != nil {
		return err
	}
	f.state = StateForm
	f.pending = nil
	f.resend = nil
	return nil
}

// Status returns a snapshot of the flow
func (f *Flow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status()
}

func (f *Flow) status() Status {
	s := Status{State: f.state, ResendCooldown: f.cooldown}
	if f.pending != nil {
		s.Mode = f.pending.Mode
		s.Phone = f.pending.Phone
	}
	if f.resend != nil {
		now := f.timeProvider.Now()
		r := f.resend.ReserveN(now, 1)
		s.ResendIn = r.DelayFrom(now)
		r.CancelAt(now)
	}
	return s
}
