package usecase

import (
	"context"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/auth"
)

// AuthUseCase drives the registration and login state machine
type AuthUseCase interface {
	// Begin submits the form and moves to otp-pending
	//
	// Possible errors:
	// - ErrUserNotFound: If signing in with an unknown handle
	// - ErrConflict: If creating with a taken handle or phone
	// - ErrValidation: If the phone or password is malformed
	// - ErrInvalidState: If a session is already authenticated
	Begin(ctx context.Context, form auth.Form) (auth.Status, error)

	// ResendOTP restarts the resend cooldown
	//
	// Possible errors:
	// - ErrCooldown: If the previous code was sent too recently
	ResendOTP() (auth.Status, error)

	// VerifyOTP completes the pending sign-in or registration
	VerifyOTP(ctx context.Context, code string) (*entity.User, error)

	SignOut(ctx context.Context) error
	Status() auth.Status
}

var _ AuthUseCase = (*auth.Flow)(nil)
