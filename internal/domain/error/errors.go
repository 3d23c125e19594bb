package error

import (
	"errors"
	"fmt"
	"time"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientFunds  = 4001
	CodeInvalidAmount      = 4002
	CodeValidation         = 4003
	CodeAmountOverflow     = 4006
	CodeUnauthenticated    = 4010
	CodeForbidden          = 4030
	CodeNotFound           = 4040
	CodeUserNotFound       = 4041
	CodeTournamentNotFound = 4042
	CodeConflict           = 4090
	CodeUnavailable        = 4091
	CodeInvalidState       = 4092
	CodeBusy               = 4230
	CodeCooldown           = 4290

	// 5xxx - Server errors
	CodeInternal = 5000
	CodeStore    = 5001
)

// Kind is the caller-facing failure category of an error.
type Kind string

// Kinds surfaced to the presentation layer
const (
	KindNotFound          Kind = "NotFound"
	KindConflict          Kind = "Conflict"
	KindInsufficientFunds Kind = "InsufficientFunds"
	KindInvalidAmount     Kind = "InvalidAmount"
	KindUnavailable       Kind = "Unavailable"
	KindValidation        Kind = "ValidationError"
	KindForbidden         Kind = "Forbidden"
	KindUnauthenticated   Kind = "Unauthenticated"
	KindCooldown          Kind = "Cooldown"
	KindBusy              Kind = "Busy"
	KindInternal          Kind = "Internal"
)

// Base error types
var (
	// ErrNotFound is returned when a referenced entity is absent
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrTournamentNotFound is returned when the requested tournament doesn't exist
	ErrTournamentNotFound = fmt.Errorf("tournament %w", ErrNotFound)

	// ErrKeyNotFound is returned by a store when a key has never been written
	ErrKeyNotFound = fmt.Errorf("key %w", ErrNotFound)

	// ErrConflict is returned when a unique field is already taken
	ErrConflict = errors.New("conflict")

	// ErrDuplicateHandle is returned when the user handle is already registered
	ErrDuplicateHandle = fmt.Errorf("%w: handle is already registered", ErrConflict)

	// ErrHandleHoldsSeat is returned when a new handle already appears in a participant list
	ErrHandleHoldsSeat = fmt.Errorf("%w: handle already holds a tournament seat", ErrConflict)

	// ErrDuplicatePhone is returned when the phone number is already registered
	ErrDuplicatePhone = fmt.Errorf("%w: phone is already registered", ErrConflict)

	// ErrInsufficientFunds is returned when the wallet is below the required amount
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned when an amount is malformed, non-positive or below policy minimum
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountOverflow is returned when the amount is too large to be represented
	ErrAmountOverflow = fmt.Errorf("%w: amount is too large", ErrInvalidAmount)

	// ErrUnavailable is returned when a tournament is not open for joining
	ErrUnavailable = errors.New("tournament is not open for joining")

	// ErrValidation is returned when an input field is malformed
	ErrValidation = errors.New("validation failed")

	// ErrForbidden is returned when the acting user lacks the required role
	ErrForbidden = errors.New("operation not permitted")

	// ErrUnauthenticated is returned when an operation needs a signed-in session
	ErrUnauthenticated = errors.New("no active session")

	// ErrInvalidState is returned when the login flow is driven out of order
	ErrInvalidState = errors.New("invalid login flow state")

	// ErrCooldown is returned when an OTP resend is requested too early
	ErrCooldown = errors.New("resend is cooling down")

	// ErrBusy is returned when the ledger write lock could not be acquired in time
	ErrBusy = errors.New("ledger is busy")

	// ErrStore is returned when the underlying key-value store fails
	ErrStore = errors.New("store failure")

	// ErrInternal is returned for unexpected failures
	ErrInternal = errors.New("internal error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrAmountOverflow):
		return CodeAmountOverflow
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrTournamentNotFound):
		return CodeTournamentNotFound
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrUnavailable):
		return CodeUnavailable
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrBusy):
		return CodeBusy
	case errors.Is(err, ErrCooldown):
		return CodeCooldown
	case errors.Is(err, ErrStore):
		return CodeStore
	default:
		return CodeInternal
	}
}

// KindOf classifies err into the caller-facing taxonomy
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidState):
		return KindConflict
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrCooldown):
		return KindCooldown
	case errors.Is(err, ErrBusy):
		return KindBusy
	default:
		return KindInternal
	}
}

// InsufficientFundsError provides detailed error information for insufficient funds
type InsufficientFundsError struct {
	UserID    string
	Required  string
	Available string
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for user %s: required %s, available %s",
		e.UserID, e.Required, e.Available)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"user_id":    e.UserID,
		"required":   e.Required,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(userID, required, available string) error {
	return &InsufficientFundsError{
		UserID:    userID,
		Required:  required,
		Available: available,
	}
}

// ValidationError names the offending input field
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is checks if the target error is an ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// LogFields returns a map of fields for structured logging
func (e *ValidationError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "validation",
		"field":      e.Field,
		"reason":     e.Reason,
		"error_code": CodeValidation,
	}
}

// NewValidationError creates a validation error for field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// UnavailableError describes why a tournament rejected a join
type UnavailableError struct {
	TournamentID string
	Status       string
	SlotsFilled  int
	Slots        int
}

// Error implements the error interface
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("tournament %s is not open for joining (status: %s, slots: %d/%d)",
		e.TournamentID, e.Status, e.SlotsFilled, e.Slots)
}

// Is checks if the target error is an ErrUnavailable
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// LogFields returns a map of fields for structured logging
func (e *UnavailableError) LogFields() map[string]any {
	return map[string]any{
		"error_type":    "unavailable",
		"tournament_id": e.TournamentID,
		"status":        e.Status,
		"slots_filled":  e.SlotsFilled,
		"slots":         e.Slots,
		"error_code":    CodeUnavailable,
	}
}

// NewUnavailableError creates a new detailed unavailable error
func NewUnavailableError(tournamentID, status string, slotsFilled, slots int) error {
	return &UnavailableError{
		TournamentID: tournamentID,
		Status:       status,
		SlotsFilled:  slotsFilled,
		Slots:        slots,
	}
}

// CooldownError carries the time left before a resend is allowed
type CooldownError struct {
	Remaining time.Duration
}

// Error implements the error interface
func (e *CooldownError) Error() string {
	return fmt.Sprintf("resend available in %s", e.Remaining.Round(time.Second))
}

// Is checks if the target error is an ErrCooldown
func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldown
}

// LogFields returns a map of fields for structured logging
func (e *CooldownError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "cooldown",
		"remaining_ms": e.Remaining.Milliseconds(),
		"error_code":   CodeCooldown,
	}
}

// CommitError reports a change set that failed to reach the store
type CommitError struct {
	Stage     string
	Keys      []string
	Journaled bool
	Err       error
}

// Error implements the error interface
func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed at %s (%d keys, journaled: %t): %v",
		e.Stage, len(e.Keys), e.Journaled, e.Err)
}

// Unwrap returns the underlying error
func (e *CommitError) Unwrap() error {
	return e.Err
}

// Is reports every commit failure as a store failure
func (e *CommitError) Is(target error) bool {
	return target == ErrStore
}

// LogFields returns a map of fields for structured logging
func (e *CommitError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "commit",
		"stage":      e.Stage,
		"keys":       e.Keys,
		"journaled":  e.Journaled,
		"error":      e.Err.Error(),
		"error_code": CodeStore,
	}
}

// LogFields extracts structured fields from err when it carries them
func LogFields(err error) map[string]any {
	var carrier interface{ LogFields() map[string]any }
	if errors.As(err, &carrier) {
		return carrier.LogFields()
	}
	return map[string]any{
		"error":      err.Error(),
		"error_code": ErrorCode(err),
	}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInsufficientFundsError checks if the error is related to insufficient funds
func IsInsufficientFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// IsBusinessError reports failures that are the caller's fault rather than the system's
func IsBusinessError(err error) bool {
	return KindOf(err) != KindInternal
}
