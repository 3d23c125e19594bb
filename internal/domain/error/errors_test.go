package error

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBaseErrorTypes(t *testing.T) {
	assert.Equal(t, "user not found", ErrUserNotFound.Error())
	assert.Equal(t, "tournament not found", ErrTournamentNotFound.Error())
	assert.Equal(t, "conflict: handle is already registered", ErrDuplicateHandle.Error())
	assert.ErrorIs(t, ErrUserNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrKeyNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrDuplicatePhone, ErrConflict)
	assert.ErrorIs(t, ErrAmountOverflow, ErrInvalidAmount)
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InsufficientFunds", ErrInsufficientFunds, 4001},
		{"InvalidAmount", ErrInvalidAmount, 4002},
		{"Validation", ErrValidation, 4003},
		{"AmountOverflow", ErrAmountOverflow, 4006},
		{"Unauthenticated", ErrUnauthenticated, 4010},
		{"Forbidden", ErrForbidden, 4030},
		{"NotFound", ErrNotFound, 4040},
		{"UserNotFound", ErrUserNotFound, 4041},
		{"TournamentNotFound", ErrTournamentNotFound, 4042},
		{"DuplicateHandle", ErrDuplicateHandle, 4090},
		{"Unavailable", ErrUnavailable, 4091},
		{"Busy", ErrBusy, 4230},
		{"Cooldown", ErrCooldown, 4290},
		{"Store", ErrStore, 5001},
		{"UnknownError", errors.New("unknown error"), 5000},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrValidation), 4003},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ErrorCode(tc.err))
		})
	}
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		err      error
		expected Kind
	}{
		{ErrTournamentNotFound, KindNotFound},
		{ErrDuplicatePhone, KindConflict},
		{ErrInvalidState, KindConflict},
		{NewInsufficientFundsError("u1", "50.00", "40.00"), KindInsufficientFunds},
		{ErrAmountOverflow, KindInvalidAmount},
		{NewUnavailableError("t1", "live", 1, 4), KindUnavailable},
		{NewValidationError("phone", "must be 11 digits"), KindValidation},
		{ErrForbidden, KindForbidden},
		{&CooldownError{Remaining: time.Second}, KindCooldown},
		{ErrBusy, KindBusy},
		{&CommitError{Stage: "apply", Err: errors.New("disk full")}, KindInternal},
	}

	for _, tc := range testCases {
		t.Run(string(tc.expected), func(t *testing.T) {
			assert.Equal(t, tc.expected, KindOf(tc.err))
		})
	}
}

func TestInsufficientFundsError(t *testing.T) {
	err := NewInsufficientFundsError("user-1", "50.00", "40.00")

	assert.Equal(t, "insufficient funds for user user-1: required 50.00, available 40.00", err.Error())
	assert.True(t, IsInsufficientFundsError(err))
	assert.True(t, IsBusinessError(err))

	fields := LogFields(fmt.Errorf("join: %w", err))
	assert.Equal(t, "insufficient_funds", fields["error_type"])
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, CodeInsufficientFunds, fields["error_code"])
}

func TestCommitError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &CommitError{Stage: "journal", Keys: []string{"a", "b"}, Err: cause}

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsBusinessError(err))
	assert.Equal(t, "commit failed at journal (2 keys, journaled: false): connection reset", err.Error())
	assert.Equal(t, CodeStore, ErrorCode(err))
}

func TestCooldownError(t *testing.T) {
	err := &CooldownError{Remaining: 12400 * time.Millisecond}

	assert.Equal(t, "resend available in 12s", err.Error())
	assert.Equal(t, int64(12400), err.LogFields()["remaining_ms"])
}

func TestLogFieldsFallback(t *testing.T) {
	fields := LogFields(ErrForbidden)

	assert.Equal(t, "operation not permitted", fields["error"])
	assert.Equal(t, CodeForbidden, fields["error_code"])
}
