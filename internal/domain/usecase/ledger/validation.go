package ledger

import (
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
)

// PhoneLength is the number of digits in a valid phone number
const PhoneLength = 11

// MinPasswordLength is the shortest password the login form accepts
const MinPasswordLength = 8

// Validator provides validation for ledger and account inputs
type Validator struct {
	policy Policy
}

// NewValidator creates a new Validator enforcing policy
func NewValidator(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// ValidateDeposit parses a deposit amount and applies the minimum
func (v *Validator) ValidateDeposit(amount string) (int64, error) {
	return v.validatePositive(amount, v.policy.MinDeposit, "deposit")
}

// ValidateWithdrawal parses a withdrawal amount and applies the minimum
func (v *Validator) ValidateWithdrawal(amount string) (int64, error) {
	return v.validatePositive(amount, v.policy.MinWithdrawal, "withdrawal")
}

// ValidatePrize parses a prize amount, which has no minimum beyond being positive
func (v *Validator) ValidatePrize(amount string) (int64, error) {
	return v.validatePositive(amount, 1, "prize")
}

// ValidateDelta parses a signed administrative adjustment
func (v *Validator) ValidateDelta(delta string) (int64, error) {
	minor, err := entity.ParseAmount(delta)
	if err != nil {
		return 0, err
	}
	if minor == 0 {
		return 0, fmt.Errorf("%w: adjustment must not be zero", errs.ErrInvalidAmount)
	}
	return minor, nil
}

// ValidateFee parses a non-negative tournament amount such as an entry fee or prize pool
func (v *Validator) ValidateFee(field, amount string) (int64, error) {
	minor, err := entity.ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	if minor < 0 {
		return 0, fmt.Errorf("%w: %s cannot be negative", errs.ErrInvalidAmount, field)
	}
	return minor, nil
}

func (v *Validator) validatePositive(amount string, minimum int64, kind string) (int64, error) {
	minor, err := entity.ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	if minor <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive", errs.ErrInvalidAmount, kind)
	}
	if minor < minimum {
		return 0, fmt.Errorf("%w: minimum %s is %s", errs.ErrInvalidAmount, kind, entity.FormatAmount(minimum))
	}
	return minor, nil
}

// ValidatePhone checks the phone is exactly 11 ASCII digits
func (v *Validator) ValidatePhone(phone string) error {
	if len(phone) != PhoneLength {
		return errs.NewValidationError("phone", fmt.Sprintf("must be exactly %d digits", PhoneLength))
	}
	for i := 0; i < len(phone); i++ {
		if phone[i] < '0' || phone[i] > '9' {
			return errs.NewValidationError("phone", "must contain digits only")
		}
	}
	return nil
}

// ValidatePassword checks the password length; the password itself is never stored
func (v *Validator) ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errs.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	return nil
}

// ValidateHandle checks the unique user handle
func (v *Validator) ValidateHandle(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValidationError("name", "must not be empty")
	}
	return nil
}
