package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"github.com/shopspring/decimal"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// maxAmount bounds any single amount so minor units always fit an int64
var maxAmount = decimal.New(1, 13)

// ParseAmount converts a decimal string such as "10", "10.5" or "-3.25" into minor units.
// Sign is preserved; callers decide whether negative or zero amounts are acceptable.
func ParseAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errs.ErrInvalidAmount, amount)
	}

	return AmountFromDecimal(d)
}

// AmountFromDecimal converts a decimal value into minor units
func AmountFromDecimal(d decimal.Decimal) (int64, error) {
	if !d.Equal(d.Truncate(MaxDecimalPlaces)) {
		return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return 0, errs.ErrAmountOverflow
	}
	return d.Shift(MaxDecimalPlaces).IntPart(), nil
}

// AmountToDecimal converts minor units back into a decimal value
func AmountToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -MaxDecimalPlaces)
}

// FormatAmount renders minor units with exactly two decimal places.
// For example 1015 becomes "10.15" and -5 becomes "-0.05".
func FormatAmount(minor int64) string {
	return AmountToDecimal(minor).StringFixed(MaxDecimalPlaces)
}

// WholeUnits converts whole currency units into minor units
func WholeUnits(whole int64) int64 {
	return whole * 100
}
