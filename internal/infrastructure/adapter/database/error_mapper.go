package database

import (
	"context"
	"errors"
	"fmt"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"gorm.io/gorm"
)

// ErrorMapper maps database errors to domain errors
type ErrorMapper struct {
	classifier *ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{classifier: NewErrorClassifier()}
}

// MapError maps a database error to a domain error
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrKeyNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	case m.classifier.IsLockError(err):
		return fmt.Errorf("%w: %s contended: %v", errs.ErrBusy, operation, err)
	case m.classifier.IsConnectionError(err):
		return fmt.Errorf("%w: %s: database unreachable: %v", errs.ErrStore, operation, err)
	default:
		return fmt.Errorf("%w: %s: %v", errs.ErrStore, operation, err)
	}
}
