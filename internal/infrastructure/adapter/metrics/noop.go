package metrics

import "time"

// Noop discards every measurement
type Noop struct{}

// NewNoop creates a Noop recorder
func NewNoop() Noop { return Noop{} }

func (Noop) ObserveOperation(string, string, time.Duration) {}
func (Noop) ObserveLockWait(time.Duration)                  {}
func (Noop) SetWalletDrift(string, float64)                 {}
func (Noop) SetAuditViolations(int)                         {}
