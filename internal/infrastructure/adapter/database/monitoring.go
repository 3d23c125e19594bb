package database

import (
	"time"

	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QueryObserver measures key-value store operations
type QueryObserver struct {
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	duration      *prometheus.HistogramVec
	slowThreshold time.Duration
}

// NewQueryObserver creates a QueryObserver registering its histogram with reg
func NewQueryObserver(reg prometheus.Registerer, logger coreport.Logger, timeProvider coreport.TimeProvider) *QueryObserver {
	return &QueryObserver{
		logger:       logger,
		timeProvider: timeProvider,
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "arena",
			Subsystem: "kv",
			Name:      "operation_duration_seconds",
			Help:      "Latency of key-value store operations against the database.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
		slowThreshold: 100 * time.Millisecond,
	}
}

// Measure runs fn and records its latency under operation
func (c *QueryObserver) Measure(operation string, fn func() error) error {
	start := c.timeProvider.Now()
	err := fn()
	elapsed := c.timeProvider.Since(start).Std()

	outcome := coreport.OutcomeSuccess
	if err != nil {
		outcome = coreport.OutcomeFailed
	}
	c.duration.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())

	if elapsed > c.slowThreshold {
		fields := map[string]any{
			"operation":   operation,
			"duration_ms": elapsed.Milliseconds(),
			"failed":      err != nil,
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		c.logger.Warn("Slow database query detected", fields)
	}
	return err
}
