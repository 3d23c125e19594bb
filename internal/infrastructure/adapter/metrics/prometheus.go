package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus exports ledger engine measurements as Prometheus collectors
type Prometheus struct {
	operations      *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	lockWait        prometheus.Histogram
	walletDrift     *prometheus.GaugeVec
	auditViolations prometheus.Gauge
}

// NewPrometheus registers the ledger collectors with reg
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "arena",
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Latency of ledger operations including lock wait.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		lockWait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arena",
			Subsystem: "ledger",
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for the write lock.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}),
		walletDrift: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "arena",
			Subsystem: "audit",
			Name:      "wallet_drift",
			Help:      "Wallet balance minus the balance implied by the user's ledger.",
		}, []string{"user_id"}),
		auditViolations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "arena",
			Subsystem: "audit",
			Name:      "violations",
			Help:      "Invariant violations found by the last audit run.",
		}),
	}
}

// ObserveOperation records one engine operation with its outcome and latency
func (p *Prometheus) ObserveOperation(operation, outcome string, duration time.Duration) {
	p.operations.WithLabelValues(operation, outcome).Inc()
	p.latency.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveLockWait records how long an operation waited for the write lock
func (p *Prometheus) ObserveLockWait(duration time.Duration) {
	p.lockWait.Observe(duration.Seconds())
}

// SetWalletDrift exports the audited difference between a wallet and its ledger
func (p *Prometheus) SetWalletDrift(userID string, drift float64) {
	if drift == 0 {
		p.walletDrift.DeleteLabelValues(userID)
		return
	}
	p.walletDrift.WithLabelValues(userID).Set(drift)
}

// SetAuditViolations exports the number of violations found by the last audit
func (p *Prometheus) SetAuditViolations(count int) {
	p.auditViolations.Set(float64(count))
}
