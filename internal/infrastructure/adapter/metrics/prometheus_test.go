package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
)

var _ core.Metrics = (*Prometheus)(nil)
var _ core.Metrics = Noop{}

func TestPrometheus_ObserveOperation(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry())

	p.ObserveOperation("deposit", core.OutcomeSuccess, 3*time.Millisecond)
	p.ObserveOperation("deposit", core.OutcomeSuccess, 4*time.Millisecond)
	p.ObserveOperation("deposit", core.OutcomeRejected, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.operations.WithLabelValues("deposit", core.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.operations.WithLabelValues("deposit", core.OutcomeRejected)))
}

func TestPrometheus_AuditGauges(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry())

	p.SetAuditViolations(2)
	p.SetWalletDrift("u-1", 150)
	assert.Equal(t, 2.0, testutil.ToFloat64(p.auditViolations))
	assert.Equal(t, 150.0, testutil.ToFloat64(p.walletDrift.WithLabelValues("u-1")))

	p.SetWalletDrift("u-1", 0)
	assert.Equal(t, 0, testutil.CollectAndCount(p.walletDrift))
}
