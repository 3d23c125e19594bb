package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

// ConnectionPoolMonitor exports database connection pool statistics
type ConnectionPoolMonitor struct {
	db          *gorm.DB
	logger      coreport.Logger
	connections *prometheus.GaugeVec
	waitCount   prometheus.Gauge
	stopChan    chan struct{}
	stopOnce    sync.Once
}

// NewConnectionPoolMonitor creates a new connection pool monitor
func NewConnectionPoolMonitor(db *gorm.DB, reg prometheus.Registerer, logger coreport.Logger) *ConnectionPoolMonitor {
	factory := promauto.With(reg)
	return &ConnectionPoolMonitor{
		db:     db,
		logger: logger,
		connections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "arena",
			Subsystem: "db_pool",
			Name:      "connections",
			Help:      "Database connections by state.",
		}, []string{"state"}),
		waitCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "arena",
			Subsystem: "db_pool",
			Name:      "wait_count",
			Help:      "Total number of connections waited for.",
		}),
		stopChan: make(chan struct{}),
	}
}

// Start begins monitoring the connection pool
func (m *ConnectionPoolMonitor) Start(interval time.Duration) error {
	if err := m.collect(); err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := m.collect(); err != nil {
					m.logger.Error("Failed to collect connection pool metrics", map[string]any{
						"error": err.Error(),
					})
				}
			case <-m.stopChan:
				return
			}
		}
	}()
	return nil
}

// Stop stops the monitoring
func (m *ConnectionPoolMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

func (m *ConnectionPoolMonitor) collect() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	stats := sqlDB.Stats()

	m.connections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.connections.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.connections.WithLabelValues("idle").Set(float64(stats.Idle))
	m.connections.WithLabelValues("max_open").Set(float64(stats.MaxOpenConnections))
	m.waitCount.Set(float64(stats.WaitCount))

	threshold := float64(stats.MaxOpenConnections) * 0.8
	if stats.MaxOpenConnections > 0 && float64(stats.InUse) > threshold {
		m.logger.Warn("Database connection pool nearly exhausted", map[string]any{
			"in_use":     stats.InUse,
			"max_open":   stats.MaxOpenConnections,
			"idle":       stats.Idle,
			"wait_count": stats.WaitCount,
			"wait_time":  stats.WaitDuration.String(),
		})
	}
	return nil
}

// Ping checks that the database answers within ctx
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
