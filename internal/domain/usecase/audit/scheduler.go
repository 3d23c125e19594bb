package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
)

// Scheduler runs the auditor on a fixed interval
type Scheduler struct {
	scheduler gocron.Scheduler
	auditor   *Auditor
	logger    coreport.Logger
}

// NewScheduler registers the audit job; nothing runs until Start
func NewScheduler(auditor *Auditor, interval time.Duration, logger coreport.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	sched := &Scheduler{scheduler: s, auditor: auditor, logger: logger}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sched.runOnce),
		gocron.WithName("ledger-audit"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to schedule audit job: %w", err)
	}
	return sched, nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.auditor.Run(ctx); err != nil {
		s.logger.Error("Ledger audit failed", map[string]any{
			"error": err.Error(),
		})
	}
}

// Start begins running scheduled audits
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Shutdown stops the scheduler and waits for a running audit
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}
