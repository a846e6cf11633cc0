package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the periodic stock reconciliation.
type Scheduler struct {
	cron      *cron.Cron
	reconcile service.ReconcileService
	spec      string
}

// NewScheduler takes a standard 5-field cron expression. An invalid one is
// reported by Start.
func NewScheduler(reconcile service.ReconcileService, spec string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		reconcile: reconcile,
		spec:      spec,
	}
}

// Start registers the reconciliation job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunReconciliation); err != nil {
		return fmt.Errorf("scheduler: invalid RECONCILE_SCHEDULE %q: %w", s.spec, err)
	}
	s.cron.Start()
	log.Info().Str("schedule", s.spec).Msg("scheduler: started")
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("scheduler: stopped")
}

// RunReconciliation verifies the ledger once.
func (s *Scheduler) RunReconciliation() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.reconcile.Verify(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: reconciliation failed")
		return
	}
	ev := log.Info()
	if len(report.Discrepancies) > 0 {
		ev = log.Error()
	}
	ev.Int("products", report.CheckedProducts).
		Int("discrepancies", len(report.Discrepancies)).
		Msg("scheduler: reconciliation finished")
}
