// Package scheduler triggers the daily and hourly reminder sweeps.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"taxmind/internal/config"
	"taxmind/internal/obs"
	"taxmind/internal/services"
)

// Scheduler owns the cron entries for both sweeps. A sweep trigger that
// fires while a previous sweep is still running is skipped, not queued:
// overlapping sweeps would race on the sent-reminder log.
type Scheduler struct {
	reminders *services.ReminderService
	cfg       config.Config
	log       *zap.SugaredLogger
	cron      *cron.Cron
	sweepMu   sync.Mutex
}

// New builds a stopped scheduler
func New(reminders *services.ReminderService, cfg config.Config, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		cfg:       cfg,
		log:       log,
		cron:      cron.New(cron.WithLocation(cfg.Timezone)),
	}
}

// Start registers the daily and hourly entries and launches the cron loop
func (s *Scheduler) Start() error {
	dailySpec := fmt.Sprintf("%d %d * * *", s.cfg.DailyMinute, s.cfg.DailyHour)
	if _, err := s.cron.AddFunc(dailySpec, s.runDaily); err != nil {
		return fmt.Errorf("failed to schedule daily sweep: %w", err)
	}
	if _, err := s.cron.AddFunc("0 * * * *", s.runHourly); err != nil {
		return fmt.Errorf("failed to schedule hourly sweep: %w", err)
	}

	s.cron.Start()
	s.log.Infow("schedulers set",
		"daily", fmt.Sprintf("%02d:%02d", s.cfg.DailyHour, s.cfg.DailyMinute),
		"timezone", s.cfg.Timezone.String())
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runDaily() {
	s.runSweep("daily", func(ctx context.Context) (services.DispatchReport, error) {
		return s.reminders.SendDaily(ctx, s.reminders.Today())
	})
}

func (s *Scheduler) runHourly() {
	s.runSweep("hourly", func(ctx context.Context) (services.DispatchReport, error) {
		return s.reminders.SendHourly(ctx)
	})
}

func (s *Scheduler) runSweep(kind string, sweep func(context.Context) (services.DispatchReport, error)) {
	if !s.sweepMu.TryLock() {
		s.log.Warnw("sweep still running, skipping trigger", "kind", kind)
		obs.SweepsSkipped.Inc()
		return
	}
	defer s.sweepMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	report, err := sweep(ctx)
	if err != nil {
		s.log.Errorw("sweep failed", "kind", kind, "error", err)
		return
	}
	s.log.Infow("sweep finished", "kind", kind,
		"delivered", report.Delivered, "failed", report.Failed, "recorded", report.Recorded)
}
