package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/unimanage/unimanage-api/internal/service"
)

// Scheduler runs the inactivity reminder scan on a fixed interval,
// independently of request handling. It stops when its context is
// cancelled.
type Scheduler struct {
	reminders service.ReminderService
	interval  time.Duration
	logger    zerolog.Logger
}

// New constructs a scheduler.
func New(reminders service.ReminderService, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}

	return &Scheduler{
		reminders: reminders,
		interval:  interval,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Run blocks until ctx is cancelled, triggering one reminder scan per
// tick. A failed scan is logged; the next tick runs regardless.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("reminder scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("reminder scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.reminders.CheckLastLoginAndSendEmail(ctx); err != nil {
				s.logger.Error().Err(err).Msg("reminder scan failed")
			}
		}
	}
}
