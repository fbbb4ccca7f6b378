package processor

import (
	"context"

	"github.com/robfig/cron/v3"

	"barbersbuddies/notification-worker/internal/app/worker/service"
	"barbersbuddies/pkg/logger"
)

// CronScheduler runs the reminder job and the outbox relay. A run that is
// still in progress when its next tick fires is skipped.
type CronScheduler struct {
	cron      *cron.Cron
	reminders service.ReminderServiceInterface
	relay     service.OutboxRelayInterface
}

func NewCronScheduler(reminders service.ReminderServiceInterface, relay service.OutboxRelayInterface) *CronScheduler {
	cronLogger := cron.PrintfLogger(logger.Printf{Component: "cron"})
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	return &CronScheduler{
		cron:      c,
		reminders: reminders,
		relay:     relay,
	}
}

func (s *CronScheduler) Start(ctx context.Context, reminderSchedule, outboxSchedule string) error {
	if _, err := s.cron.AddFunc(reminderSchedule, func() { s.runReminders(ctx) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(outboxSchedule, func() { s.runRelay(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().
		Str("reminders", reminderSchedule).
		Str("outbox", outboxSchedule).
		Msg("Cron scheduler started")

	// Flush whatever piled up while the worker was down.
	s.runRelay(ctx)

	return nil
}

func (s *CronScheduler) runReminders(ctx context.Context) {
	logger.Info().Msg("Cron job triggered: sending due reminders")

	report, err := s.reminders.SendDueReminders(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Reminder job failed")
		return
	}
	logger.Info().Int("sent", report.Sent).Msg("Reminder job completed")
}

func (s *CronScheduler) runRelay(ctx context.Context) {
	published, err := s.relay.RelayDue(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Outbox relay failed")
		return
	}
	if published > 0 {
		logger.Info().Int("published", published).Msg("Outbox relay completed")
	}
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
