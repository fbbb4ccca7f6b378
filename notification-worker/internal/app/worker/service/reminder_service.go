package service

import (
	"context"
	"fmt"
	"time"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
	"barbersbuddies/notification-worker/internal/app/worker/repository"
	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/metrics"
	"barbersbuddies/pkg/store"
)

// ReminderService emails customers ahead of confirmed appointments, once
// per booking slot and window.
type ReminderService struct {
	bookings    store.BookingRepository
	preferences store.PreferenceRepository
	dedupe      repository.ReminderDedupe
	audits      repository.ReminderAuditRepository
	mailer      Mailer
	loc         *time.Location
	now         func() time.Time
}

func NewReminderService(
	bookings store.BookingRepository,
	preferences store.PreferenceRepository,
	dedupe repository.ReminderDedupe,
	audits repository.ReminderAuditRepository,
	mailer Mailer,
	loc *time.Location,
) *ReminderService {
	return &ReminderService{
		bookings:    bookings,
		preferences: preferences,
		dedupe:      dedupe,
		audits:      audits,
		mailer:      mailer,
		loc:         loc,
		now:         time.Now,
	}
}

func (s *ReminderService) SendDueReminders(ctx context.Context) (*entity.ReminderReport, error) {
	start := time.Now()
	defer func() { metrics.ReminderRunDuration.Observe(time.Since(start).Seconds()) }()

	prefs, err := s.preferences.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	byUser := make(map[string]domain.NotificationPreference, len(prefs))
	for _, p := range prefs {
		byUser[p.UserID] = p
	}

	bookings, err := s.bookings.ListByStatus(ctx, domain.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmed bookings: %w", err)
	}

	report := &entity.ReminderReport{}
	now := s.now()

	for i := range bookings {
		booking := &bookings[i]
		report.Checked++

		pref, ok := byUser[booking.UserID]
		if booking.UserID == "" || !ok || booking.UserEmail == "" {
			continue
		}

		at, err := domain.AppointmentTime(booking.SelectedDate, booking.SelectedTime, s.loc)
		if err != nil {
			logger.Warn().Err(err).Str("booking_id", booking.ID).Msg("Skipping booking with unparseable appointment time")
			continue
		}

		hoursUntil := at.Sub(now).Hours()
		window, ok := entity.WindowFor(hoursUntil)
		if !ok || !window.EnabledIn(pref) {
			continue
		}

		s.remind(ctx, booking, window, hoursUntil, report)
	}

	logger.Info().
		Int("checked", report.Checked).
		Int("sent", report.Sent).
		Int("duplicates", report.Duplicates).
		Int("failed", report.Failed).
		Msg("Reminder run finished")

	return report, nil
}

func (s *ReminderService) remind(ctx context.Context, booking *domain.Booking, window entity.ReminderWindow, hoursUntil float64, report *entity.ReminderReport) {
	log := logger.With().Str("booking_id", booking.ID).Str("window", string(window)).Logger()
	claim := entity.NewReminderClaim(booking, window)

	claimed, err := s.dedupe.Claim(ctx, claim)
	if err != nil {
		report.Failed++
		metrics.RemindersSent.WithLabelValues(string(window), "failed").Inc()
		log.Error().Err(err).Msg("Failed to claim reminder")
		return
	}
	if !claimed {
		report.Duplicates++
		metrics.RemindersSent.WithLabelValues(string(window), "duplicate").Inc()
		return
	}

	email, err := reminderEmail(booking, window)
	if err == nil {
		err = s.mailer.Send(ctx, email)
	}
	if err != nil {
		report.Failed++
		metrics.RemindersSent.WithLabelValues(string(window), "failed").Inc()
		log.Error().Err(err).Msg("Failed to send reminder")
		if releaseErr := s.dedupe.Release(ctx, claim); releaseErr != nil {
			log.Error().Err(releaseErr).Msg("Failed to release reminder claim")
		}
		return
	}

	report.Sent++
	metrics.RemindersSent.WithLabelValues(string(window), "sent").Inc()

	audit := &entity.ReminderAudit{
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		Email:      booking.UserEmail,
		Window:     string(window),
		HoursUntil: hoursUntil,
		SentAt:     s.now().UTC(),
	}
	if err := s.audits.Create(ctx, audit); err != nil {
		log.Error().Err(err).Msg("Failed to record reminder audit")
	}
}
