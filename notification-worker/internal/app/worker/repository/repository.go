package repository

import (
	"context"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
)

// ReminderDedupe remembers which (booking, slot, window) reminders went out.
type ReminderDedupe interface {
	// Claim marks the reminder as sent. It returns false when an earlier
	// run already claimed it.
	Claim(ctx context.Context, claim entity.ReminderClaim) (bool, error)

	// Release drops a claim so a failed send can be retried.
	Release(ctx context.Context, claim entity.ReminderClaim) error
}

// ReminderAuditRepository records sent reminders in PostgreSQL.
type ReminderAuditRepository interface {
	Create(ctx context.Context, audit *entity.ReminderAudit) error
	ListByBooking(ctx context.Context, bookingID string) ([]entity.ReminderAudit, error)
}
