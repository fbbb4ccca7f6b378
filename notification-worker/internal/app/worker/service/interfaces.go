package service

import (
	"context"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
	"barbersbuddies/pkg/events"
)

// Mailer delivers rendered emails.
type Mailer interface {
	Send(ctx context.Context, email entity.Email) error
}

// Pusher delivers device notifications.
type Pusher interface {
	Send(ctx context.Context, msg entity.PushMessage) error
}

// EventPublisher writes one event to the bus, keyed for per-aggregate order.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// TriggerServiceInterface runs the side effects bound to one event.
type TriggerServiceInterface interface {
	Handle(ctx context.Context, env *events.Envelope) error
}

type ReminderServiceInterface interface {
	SendDueReminders(ctx context.Context) (*entity.ReminderReport, error)
}

type OutboxRelayInterface interface {
	RelayDue(ctx context.Context) (int, error)
}
