package service

import (
	"context"
	"fmt"

	"barbersbuddies/pkg/events"
	"barbersbuddies/pkg/store"
)

// appendEvent records an integration event in the outbox. It must run inside
// the transaction of the write it describes.
func appendEvent(ctx context.Context, outbox store.OutboxRepository, eventType, aggregateID string, payload any) error {
	env, err := events.New(eventType, aggregateID, payload)
	if err != nil {
		return err
	}
	record, err := store.NewOutboxRecord(env)
	if err != nil {
		return err
	}
	if err := outbox.Append(ctx, record); err != nil {
		return fmt.Errorf("failed to append %s event: %w", eventType, err)
	}
	return nil
}
