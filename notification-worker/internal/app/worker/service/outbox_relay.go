package service

import (
	"context"
	"fmt"
	"time"

	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/metrics"
	"barbersbuddies/pkg/store"
)

const maxBackoff = 10 * time.Minute

// OutboxRelay moves pending outbox records to the event bus.
type OutboxRelay struct {
	outbox      store.OutboxRepository
	publisher   EventPublisher
	maxAttempts int
	batchSize   int64
	now         func() time.Time
}

func NewOutboxRelay(outbox store.OutboxRepository, publisher EventPublisher, maxAttempts int, batchSize int64) *OutboxRelay {
	return &OutboxRelay{
		outbox:      outbox,
		publisher:   publisher,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Backoff is the delay before retry number attempts: 2^attempts seconds,
// capped at ten minutes.
func Backoff(attempts int) time.Duration {
	if attempts >= 10 {
		return maxBackoff
	}
	d := time.Duration(1<<uint(attempts)) * time.Second
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// RelayDue publishes every due record, oldest first, and returns how many
// were published. Once a record of an aggregate fails, later records of the
// same aggregate wait for the next run.
func (r *OutboxRelay) RelayDue(ctx context.Context) (int, error) {
	records, err := r.outbox.FetchDue(ctx, r.now(), r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load outbox: %w", err)
	}

	published := 0
	blocked := make(map[string]bool)

	for i := range records {
		record := &records[i]
		if err := ctx.Err(); err != nil {
			return published, err
		}
		if blocked[record.AggregateID] {
			continue
		}

		if err := r.publisher.Publish(ctx, record.AggregateID, record.Envelope); err != nil {
			blocked[record.AggregateID] = true
			r.fail(ctx, record, err)
			continue
		}

		if err := r.outbox.MarkPublished(ctx, record.ID, r.now()); err != nil {
			// The record stays pending and is published again; consumers
			// tolerate duplicates.
			logger.Error().Err(err).Str("event_id", record.ID).Msg("Failed to mark outbox event published")
			continue
		}

		published++
		metrics.OutboxEvents.WithLabelValues("published").Inc()
		logger.Debug().
			Str("event_id", record.ID).
			Str("event_type", record.Type).
			Str("aggregate_id", record.AggregateID).
			Msg("Outbox event published")
	}

	return published, nil
}

func (r *OutboxRelay) fail(ctx context.Context, record *store.OutboxRecord, cause error) {
	attempts := record.Attempts + 1

	if attempts >= r.maxAttempts {
		if err := r.outbox.MarkFailed(ctx, record.ID, attempts, cause.Error()); err != nil {
			logger.Error().Err(err).Str("event_id", record.ID).Msg("Failed to mark outbox event failed")
			return
		}
		metrics.OutboxEvents.WithLabelValues("failed").Inc()
		logger.Error().
			Err(cause).
			Str("event_id", record.ID).
			Str("event_type", record.Type).
			Int("attempts", attempts).
			Msg("Outbox event abandoned")
		return
	}

	next := r.now().Add(Backoff(attempts))
	if err := r.outbox.MarkRetry(ctx, record.ID, attempts, next, cause.Error()); err != nil {
		logger.Error().Err(err).Str("event_id", record.ID).Msg("Failed to schedule outbox retry")
		return
	}
	metrics.OutboxEvents.WithLabelValues("retry").Inc()
	logger.Warn().
		Err(cause).
		Str("event_id", record.ID).
		Int("attempts", attempts).
		Time("next_attempt_at", next).
		Msg("Outbox publish failed, will retry")
}
