package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/events"
)

type OutboxStatus string

const (
	OutboxPending   OutboxStatus = "pending"
	OutboxPublished OutboxStatus = "published"
	OutboxFailed    OutboxStatus = "failed"
)

// OutboxRecord is an event waiting to be relayed to Kafka. Envelope holds the
// exact bytes that will be published.
type OutboxRecord struct {
	ID            string       `bson:"_id"`
	Type          string       `bson:"type"`
	AggregateID   string       `bson:"aggregateId"`
	Envelope      []byte       `bson:"envelope"`
	Status        OutboxStatus `bson:"status"`
	Attempts      int          `bson:"attempts"`
	NextAttemptAt time.Time    `bson:"nextAttemptAt"`
	LastError     string       `bson:"lastError,omitempty"`
	CreatedAt     time.Time    `bson:"createdAt"`
	PublishedAt   *time.Time   `bson:"publishedAt,omitempty"`
}

// NewOutboxRecord wraps an envelope as a pending record, due immediately.
func NewOutboxRecord(env *events.Envelope) (*OutboxRecord, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	now := time.Now().UTC()
	return &OutboxRecord{
		ID:            env.ID,
		Type:          env.Type,
		AggregateID:   env.AggregateID,
		Envelope:      data,
		Status:        OutboxPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	}, nil
}

type outboxRepository struct {
	collection *mongo.Collection
}

func NewOutboxRepository(db *mongo.Database) OutboxRepository {
	return &outboxRepository{collection: db.Collection(domain.CollectionOutbox)}
}

func (r *outboxRepository) Append(ctx context.Context, record *OutboxRecord) error {
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to append outbox event: %w", err)
	}
	return nil
}

// FetchDue returns pending records whose next attempt is due, oldest first.
// A record is held back while an older record of the same aggregate is still
// waiting out its retry backoff, so each aggregate is published in order.
func (r *outboxRepository) FetchDue(ctx context.Context, now time.Time, limit int64) ([]OutboxRecord, error) {
	filter := bson.M{
		"status":        OutboxPending,
		"nextAttemptAt": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(limit)

	var records []OutboxRecord
	if err := r.find(ctx, filter, opts, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch outbox events: %w", err)
	}
	if len(records) == 0 {
		return records, nil
	}

	aggregates := make([]string, 0, len(records))
	seen := make(map[string]bool)
	for _, record := range records {
		if !seen[record.AggregateID] {
			seen[record.AggregateID] = true
			aggregates = append(aggregates, record.AggregateID)
		}
	}

	var waiting []OutboxRecord
	err := r.find(ctx, bson.M{
		"status":        OutboxPending,
		"aggregateId":   bson.M{"$in": aggregates},
		"nextAttemptAt": bson.M{"$gt": now},
	}, options.Find().SetProjection(bson.M{"aggregateId": 1, "createdAt": 1}), &waiting)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch waiting outbox events: %w", err)
	}

	return holdBackWaiting(records, waiting), nil
}

// holdBackWaiting drops due records created after a waiting record of the
// same aggregate.
func holdBackWaiting(due, waiting []OutboxRecord) []OutboxRecord {
	if len(waiting) == 0 {
		return due
	}
	oldest := make(map[string]time.Time, len(waiting))
	for _, w := range waiting {
		if at, ok := oldest[w.AggregateID]; !ok || w.CreatedAt.Before(at) {
			oldest[w.AggregateID] = w.CreatedAt
		}
	}

	ready := due[:0]
	for _, record := range due {
		if at, ok := oldest[record.AggregateID]; ok && record.CreatedAt.After(at) {
			continue
		}
		ready = append(ready, record)
	}
	return ready
}

func (r *outboxRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions, out *[]OutboxRecord) error {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	return r.set(ctx, id, bson.M{
		"status":      OutboxPublished,
		"publishedAt": at,
	})
}

func (r *outboxRepository) MarkRetry(ctx context.Context, id string, attempts int, next time.Time, lastErr string) error {
	return r.set(ctx, id, bson.M{
		"attempts":      attempts,
		"nextAttemptAt": next,
		"lastError":     lastErr,
	})
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, attempts int, lastErr string) error {
	return r.set(ctx, id, bson.M{
		"status":    OutboxFailed,
		"attempts":  attempts,
		"lastError": lastErr,
	})
}

func (r *outboxRepository) set(ctx context.Context, id string, fields bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update outbox event: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
