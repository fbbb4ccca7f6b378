package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
	"barbersbuddies/pkg/metrics"
)

const (
	reminderKeyPrefix = "reminder:"
	serviceName       = "notification-worker"
)

type reminderDedupe struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReminderDedupe keeps claims for ttl, which must outlive the widest
// reminder window.
func NewReminderDedupe(client *redis.Client, ttl time.Duration) ReminderDedupe {
	return &reminderDedupe{client: client, ttl: ttl}
}

func reminderKey(claim entity.ReminderClaim) string {
	return reminderKeyPrefix + claim.BookingID + ":" + claim.Appointment + ":" + string(claim.Window)
}

func (r *reminderDedupe) Claim(ctx context.Context, claim entity.ReminderClaim) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, "setnx")
	defer timer.ObserveDuration()

	ok, err := r.client.SetNX(ctx, reminderKey(claim), time.Now().UTC().Format(time.RFC3339), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder: %w", err)
	}
	return ok, nil
}

func (r *reminderDedupe) Release(ctx context.Context, claim entity.ReminderClaim) error {
	timer := metrics.NewRedisTimer(serviceName, "del")
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, reminderKey(claim)).Err(); err != nil {
		return fmt.Errorf("failed to release reminder claim: %w", err)
	}
	return nil
}
