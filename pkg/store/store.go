package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/logger"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrVersionConflict = errors.New("document was modified concurrently")
)

// Connect dials MongoDB and pings it, retrying while the server comes up.
func Connect(ctx context.Context, uri string, attempts int) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)

	var client *mongo.Client
	var err error

	for i := 0; i < attempts; i++ {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err = mongo.Connect(connectCtx, clientOptions)
		cancel()
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
			err = client.Ping(pingCtx, nil)
			pingCancel()
			if err == nil {
				return client, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}

	return nil, fmt.Errorf("failed to connect to MongoDB after %d attempts: %w", attempts, err)
}

type index struct {
	collection string
	name       string
	keys       bson.D
	unique     bool
}

var indexes = []index{
	{domain.CollectionBookings, "shop_slot_idx", bson.D{{Key: "shopId", Value: 1}, {Key: "selectedDate", Value: 1}, {Key: "selectedTime", Value: 1}}, false},
	{domain.CollectionBookings, "status_idx", bson.D{{Key: "status", Value: 1}}, false},
	{domain.CollectionShopNames, "search_name_idx", bson.D{{Key: "searchName", Value: 1}}, false},
	{domain.CollectionRatings, "shop_idx", bson.D{{Key: "shopId", Value: 1}}, false},
	{domain.CollectionMessages, "booking_idx", bson.D{{Key: "bookingId", Value: 1}, {Key: "timestamp", Value: 1}}, false},
	{domain.CollectionNotifications, "user_idx", bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}, false},
	{domain.CollectionOutbox, "due_idx", bson.D{{Key: "status", Value: 1}, {Key: "nextAttemptAt", Value: 1}}, false},
}

// EnsureIndexes creates the secondary indexes; failures are logged since an
// index may already exist with different options.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, idx := range indexes {
		model := mongo.IndexModel{
			Keys:    idx.keys,
			Options: options.Index().SetName(idx.name).SetUnique(idx.unique),
		}
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, model); err != nil {
			logger.Warn().Err(err).
				Str("collection", idx.collection).
				Str("index", idx.name).
				Msg("Failed to create index")
		}
	}
}
