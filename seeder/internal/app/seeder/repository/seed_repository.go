package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barbersbuddies/pkg/domain"
	"barbersbuddies/seeder/internal/app/seeder/generator"
)

// SeededCollections are the collections written by Insert and dropped by
// Clean, in insertion order.
var SeededCollections = []string{
	domain.CollectionUsers,
	domain.CollectionPreferences,
	domain.CollectionShops,
	domain.CollectionShopNames,
	domain.CollectionBookings,
	domain.CollectionRatings,
	domain.CollectionMessages,
	domain.CollectionNotifications,
}

// Derived by the running services, never seeded, but cleared by Clean so a
// fresh seed does not inherit stale events.
var derivedCollections = []string{
	domain.CollectionOutbox,
	domain.CollectionDeletedAccounts,
}

type SeedRepository struct {
	db *mongo.Database
}

func NewSeedRepository(db *mongo.Database) *SeedRepository {
	return &SeedRepository{db: db}
}

// Insert bulk-writes the dataset and returns the number of documents
// written per collection. Documents are written directly, so no outbox
// events are produced for them.
func (r *SeedRepository) Insert(ctx context.Context, data *generator.Dataset) (map[string]int, error) {
	batches := map[string][]interface{}{
		domain.CollectionUsers:         toDocuments(data.Users),
		domain.CollectionPreferences:   toDocuments(data.Preferences),
		domain.CollectionShops:         toDocuments(data.Shops),
		domain.CollectionShopNames:     toDocuments(data.ShopNames),
		domain.CollectionBookings:      toDocuments(data.Bookings),
		domain.CollectionRatings:       toDocuments(data.Ratings),
		domain.CollectionMessages:      toDocuments(data.Messages),
		domain.CollectionNotifications: toDocuments(data.Notifications),
	}

	counts := make(map[string]int, len(batches))
	for _, name := range SeededCollections {
		docs := batches[name]
		if len(docs) == 0 {
			continue
		}
		result, err := r.db.Collection(name).InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
		if err != nil {
			return counts, fmt.Errorf("failed to insert %s: %w", name, err)
		}
		counts[name] = len(result.InsertedIDs)
	}
	return counts, nil
}

// Clean drops every seeded collection. Dropping a missing collection is not
// an error.
func (r *SeedRepository) Clean(ctx context.Context) ([]string, error) {
	var dropped []string
	for _, name := range append(append([]string{}, SeededCollections...), derivedCollections...) {
		if err := r.db.Collection(name).Drop(ctx); err != nil {
			return dropped, fmt.Errorf("failed to drop %s: %w", name, err)
		}
		dropped = append(dropped, name)
	}
	return dropped, nil
}

func toDocuments[T any](items []T) []interface{} {
	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	return docs
}
