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
)

type shopRepository struct {
	collection *mongo.Collection
}

func NewShopRepository(db *mongo.Database) ShopRepository {
	return &shopRepository{collection: db.Collection(domain.CollectionShops)}
}

func (r *shopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	now := time.Now().UTC()
	shop.CreatedAt = now
	shop.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, shop); err != nil {
		return fmt.Errorf("failed to create shop: %w", err)
	}
	return nil
}

func (r *shopRepository) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	var shop domain.Shop
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&shop); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return &shop, nil
}

// Update writes the owner-editable fields; rating aggregates are left alone.
func (r *shopRepository) Update(ctx context.Context, shop *domain.Shop) error {
	shop.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":         shop.Name,
			"email":        shop.Email,
			"phone":        shop.Phone,
			"address":      shop.Address,
			"services":     shop.Services,
			"employees":    shop.Employees,
			"availability": shop.Availability,
			"updatedAt":    shop.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": shop.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update shop: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *shopRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *shopRepository) UpdateRatingSummary(ctx context.Context, shopID string, summary RatingSummary) error {
	update := bson.M{
		"$set": bson.M{
			"ratings":            summary.Ratings,
			"averageRating":      summary.Average,
			"ratingCount":        summary.Count,
			"ratingDistribution": summary.Distribution,
			"lastRatedAt":        summary.LastRatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": shopID}, update)
	if err != nil {
		return fmt.Errorf("failed to update shop rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type shopNameRepository struct {
	collection *mongo.Collection
}

func NewShopNameRepository(db *mongo.Database) ShopNameRepository {
	return &shopNameRepository{collection: db.Collection(domain.CollectionShopNames)}
}

func (r *shopNameRepository) Upsert(ctx context.Context, entry *domain.ShopName) error {
	entry.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":       entry.Name,
			"searchName": entry.SearchName,
			"updatedAt":  entry.UpdatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": entry.ID}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert shop name: %w", err)
	}
	return nil
}

func (r *shopNameRepository) GetByID(ctx context.Context, shopID string) (*domain.ShopName, error) {
	var entry domain.ShopName
	if err := r.collection.FindOne(ctx, bson.M{"_id": shopID}).Decode(&entry); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shop name: %w", err)
	}
	return &entry, nil
}

func (r *shopNameRepository) FindBySearchName(ctx context.Context, searchName string) ([]domain.ShopName, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"searchName": searchName})
	if err != nil {
		return nil, fmt.Errorf("failed to find shop names: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []domain.ShopName{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode shop names: %w", err)
	}
	return entries, nil
}

// Delete is idempotent: a missing entry is not an error.
func (r *shopNameRepository) Delete(ctx context.Context, shopID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": shopID}); err != nil {
		return fmt.Errorf("failed to delete shop name: %w", err)
	}
	return nil
}
