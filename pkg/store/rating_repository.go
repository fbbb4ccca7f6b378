package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barbersbuddies/pkg/domain"
)

type ratingRepository struct {
	collection *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) RatingRepository {
	return &ratingRepository{collection: db.Collection(domain.CollectionRatings)}
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	rating.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, rating); err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id string) (*domain.Rating, error) {
	var rating domain.Rating
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rating); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &rating, nil
}

func (r *ratingRepository) SetShopResponse(ctx context.Context, id string, response domain.ShopResponse) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"shopResponse": response},
	})
	if err != nil {
		return fmt.Errorf("failed to save shop response: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListScoresByShop returns every score of the shop, oldest first.
func (r *ratingRepository) ListScoresByShop(ctx context.Context, shopID string) ([]int, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetProjection(bson.M{"rating": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"shopId": shopID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Rating int `bson:"rating"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}

	scores := make([]int, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, row.Rating)
	}
	return scores, nil
}

// SummarizeRatings builds the shop aggregate from individual scores.
func SummarizeRatings(scores []int, lastRatedAt time.Time) RatingSummary {
	summary := RatingSummary{
		Ratings:      scores,
		Count:        len(scores),
		Distribution: map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
		LastRatedAt:  lastRatedAt,
	}

	sum := 0
	for _, score := range scores {
		sum += score
		summary.Distribution[strconv.Itoa(score)]++
	}
	if len(scores) > 0 {
		summary.Average = math.Round(float64(sum)/float64(len(scores))*100) / 100
	}
	return summary
}
