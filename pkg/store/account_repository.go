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

type messageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{collection: db.Collection(domain.CollectionMessages)}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	message.Timestamp = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, message); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

type notificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	return &notificationRepository{collection: db.Collection(domain.CollectionNotifications)}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	notification.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{collection: db.Collection(domain.CollectionUsers)}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateFCMToken upserts so a token can be registered before the profile
// document exists.
func (r *userRepository) UpdateFCMToken(ctx context.Context, id, token string) error {
	update := bson.M{
		"$set": bson.M{
			"fcmToken":          token,
			"fcmTokenUpdatedAt": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{"createdAt": time.Now().UTC()},
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to update fcm token: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

type preferenceRepository struct {
	collection *mongo.Collection
}

func NewPreferenceRepository(db *mongo.Database) PreferenceRepository {
	return &preferenceRepository{collection: db.Collection(domain.CollectionPreferences)}
}

func (r *preferenceRepository) Upsert(ctx context.Context, pref *domain.NotificationPreference) error {
	pref.UpdatedAt = time.Now().UTC()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": pref.UserID}, pref, opts); err != nil {
		return fmt.Errorf("failed to save notification preferences: %w", err)
	}
	return nil
}

func (r *preferenceRepository) ListEnabled(ctx context.Context) ([]domain.NotificationPreference, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"enabled": true})
	if err != nil {
		return nil, fmt.Errorf("failed to find notification preferences: %w", err)
	}
	defer cursor.Close(ctx)

	var prefs []domain.NotificationPreference
	if err := cursor.All(ctx, &prefs); err != nil {
		return nil, fmt.Errorf("failed to decode notification preferences: %w", err)
	}
	return prefs, nil
}

func (r *preferenceRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("failed to delete notification preferences: %w", err)
	}
	return nil
}

type deletedAccountRepository struct {
	collection *mongo.Collection
}

func NewDeletedAccountRepository(db *mongo.Database) DeletedAccountRepository {
	return &deletedAccountRepository{collection: db.Collection(domain.CollectionDeletedAccounts)}
}

func (r *deletedAccountRepository) Create(ctx context.Context, account *domain.DeletedAccount) error {
	account.DeletedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, account); err != nil {
		return fmt.Errorf("failed to record deleted account: %w", err)
	}
	return nil
}
