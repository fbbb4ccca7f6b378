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
	"barbersbuddies/pkg/metrics"
)

type bookingRepository struct {
	collection *mongo.Collection
	service    string
}

func NewBookingRepository(db *mongo.Database, service string) BookingRepository {
	return &bookingRepository{
		collection: db.Collection(domain.CollectionBookings),
		service:    service,
	}
}

// Create inserts a new booking at version 1.
func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	timer := metrics.NewDbTimer(r.service, metrics.DbOpInsert, domain.CollectionBookings)

	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	_, err := r.collection.InsertOne(ctx, booking)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	timer := metrics.NewDbTimer(r.service, metrics.DbOpSelect, domain.CollectionBookings)

	var booking domain.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	timer.Done(err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// Update replaces the booking only if it still has the version that was read.
// On success booking.Version is advanced.
func (r *bookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	timer := metrics.NewDbTimer(r.service, metrics.DbOpUpdate, domain.CollectionBookings)

	expected := booking.Version
	next := *booking
	next.Version = expected + 1
	next.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": booking.ID, "version": expected}, &next)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}

	*booking = next
	return nil
}

// FindSlotConflict returns another booking of the shop holding the slot, or
// ErrNotFound when the slot is free.
func (r *bookingRepository) FindSlotConflict(ctx context.Context, shopID, date, clock, excludeID string) (*domain.Booking, error) {
	filter := bson.M{
		"shopId":       shopID,
		"selectedDate": date,
		"selectedTime": clock,
		"status": bson.M{"$in": []domain.BookingStatus{
			domain.StatusConfirmed,
			domain.StatusPending,
		}},
		"_id": bson.M{"$ne": excludeID},
	}

	var booking domain.Booking
	if err := r.collection.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	timer := metrics.NewDbTimer(r.service, metrics.DbOpSelect, domain.CollectionBookings)

	opts := options.Find().SetSort(bson.D{{Key: "selectedDate", Value: 1}, {Key: "selectedTime", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []domain.Booking
	err = cursor.All(ctx, &bookings)
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
