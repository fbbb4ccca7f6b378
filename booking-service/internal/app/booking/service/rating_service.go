package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"barbersbuddies/booking-service/internal/app/booking/entity"
	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/events"
	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/metrics"
	"barbersbuddies/pkg/store"
)

type RatingService struct {
	tx            store.TxManager
	ratings       store.RatingRepository
	bookings      store.BookingRepository
	notifications store.NotificationRepository
	outbox        store.OutboxRepository
}

func NewRatingService(
	tx store.TxManager,
	ratings store.RatingRepository,
	bookings store.BookingRepository,
	notifications store.NotificationRepository,
	outbox store.OutboxRepository,
) *RatingService {
	return &RatingService{
		tx:            tx,
		ratings:       ratings,
		bookings:      bookings,
		notifications: notifications,
		outbox:        outbox,
	}
}

// RespondToRating attaches the shop's reply to a rating and notifies the
// reviewer. A rating of another shop is reported as not found.
func (s *RatingService) RespondToRating(ctx context.Context, req *entity.RespondToRatingRequest) error {
	rating, err := s.ratings.GetByID(ctx, req.RatingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRatingNotFound
		}
		return fmt.Errorf("failed to get rating: %w", err)
	}
	if rating.ShopID != req.ShopID {
		return ErrRatingNotFound
	}

	response := domain.ShopResponse{
		Content:   req.Response,
		Timestamp: nowUTC(),
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.ratings.SetShopResponse(ctx, rating.ID, response); err != nil {
			return err
		}
		if rating.UserID == "" {
			return nil
		}
		return s.notifications.Create(ctx, &domain.Notification{
			ID:        uuid.NewString(),
			UserID:    rating.UserID,
			Type:      domain.NotificationRatingReply,
			Title:     "The shop responded to your review",
			Message:   preview(req.Response),
			BookingID: rating.BookingID,
			RatingID:  rating.ID,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRatingNotFound
		}
		return fmt.Errorf("failed to respond to rating: %w", err)
	}

	logger.Info().Str("rating_id", rating.ID).Str("shop_id", rating.ShopID).Msg("Shop responded to rating")
	return nil
}

// SubmitRating records the customer's rating of a completed booking. The
// shop aggregates are recomputed by the worker on rating.created.
func (s *RatingService) SubmitRating(ctx context.Context, req *entity.SubmitRatingRequest) (*domain.Rating, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking.ShopID != req.ShopID {
		return nil, ErrBookingNotFound
	}
	if booking.IsRated {
		return nil, ErrAlreadyRated
	}
	if booking.Status != domain.StatusCompleted {
		return nil, ErrNotCompleted
	}

	rating := &domain.Rating{
		ID:        uuid.NewString(),
		ShopID:    req.ShopID,
		BookingID: req.BookingID,
		UserID:    req.UserID,
		Rating:    req.Rating,
		Review:    req.Review,
	}

	booking.IsRated = true
	booking.Rating = req.Rating
	booking.Review = req.Review
	booking.RatingID = rating.ID

	staged := *booking
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		*booking = staged
		if err := s.ratings.Create(ctx, rating); err != nil {
			return err
		}
		if err := s.bookings.Update(ctx, booking); err != nil {
			return err
		}
		return appendEvent(ctx, s.outbox, events.RatingCreated, rating.ShopID, events.RatingCreatedPayload{Rating: *rating})
	})
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("failed to submit rating: %w", err)
	}

	metrics.RatingsSubmitted.Observe(float64(rating.Rating))
	logger.Info().
		Str("rating_id", rating.ID).
		Str("shop_id", rating.ShopID).
		Int("rating", rating.Rating).
		Msg("Rating submitted")

	return rating, nil
}
