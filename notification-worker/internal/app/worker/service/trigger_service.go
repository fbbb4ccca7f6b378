package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/events"
	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/metrics"
	"barbersbuddies/pkg/store"
)

// TriggerDependencies lists what the triggers read and write. Pusher and
// Cache may be nil.
type TriggerDependencies struct {
	Mailer        Mailer
	Pusher        Pusher
	Users         store.UserRepository
	Preferences   store.PreferenceRepository
	Shops         store.ShopRepository
	ShopNames     store.ShopNameRepository
	Ratings       store.RatingRepository
	Notifications store.NotificationRepository
	Cache         store.ShopLookupCache
}

// TriggerService reacts to document changes relayed from the outbox. Every
// handler is safe to run more than once for the same event.
type TriggerService struct {
	deps TriggerDependencies
}

func NewTriggerService(deps TriggerDependencies) *TriggerService {
	return &TriggerService{deps: deps}
}

func (s *TriggerService) Handle(ctx context.Context, env *events.Envelope) error {
	var err error

	switch env.Type {
	case events.BookingCreated:
		err = s.onBookingCreated(ctx, env)
	case events.BookingUpdated:
		err = s.onBookingUpdated(ctx, env)
	case events.MessageCreated:
		err = s.onMessageCreated(ctx, env)
	case events.RatingCreated:
		err = s.onRatingCreated(ctx, env)
	case events.ShopCreated, events.ShopUpdated, events.ShopDeleted:
		err = s.syncShopName(ctx, env)
	case events.AccountDeleted:
		err = s.onAccountDeleted(ctx, env)
	default:
		logger.Warn().Str("event_type", env.Type).Str("event_id", env.ID).Msg("Ignoring unknown event type")
		return nil
	}

	metrics.RecordTrigger(env.Type, err)
	if err != nil {
		return fmt.Errorf("%s trigger failed: %w", env.Type, err)
	}
	return nil
}

func (s *TriggerService) onBookingCreated(ctx context.Context, env *events.Envelope) error {
	payload, err := events.Decode[events.BookingCreatedPayload](env)
	if err != nil {
		return err
	}
	booking := &payload.Booking

	emails, err := bookingCreatedEmails(booking)
	if err != nil {
		return err
	}
	if err := s.sendAll(ctx, emails); err != nil {
		return err
	}

	logger.Info().
		Str("booking_id", booking.ID).
		Str("total_price", domain.FormatPrice(booking.TotalPrice)).
		Msg("Booking emails sent")
	return nil
}

func (s *TriggerService) onBookingUpdated(ctx context.Context, env *events.Envelope) error {
	payload, err := events.Decode[events.BookingUpdatedPayload](env)
	if err != nil {
		return err
	}
	before, after := &payload.Before, &payload.After

	var emails []entity.Email
	switch payload.Change {
	case events.ChangeCancelled:
		emails, err = bookingCancelledEmails(after)
	case events.ChangeRescheduled:
		emails, err = bookingRescheduledEmails(after)
	case events.ChangeUpdated:
		emails, err = bookingUpdatedEmail(after)
	}
	if err != nil {
		return err
	}

	var errs []error
	if err := s.sendAll(ctx, emails); err != nil {
		errs = append(errs, err)
	}
	if before.Status != after.Status {
		if err := s.onStatusChanged(ctx, env.ID, before, after); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// onStatusChanged tells the customer about a status transition. The
// notification id is derived from the event so a redelivery does not
// duplicate it.
func (s *TriggerService) onStatusChanged(ctx context.Context, eventID string, before, after *domain.Booking) error {
	if after.UserID != "" {
		notification := &domain.Notification{
			ID:        eventID,
			UserID:    after.UserID,
			Type:      domain.NotificationStatusChanged,
			Title:     "Booking " + capitalize(string(after.Status)),
			Message:   fmt.Sprintf("Your booking at %s on %s at %s is now %s.", shopName(after), after.SelectedDate, after.SelectedTime, after.Status),
			BookingID: after.ID,
		}
		if err := s.deps.Notifications.Create(ctx, notification); err != nil && !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to create status notification: %w", err)
		}
	}

	email, err := statusChangedEmail(before, after)
	if err != nil {
		return err
	}
	return s.sendAll(ctx, []entity.Email{email})
}

// onMessageCreated pushes to the recipient's device and emails them. The two
// channels are independent.
func (s *TriggerService) onMessageCreated(ctx context.Context, env *events.Envelope) error {
	payload, err := events.Decode[events.MessageCreatedPayload](env)
	if err != nil {
		return err
	}
	msg := &payload.Message
	sender := payload.SenderName
	if sender == "" {
		sender = "BarbersBuddies"
	}

	var errs []error

	if err := s.pushMessage(ctx, payload.RecipientID, sender, msg); err != nil {
		errs = append(errs, err)
	}

	if payload.RecipientEmail != "" {
		email, err := messageEmail(payload.RecipientEmail, sender, msg)
		if err == nil {
			err = s.deps.Mailer.Send(ctx, email)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("message email: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (s *TriggerService) pushMessage(ctx context.Context, recipientID, sender string, msg *domain.Message) error {
	if s.deps.Pusher == nil || recipientID == "" {
		return nil
	}

	user, err := s.deps.Users.GetByID(ctx, recipientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("message push: %w", err)
	}
	if user.FCMToken == "" {
		return nil
	}

	err = s.deps.Pusher.Send(ctx, entity.PushMessage{
		Token: user.FCMToken,
		Title: "New message from " + sender,
		Body:  preview(msg.Content, 100),
		Data: map[string]string{
			"type":      domain.NotificationNewMessage,
			"bookingId": msg.BookingID,
			"messageId": msg.ID,
		},
	})
	if err != nil {
		return fmt.Errorf("message push: %w", err)
	}
	return nil
}

// onRatingCreated recomputes the shop's rating aggregates from all stored
// ratings.
func (s *TriggerService) onRatingCreated(ctx context.Context, env *events.Envelope) error {
	payload, err := events.Decode[events.RatingCreatedPayload](env)
	if err != nil {
		return err
	}
	shopID := payload.Rating.ShopID

	scores, err := s.deps.Ratings.ListScoresByShop(ctx, shopID)
	if err != nil {
		return err
	}

	ratedAt := payload.Rating.CreatedAt
	if ratedAt.IsZero() {
		ratedAt = env.OccurredAt
	}

	err = s.deps.Shops.UpdateRatingSummary(ctx, shopID, store.SummarizeRatings(scores, ratedAt))
	if errors.Is(err, store.ErrNotFound) {
		logger.Warn().Str("shop_id", shopID).Msg("Rating for a missing shop, aggregates skipped")
		return nil
	}
	return err
}

// syncShopName brings the shop-name entry in line with the current shop
// document, so events applied late or twice still converge on the latest
// name.
func (s *TriggerService) syncShopName(ctx context.Context, env *events.Envelope) error {
	shopID := env.AggregateID

	entry, err := s.deps.ShopNames.GetByID(ctx, shopID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	shop, err := s.deps.Shops.GetByID(ctx, shopID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if shop == nil || domain.SearchKey(shop.Name) == "" {
		if entry == nil {
			return nil
		}
		if err := s.deps.ShopNames.Delete(ctx, shopID); err != nil {
			return err
		}
		s.invalidate(ctx, entry.SearchName)
		logger.Info().Str("shop_id", shopID).Msg("Shop name entry removed")
		return nil
	}

	if entry != nil && entry.Name == shop.Name {
		return nil
	}

	next := &domain.ShopName{
		ID:         shopID,
		Name:       shop.Name,
		SearchName: domain.SearchKey(shop.Name),
	}
	if err := s.deps.ShopNames.Upsert(ctx, next); err != nil {
		return err
	}

	if entry != nil {
		s.invalidate(ctx, entry.SearchName, next.SearchName)
	} else {
		s.invalidate(ctx, next.SearchName)
	}
	logger.Info().Str("shop_id", shopID).Str("name", shop.Name).Msg("Shop name entry synced")
	return nil
}

func (s *TriggerService) invalidate(ctx context.Context, searchNames ...string) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.Invalidate(ctx, searchNames...); err != nil {
		logger.Warn().Err(err).Strs("search_names", searchNames).Msg("Failed to invalidate shop lookup cache")
	}
}

func (s *TriggerService) onAccountDeleted(ctx context.Context, env *events.Envelope) error {
	payload, err := events.Decode[events.AccountDeletedPayload](env)
	if err != nil {
		return err
	}
	userID := payload.Account.UserID

	if err := s.deps.Users.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.deps.Preferences.Delete(ctx, userID); err != nil {
		return err
	}

	logger.Info().Str("user_id", userID).Msg("Account data removed")
	return nil
}

// sendAll sends emails concurrently and waits for all of them; one failure
// does not cancel the others. Emails without a recipient are skipped.
func (s *TriggerService) sendAll(ctx context.Context, emails []entity.Email) error {
	var g errgroup.Group
	for _, email := range emails {
		if email.To == "" {
			continue
		}
		g.Go(func() error {
			if err := s.deps.Mailer.Send(ctx, email); err != nil {
				return fmt.Errorf("email to %s: %w", email.To, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func preview(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
