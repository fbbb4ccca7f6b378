package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"barbersbuddies/booking-service/internal/app/booking/entity"
	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/events"
	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/store"
)

const notificationPreviewLen = 100

type MessageService struct {
	tx            store.TxManager
	bookings      store.BookingRepository
	shops         store.ShopRepository
	messages      store.MessageRepository
	notifications store.NotificationRepository
	outbox        store.OutboxRepository
}

func NewMessageService(
	tx store.TxManager,
	bookings store.BookingRepository,
	shops store.ShopRepository,
	messages store.MessageRepository,
	notifications store.NotificationRepository,
	outbox store.OutboxRepository,
) *MessageService {
	return &MessageService{
		tx:            tx,
		bookings:      bookings,
		shops:         shops,
		messages:      messages,
		notifications: notifications,
		outbox:        outbox,
	}
}

// SendShopMessage stores a chat message between a customer and a shop and
// notifies the other party. An unknown booking or shop is a bad request on
// this endpoint.
func (s *MessageService) SendShopMessage(ctx context.Context, req *entity.ShopMessageRequest) (*domain.Message, error) {
	if !req.SenderType.Valid() {
		return nil, fmt.Errorf("%w: unknown sender type %q", ErrValidation, req.SenderType)
	}

	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrValidation, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	shop, err := s.shops.GetByID(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrValidation, ErrShopNotFound)
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	message := &domain.Message{
		ID:                 uuid.NewString(),
		BookingID:          req.BookingID,
		ShopID:             req.ShopID,
		CustomerID:         req.CustomerID,
		ShopName:           firstNonEmpty(req.ShopName, shop.Name),
		CustomerName:       firstNonEmpty(req.CustomerName, booking.UserName),
		Content:            req.Content,
		SenderType:         req.SenderType,
		AppointmentDetails: req.AppointmentDetails,
	}
	if message.AppointmentDetails == nil {
		message.AppointmentDetails = &domain.AppointmentDetails{
			Date:     booking.SelectedDate,
			Time:     booking.SelectedTime,
			Services: domain.ServiceNames(booking.SelectedServices),
		}
	}

	payload := events.MessageCreatedPayload{Message: *message}
	if req.SenderType == domain.SenderCustomer {
		payload.RecipientID = shop.OwnerID
		payload.RecipientEmail = firstNonEmpty(shop.Email, booking.ShopEmail)
		payload.SenderName = message.CustomerName
	} else {
		payload.RecipientID = req.CustomerID
		payload.RecipientEmail = booking.UserEmail
		payload.SenderName = message.ShopName
	}

	notification := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    payload.RecipientID,
		Type:      domain.NotificationNewMessage,
		Title:     "New message from " + payload.SenderName,
		Message:   preview(req.Content),
		BookingID: req.BookingID,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.messages.Create(ctx, message); err != nil {
			return err
		}
		payload.Message.Timestamp = message.Timestamp
		if notification.UserID != "" {
			if err := s.notifications.Create(ctx, notification); err != nil {
				return err
			}
		}
		return appendEvent(ctx, s.outbox, events.MessageCreated, message.ID, payload)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	logger.Info().
		Str("message_id", message.ID).
		Str("booking_id", message.BookingID).
		Str("sender_type", string(message.SenderType)).
		Msg("Message stored")

	return message, nil
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= notificationPreviewLen {
		return content
	}
	return string(runes[:notificationPreviewLen]) + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
