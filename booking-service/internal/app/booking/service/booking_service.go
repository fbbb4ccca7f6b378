package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"barbersbuddies/booking-service/internal/app/booking/entity"
	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/events"
	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/metrics"
	"barbersbuddies/pkg/store"
)

// BookingService owns the booking lifecycle. Every write commits together
// with its booking.* outbox event; emails are sent by the worker.
type BookingService struct {
	tx       store.TxManager
	bookings store.BookingRepository
	shops    store.ShopRepository
	outbox   store.OutboxRepository
}

func NewBookingService(
	tx store.TxManager,
	bookings store.BookingRepository,
	shops store.ShopRepository,
	outbox store.OutboxRepository,
) *BookingService {
	return &BookingService{
		tx:       tx,
		bookings: bookings,
		shops:    shops,
		outbox:   outbox,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, req *entity.CreateBookingRequest) (*domain.Booking, error) {
	if _, err := domain.AppointmentTime(req.SelectedDate, req.SelectedTime, time.UTC); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	booking := &domain.Booking{
		ID:               uuid.NewString(),
		ShopID:           req.ShopID,
		ShopEmail:        strings.TrimSpace(req.ShopEmail),
		ShopName:         req.ShopName,
		UserID:           req.UserID,
		UserName:         req.UserName,
		UserEmail:        strings.TrimSpace(req.UserEmail),
		UserPhone:        req.UserPhone,
		SelectedDate:     req.SelectedDate,
		SelectedTime:     req.SelectedTime,
		SelectedServices: req.SelectedServices,
		CustomService:    req.CustomService,
		TotalPrice:       domain.TotalPrice(req.SelectedServices),
		Status:           domain.StatusPending,
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.bookings.Create(ctx, booking); err != nil {
			return err
		}
		return appendEvent(ctx, s.outbox, events.BookingCreated, booking.ID, events.BookingCreatedPayload{Booking: *booking})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.BookingChanges.WithLabelValues("created").Inc()
	metrics.BookingTotalPrice.Observe(booking.TotalPrice)
	logger.Info().
		Str("booking_id", booking.ID).
		Str("shop_id", booking.ShopID).
		Str("total_price", domain.FormatPrice(booking.TotalPrice)).
		Msg("Booking created")

	return booking, nil
}

func (s *BookingService) UpdateBooking(ctx context.Context, req *entity.UpdateBookingRequest) (*domain.Booking, error) {
	booking, err := s.load(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.Terminal() {
		s.reject("closed")
		return nil, ErrBookingClosed
	}
	before := *booking

	if req.SelectedDate != nil {
		booking.SelectedDate = *req.SelectedDate
	}
	if req.SelectedTime != nil {
		booking.SelectedTime = *req.SelectedTime
	}
	if req.CustomService != nil {
		booking.CustomService = *req.CustomService
	}
	if len(req.SelectedServices) > 0 {
		booking.SelectedServices = req.SelectedServices
		booking.TotalPrice = domain.TotalPrice(req.SelectedServices)
	}
	if _, err := domain.AppointmentTime(booking.SelectedDate, booking.SelectedTime, time.UTC); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.save(ctx, booking, before, events.ChangeUpdated, nil); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, req *entity.CancelBookingRequest) (*domain.Booking, error) {
	booking, err := s.load(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if err := domain.Transition(booking.Status, domain.StatusCancelled); err != nil {
		s.reject("invalid_transition")
		return nil, err
	}
	before := *booking

	now := time.Now().UTC()
	booking.Status = domain.StatusCancelled
	booking.CancellationReason = req.Reason
	booking.CancelledBy = req.CancelledBy
	booking.CancelledAt = &now

	if err := s.save(ctx, booking, before, events.ChangeCancelled, nil); err != nil {
		return nil, err
	}
	return booking, nil
}

// RescheduleBooking moves the booking to a new slot of the shop. The slot is
// taken when another booking there is confirmed or pending.
func (s *BookingService) RescheduleBooking(ctx context.Context, req *entity.RescheduleRequest) (*domain.Booking, error) {
	booking, err := s.load(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.shops.GetByID(ctx, req.ShopID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	if _, err := domain.AppointmentTime(req.NewDate, req.NewTime, time.UTC); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := domain.Transition(booking.Status, domain.StatusRescheduled); err != nil {
		s.reject("invalid_transition")
		return nil, err
	}
	before := *booking

	now := time.Now().UTC()
	booking.PreviousDate = booking.SelectedDate
	booking.PreviousTime = booking.SelectedTime
	booking.SelectedDate = req.NewDate
	booking.SelectedTime = req.NewTime
	booking.Status = domain.StatusRescheduled
	booking.RescheduledBy = req.RescheduledBy
	booking.RescheduleReason = req.Reason
	booking.RescheduledAt = &now

	slotFree := func(ctx context.Context) error {
		_, err := s.bookings.FindSlotConflict(ctx, req.ShopID, req.NewDate, req.NewTime, booking.ID)
		switch {
		case err == nil:
			s.reject("slot_conflict")
			return ErrSlotConflict
		case errors.Is(err, store.ErrNotFound):
			return nil
		default:
			return err
		}
	}

	if err := s.save(ctx, booking, before, events.ChangeRescheduled, slotFree); err != nil {
		return nil, err
	}
	return booking, nil
}

// UpdateStatus applies a shop-side status change: confirm, complete or cancel.
func (s *BookingService) UpdateStatus(ctx context.Context, req *entity.UpdateStatusRequest) (*domain.Booking, error) {
	switch req.Status {
	case domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled:
	default:
		return nil, fmt.Errorf("%w: status must be confirmed, completed or cancelled", ErrValidation)
	}

	booking, err := s.load(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if err := domain.Transition(booking.Status, req.Status); err != nil {
		s.reject("invalid_transition")
		return nil, err
	}
	before := *booking

	booking.Status = req.Status
	if req.Status == domain.StatusCancelled {
		now := time.Now().UTC()
		booking.CancelledBy = req.Actor
		booking.CancelledAt = &now
	}

	if err := s.save(ctx, booking, before, events.ChangeStatus, nil); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) load(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// save writes the booking with a version check and appends booking.updated.
// check, when set, runs first inside the same transaction. Each attempt of
// the transaction starts from the staged booking, so a retried commit
// still matches the version that was read.
func (s *BookingService) save(ctx context.Context, booking *domain.Booking, before domain.Booking, change string, check func(context.Context) error) error {
	staged := *booking
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		*booking = staged
		if check != nil {
			if err := check(ctx); err != nil {
				return err
			}
		}
		if err := s.bookings.Update(ctx, booking); err != nil {
			return err
		}
		return appendEvent(ctx, s.outbox, events.BookingUpdated, booking.ID, events.BookingUpdatedPayload{
			Change: change,
			Before: before,
			After:  *booking,
		})
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrSlotConflict):
		return err
	case errors.Is(err, store.ErrVersionConflict):
		s.reject("version_conflict")
		return ErrConcurrentUpdate
	default:
		return fmt.Errorf("failed to save booking: %w", err)
	}

	metrics.BookingChanges.WithLabelValues(change).Inc()
	logger.Info().
		Str("booking_id", booking.ID).
		Str("change", change).
		Str("status", string(booking.Status)).
		Int64("version", booking.Version).
		Msg("Booking updated")
	return nil
}

func (s *BookingService) reject(reason string) {
	metrics.BookingRejections.WithLabelValues(reason).Inc()
}
