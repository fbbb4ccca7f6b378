package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"barbersbuddies/booking-service/internal/app/booking/entity"
	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/events"
	"barbersbuddies/pkg/store"
	"barbersbuddies/pkg/store/mocks"
)

type bookingFixture struct {
	tx       *mocks.TxManager
	bookings *mocks.MockBookingRepository
	shops    *mocks.MockShopRepository
	outbox   *mocks.MockOutboxRepository
	service  *BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		tx:       &mocks.TxManager{},
		bookings: new(mocks.MockBookingRepository),
		shops:    new(mocks.MockShopRepository),
		outbox:   new(mocks.MockOutboxRepository),
	}
	f.service = NewBookingService(f.tx, f.bookings, f.shops, f.outbox)
	return f
}

func lastEvent(t *testing.T, outbox *mocks.MockOutboxRepository) *events.Envelope {
	t.Helper()
	require.NotEmpty(t, outbox.Records)
	var env events.Envelope
	require.NoError(t, json.Unmarshal(outbox.Records[len(outbox.Records)-1].Envelope, &env))
	return &env
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:           "b1",
		ShopID:       "s1",
		ShopEmail:    "shop@example.com",
		UserName:     "Alex",
		UserEmail:    "alex@example.com",
		SelectedDate: "2026-03-10",
		SelectedTime: "10:00",
		SelectedServices: []domain.Service{
			{Name: "Cut", Price: 25},
		},
		TotalPrice: 25,
		Status:     domain.StatusConfirmed,
		Version:    3,
	}
}

// ===================== CreateBooking =====================

func TestCreateBooking_Success(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	f.outbox.On("Append", ctx, mock.Anything).Return(nil)

	req := &entity.CreateBookingRequest{
		ShopID:       "s1",
		ShopEmail:    "shop@example.com",
		UserName:     "Alex",
		UserEmail:    "alex@example.com",
		SelectedDate: "2026-03-10",
		SelectedTime: "10:00",
		SelectedServices: []domain.Service{
			{Name: "Cut", Price: 25},
			{Name: "Beard", Price: 15},
		},
	}

	booking, err := f.service.CreateBooking(ctx, req)

	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Equal(t, 40.0, booking.TotalPrice)
	assert.Equal(t, "40.00", domain.FormatPrice(booking.TotalPrice))
	assert.Equal(t, 1, f.tx.Calls)

	env := lastEvent(t, f.outbox)
	assert.Equal(t, events.BookingCreated, env.Type)
	assert.Equal(t, booking.ID, env.AggregateID)

	payload, err := events.Decode[events.BookingCreatedPayload](env)
	require.NoError(t, err)
	assert.Equal(t, 40.0, payload.Booking.TotalPrice)

	f.bookings.AssertExpectations(t)
	f.outbox.AssertExpectations(t)
}

func TestCreateBooking_InvalidTime(t *testing.T) {
	f := newBookingFixture()

	req := &entity.CreateBookingRequest{
		ShopID:           "s1",
		SelectedDate:     "2026-03-10",
		SelectedTime:     "noonish",
		SelectedServices: []domain.Service{{Name: "Cut", Price: 25}},
	}

	booking, err := f.service.CreateBooking(context.Background(), req)

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, f.tx.Calls)
}

func TestCreateBooking_RepositoryError(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	f.bookings.On("Create", ctx, mock.Anything).Return(errors.New("connection reset"))

	req := &entity.CreateBookingRequest{
		ShopID:           "s1",
		SelectedDate:     "2026-03-10",
		SelectedTime:     "2:30 pm",
		SelectedServices: []domain.Service{{Name: "Cut", Price: 25}},
	}

	booking, err := f.service.CreateBooking(ctx, req)

	assert.Nil(t, booking)
	assert.Contains(t, err.Error(), "failed to create booking")
	assert.Empty(t, f.outbox.Records)
}

// ===================== UpdateBooking =====================

func TestUpdateBooking_RecomputesTotal(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "b1").Return(confirmedBooking(), nil)
	f.bookings.On("Update", ctx, mock.Anything).Return(nil)
	f.outbox.On("Append", ctx, mock.Anything).Return(nil)

	newTime := "11:30"
	booking, err := f.service.UpdateBooking(ctx, &entity.UpdateBookingRequest{
		BookingID:    "b1",
		SelectedTime: &newTime,
		SelectedServices: []domain.Service{
			{Name: "Cut", Price: 25},
			{Name: "Wash", Price: 7.35},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "11:30", booking.SelectedTime)
	assert.Equal(t, 32.35, booking.TotalPrice)

	payload, err := events.Decode[events.BookingUpdatedPayload](lastEvent(t, f.outbox))
	require.NoError(t, err)
	assert.Equal(t, events.ChangeUpdated, payload.Change)
	assert.Equal(t, "10:00", payload.Before.SelectedTime)
	assert.Equal(t, "11:30", payload.After.SelectedTime)
}

func TestUpdateBooking_TerminalBooking(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	b := confirmedBooking()
	b.Status = domain.StatusCancelled
	f.bookings.On("GetByID", ctx, "b1").Return(b, nil)

	_, err := f.service.UpdateBooking(ctx, &entity.UpdateBookingRequest{BookingID: "b1"})

	assert.ErrorIs(t, err, ErrBookingClosed)
	f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateBooking_VersionConflict(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "b1").Return(confirmedBooking(), nil)
	f.bookings.On("Update", ctx, mock.Anything).Return(store.ErrVersionConflict)

	custom := "hot towel"
	_, err := f.service.UpdateBooking(ctx, &entity.UpdateBookingRequest{BookingID: "b1", CustomService: &custom})

	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Empty(t, f.outbox.Records)
}

func TestUpdateBooking_RetriedTransactionKeepsReadVersion(t *testing.T) {
	f := newBookingFixture()
	f.tx.Retries = 1
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "b1").Return(confirmedBooking(), nil)
	f.bookings.On("Update", ctx, mock.Anything).Run(func(args mock.Arguments) {
		b := args.Get(1).(*domain.Booking)
		assert.Equal(t, int64(3), b.Version)
		b.Version++
	}).Return(nil)
	f.outbox.On("Append", ctx, mock.Anything).Return(nil)

	custom := "hot towel"
	booking, err := f.service.UpdateBooking(ctx, &entity.UpdateBookingRequest{BookingID: "b1", CustomService: &custom})

	require.NoError(t, err)
	assert.Equal(t, int64(4), booking.Version)
	f.bookings.AssertNumberOfCalls(t, "Update", 2)
}

// ===================== CancelBooking =====================

func TestCancelBooking_Success(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "b1").Return(confirmedBooking(), nil)
	f.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.StatusCancelled && b.CancelledBy == "customer" && b.CancelledAt != nil
	})).Return(nil)
	f.outbox.On("Append", ctx, mock.Anything).Return(nil)

	booking, err := f.service.CancelBooking(ctx, &entity.CancelBookingRequest{
		BookingID:   "b1",
		Reason:      "sick",
		CancelledBy: "customer",
	})

	require.NoError(t, err)
	assert.Equal(t, "sick", booking.CancellationReason)

	payload, err := events.Decode[events.BookingUpdatedPayload](lastEvent(t, f.outbox))
	require.NoError(t, err)
	assert.Equal(t, events.ChangeCancelled, payload.Change)
	assert.Equal(t, domain.StatusConfirmed, payload.Before.Status)
	assert.Equal(t, domain.StatusCancelled, payload.After.Status)
	f.bookings.AssertExpectations(t)
}

func TestCancelBooking_NotFoundWritesNothing(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "missing").Return(nil, store.ErrNotFound)

	booking, err := f.service.CancelBooking(ctx, &entity.CancelBookingRequest{BookingID: "missing", CancelledBy: "shop"})

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Equal(t, 0, f.tx.Calls)
	assert.Empty(t, f.outbox.Records)
	f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCancelBooking_CompletedIsTerminal(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	b := confirmedBooking()
	b.Status = domain.StatusCompleted
	f.bookings.On("GetByID", ctx, "b1").Return(b, nil)

	_, err := f.service.CancelBooking(ctx, &entity.CancelBookingRequest{BookingID: "b1", CancelledBy: "shop"})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 0, f.tx.Calls)
}

// ===================== RescheduleBooking =====================

func rescheduleRequest() *entity.RescheduleRequest {
	return &entity.RescheduleRequest{
		BookingID:     "b1",
		ShopID:        "s1",
		NewDate:       "2026-03-12",
		NewTime:       "15:00",
		RescheduledBy: "customer",
		Reason:        "work",
	}
}

func TestRescheduleBooking_Success(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "b1").Return(confirmedBooking(), nil)
	f.shops.On("GetByID", ctx, "s1").Return(&domain.Shop{ID: "s1"}, nil)
	f.bookings.On("FindSlotConflict", ctx, "s1", "2026-03-12", "15:00", "b1").Return(nil, store.ErrNotFound)
	f.bookings.On("Update", ctx, mock.Anything).Return(nil)
	f.outbox.On("Append", ctx, mock.Anything).Return(nil)

	booking, err := f.service.RescheduleBooking(ctx, rescheduleRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusRescheduled, booking.Status)
	assert.Equal(t, "2026-03-10", booking.PreviousDate)
	assert.Equal(t, "10:00", booking.PreviousTime)
	assert.Equal(t, "2026-03-12", booking.SelectedDate)
	assert.Equal(t, "15:00", booking.SelectedTime)
	assert.NotNil(t, booking.RescheduledAt)

	payload, err := events.Decode[events.BookingUpdatedPayload](lastEvent(t, f.outbox))
	require.NoError(t, err)
	assert.Equal(t, events.ChangeRescheduled, payload.Change)
}

func TestRescheduleBooking_SlotTaken(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "b1").Return(confirmedBooking(), nil)
	f.shops.On("GetByID", ctx, "s1").Return(&domain.Shop{ID: "s1"}, nil)
	f.bookings.On("FindSlotConflict", ctx, "s1", "2026-03-12", "15:00", "b1").
		Return(&domain.Booking{ID: "other", Status: domain.StatusPending}, nil)

	booking, err := f.service.RescheduleBooking(ctx, rescheduleRequest())

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, f.outbox.Records)
	f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRescheduleBooking_ShopNotFound(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "b1").Return(confirmedBooking(), nil)
	f.shops.On("GetByID", ctx, "s1").Return(nil, store.ErrNotFound)

	_, err := f.service.RescheduleBooking(ctx, rescheduleRequest())

	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestRescheduleBooking_CancelledBooking(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	b := confirmedBooking()
	b.Status = domain.StatusCancelled
	f.bookings.On("GetByID", ctx, "b1").Return(b, nil)
	f.shops.On("GetByID", ctx, "s1").Return(&domain.Shop{ID: "s1"}, nil)

	_, err := f.service.RescheduleBooking(ctx, rescheduleRequest())

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	f.bookings.AssertNotCalled(t, "FindSlotConflict", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ===================== UpdateStatus =====================

func TestUpdateStatus_Confirm(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	b := confirmedBooking()
	b.Status = domain.StatusPending
	f.bookings.On("GetByID", ctx, "b1").Return(b, nil)
	f.bookings.On("Update", ctx, mock.Anything).Return(nil)
	f.outbox.On("Append", ctx, mock.Anything).Return(nil)

	booking, err := f.service.UpdateStatus(ctx, &entity.UpdateStatusRequest{BookingID: "b1", Status: domain.StatusConfirmed, Actor: "shop"})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)

	payload, err := events.Decode[events.BookingUpdatedPayload](lastEvent(t, f.outbox))
	require.NoError(t, err)
	assert.Equal(t, events.ChangeStatus, payload.Change)
	assert.Equal(t, domain.StatusPending, payload.Before.Status)
}

func TestUpdateStatus_RejectsUnsupportedTarget(t *testing.T) {
	f := newBookingFixture()

	_, err := f.service.UpdateStatus(context.Background(), &entity.UpdateStatusRequest{BookingID: "b1", Status: domain.StatusRescheduled})

	assert.ErrorIs(t, err, ErrValidation)
	f.bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	b := confirmedBooking()
	b.Status = domain.StatusCompleted
	f.bookings.On("GetByID", ctx, "b1").Return(b, nil)

	_, err := f.service.UpdateStatus(ctx, &entity.UpdateStatusRequest{BookingID: "b1", Status: domain.StatusConfirmed})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
