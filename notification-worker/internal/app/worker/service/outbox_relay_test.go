package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"barbersbuddies/pkg/store"
	"barbersbuddies/pkg/store/mocks"
)

var relayNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestRelay(maxAttempts int) (*OutboxRelay, *mocks.MockOutboxRepository, *MockPublisher) {
	outbox := new(mocks.MockOutboxRepository)
	publisher := new(MockPublisher)
	relay := NewOutboxRelay(outbox, publisher, maxAttempts, 100)
	relay.now = func() time.Time { return relayNow }
	return relay, outbox, publisher
}

func record(id, aggregate string, attempts int) store.OutboxRecord {
	return store.OutboxRecord{
		ID:          id,
		Type:        "booking.created",
		AggregateID: aggregate,
		Envelope:    []byte(`{"id":"` + id + `"}`),
		Status:      store.OutboxPending,
		Attempts:    attempts,
	}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{9, 512 * time.Second},
		{10, 10 * time.Minute},
		{40, 10 * time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Backoff(tt.attempts), "attempts=%d", tt.attempts)
	}
}

func TestRelayDue_PublishesAndMarks(t *testing.T) {
	relay, outbox, publisher := newTestRelay(8)
	ctx := context.Background()

	outbox.On("FetchDue", ctx, relayNow, int64(100)).
		Return([]store.OutboxRecord{record("e1", "b1", 0), record("e2", "b2", 0)}, nil)
	publisher.On("Publish", ctx, "b1", []byte(`{"id":"e1"}`)).Return(nil)
	publisher.On("Publish", ctx, "b2", []byte(`{"id":"e2"}`)).Return(nil)
	outbox.On("MarkPublished", ctx, "e1", relayNow).Return(nil)
	outbox.On("MarkPublished", ctx, "e2", relayNow).Return(nil)

	n, err := relay.RelayDue(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	outbox.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRelayDue_FailureSchedulesRetry(t *testing.T) {
	relay, outbox, publisher := newTestRelay(8)
	ctx := context.Background()

	outbox.On("FetchDue", ctx, relayNow, int64(100)).
		Return([]store.OutboxRecord{record("e1", "b1", 2)}, nil)
	publisher.On("Publish", ctx, "b1", mock.Anything).Return(errors.New("broker down"))
	outbox.On("MarkRetry", ctx, "e1", 3, relayNow.Add(8*time.Second), "broker down").Return(nil)

	n, err := relay.RelayDue(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	outbox.AssertExpectations(t)
	outbox.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything, mock.Anything)
}

func TestRelayDue_MaxAttemptsMarksFailed(t *testing.T) {
	relay, outbox, publisher := newTestRelay(8)
	ctx := context.Background()

	outbox.On("FetchDue", ctx, relayNow, int64(100)).
		Return([]store.OutboxRecord{record("e1", "b1", 7)}, nil)
	publisher.On("Publish", ctx, "b1", mock.Anything).Return(errors.New("broker down"))
	outbox.On("MarkFailed", ctx, "e1", 8, "broker down").Return(nil)

	_, err := relay.RelayDue(ctx)

	require.NoError(t, err)
	outbox.AssertExpectations(t)
	outbox.AssertNotCalled(t, "MarkRetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRelayDue_FailedAggregateHoldsLaterEvents(t *testing.T) {
	relay, outbox, publisher := newTestRelay(8)
	ctx := context.Background()

	outbox.On("FetchDue", ctx, relayNow, int64(100)).Return([]store.OutboxRecord{
		record("e1", "shop-1", 0),
		record("e2", "shop-2", 0),
		record("e3", "shop-1", 0),
	}, nil)
	publisher.On("Publish", ctx, "shop-1", []byte(`{"id":"e1"}`)).Return(errors.New("timeout"))
	publisher.On("Publish", ctx, "shop-2", mock.Anything).Return(nil)
	outbox.On("MarkRetry", ctx, "e1", 1, relayNow.Add(2*time.Second), "timeout").Return(nil)
	outbox.On("MarkPublished", ctx, "e2", relayNow).Return(nil)

	n, err := relay.RelayDue(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	publisher.AssertNumberOfCalls(t, "Publish", 2)
	outbox.AssertNotCalled(t, "MarkPublished", ctx, "e3", relayNow)
}

func TestRelayDue_MarkPublishedErrorIsNotFatal(t *testing.T) {
	relay, outbox, publisher := newTestRelay(8)
	ctx := context.Background()

	outbox.On("FetchDue", ctx, relayNow, int64(100)).Return([]store.OutboxRecord{record("e1", "b1", 0)}, nil)
	publisher.On("Publish", ctx, "b1", mock.Anything).Return(nil)
	outbox.On("MarkPublished", ctx, "e1", relayNow).Return(errors.New("write conflict"))

	n, err := relay.RelayDue(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRelayDue_FetchError(t *testing.T) {
	relay, outbox, _ := newTestRelay(8)
	ctx := context.Background()

	outbox.On("FetchDue", ctx, relayNow, int64(100)).Return(nil, errors.New("mongo down"))

	_, err := relay.RelayDue(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load outbox")
}
