package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/store"
)

// TxManager runs fn inline; Calls counts transactions. Retries reruns fn
// after it succeeds, the way the driver retries a transient commit error.
type TxManager struct {
	Calls   int
	Retries int
	Err     error
}

func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	err := fn(ctx)
	for i := 0; i < m.Retries && err == nil; i++ {
		err = fn(ctx)
	}
	return err
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) FindSlotConflict(ctx context.Context, shopID, date, clock, excludeID string) (*domain.Booking, error) {
	args := m.Called(ctx, shopID, date, clock, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

func (m *MockShopRepository) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shop), args.Error(1)
}

func (m *MockShopRepository) Update(ctx context.Context, shop *domain.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

func (m *MockShopRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShopRepository) UpdateRatingSummary(ctx context.Context, shopID string, summary store.RatingSummary) error {
	args := m.Called(ctx, shopID, summary)
	return args.Error(0)
}

type MockShopNameRepository struct {
	mock.Mock
}

func (m *MockShopNameRepository) Upsert(ctx context.Context, entry *domain.ShopName) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockShopNameRepository) GetByID(ctx context.Context, shopID string) (*domain.ShopName, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShopName), args.Error(1)
}

func (m *MockShopNameRepository) FindBySearchName(ctx context.Context, searchName string) ([]domain.ShopName, error) {
	args := m.Called(ctx, searchName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShopName), args.Error(1)
}

func (m *MockShopNameRepository) Delete(ctx context.Context, shopID string) error {
	args := m.Called(ctx, shopID)
	return args.Error(0)
}

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByID(ctx context.Context, id string) (*domain.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rating), args.Error(1)
}

func (m *MockRatingRepository) SetShopResponse(ctx context.Context, id string, response domain.ShopResponse) error {
	args := m.Called(ctx, id, response)
	return args.Error(0)
}

func (m *MockRatingRepository) ListScoresByShop(ctx context.Context, shopID string) ([]int, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateFCMToken(ctx context.Context, id, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) Upsert(ctx context.Context, pref *domain.NotificationPreference) error {
	args := m.Called(ctx, pref)
	return args.Error(0)
}

func (m *MockPreferenceRepository) ListEnabled(ctx context.Context) ([]domain.NotificationPreference, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationPreference), args.Error(1)
}

func (m *MockPreferenceRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockDeletedAccountRepository struct {
	mock.Mock
}

func (m *MockDeletedAccountRepository) Create(ctx context.Context, account *domain.DeletedAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockOutboxRepository records appended events in Records.
type MockOutboxRepository struct {
	mock.Mock
	Records []*store.OutboxRecord
}

func (m *MockOutboxRepository) Append(ctx context.Context, record *store.OutboxRecord) error {
	m.Records = append(m.Records, record)
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockOutboxRepository) FetchDue(ctx context.Context, now time.Time, limit int64) ([]store.OutboxRecord, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.OutboxRecord), args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkRetry(ctx context.Context, id string, attempts int, next time.Time, lastErr string) error {
	args := m.Called(ctx, id, attempts, next, lastErr)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id string, attempts int, lastErr string) error {
	args := m.Called(ctx, id, attempts, lastErr)
	return args.Error(0)
}

type MockShopLookupCache struct {
	mock.Mock
}

func (m *MockShopLookupCache) Get(ctx context.Context, searchName string) ([]domain.ShopName, bool, error) {
	args := m.Called(ctx, searchName)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.ShopName), args.Bool(1), args.Error(2)
}

func (m *MockShopLookupCache) Set(ctx context.Context, searchName string, entries []domain.ShopName) error {
	args := m.Called(ctx, searchName, entries)
	return args.Error(0)
}

func (m *MockShopLookupCache) Invalidate(ctx context.Context, searchNames ...string) error {
	args := m.Called(ctx, searchNames)
	return args.Error(0)
}
