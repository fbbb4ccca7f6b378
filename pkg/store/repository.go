package store

import (
	"context"
	"time"

	"barbersbuddies/pkg/domain"
)

// BookingRepository stores bookings. Update is a compare-and-swap on Version.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	FindSlotConflict(ctx context.Context, shopID, date, clock, excludeID string) (*domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
}

type ShopRepository interface {
	Create(ctx context.Context, shop *domain.Shop) error
	GetByID(ctx context.Context, id string) (*domain.Shop, error)
	Update(ctx context.Context, shop *domain.Shop) error
	Delete(ctx context.Context, id string) error
	UpdateRatingSummary(ctx context.Context, shopID string, summary RatingSummary) error
}

// RatingSummary is the aggregate kept on the shop document.
type RatingSummary struct {
	Ratings      []int
	Average      float64
	Count        int
	Distribution map[string]int
	LastRatedAt  time.Time
}

type ShopNameRepository interface {
	Upsert(ctx context.Context, entry *domain.ShopName) error
	GetByID(ctx context.Context, shopID string) (*domain.ShopName, error)
	FindBySearchName(ctx context.Context, searchName string) ([]domain.ShopName, error)
	Delete(ctx context.Context, shopID string) error
}

type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	GetByID(ctx context.Context, id string) (*domain.Rating, error)
	SetShopResponse(ctx context.Context, id string, response domain.ShopResponse) error
	ListScoresByShop(ctx context.Context, shopID string) ([]int, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateFCMToken(ctx context.Context, id, token string) error
	Delete(ctx context.Context, id string) error
}

type PreferenceRepository interface {
	Upsert(ctx context.Context, pref *domain.NotificationPreference) error
	ListEnabled(ctx context.Context) ([]domain.NotificationPreference, error)
	Delete(ctx context.Context, userID string) error
}

type DeletedAccountRepository interface {
	Create(ctx context.Context, account *domain.DeletedAccount) error
}

// OutboxRepository stores pending integration events next to the state
// change that produced them.
type OutboxRepository interface {
	Append(ctx context.Context, record *OutboxRecord) error
	FetchDue(ctx context.Context, now time.Time, limit int64) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, id string, at time.Time) error
	MarkRetry(ctx context.Context, id string, attempts int, next time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id string, attempts int, lastErr string) error
}
