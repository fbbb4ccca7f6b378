package service

import (
	"context"

	"barbersbuddies/booking-service/internal/app/booking/entity"
	"barbersbuddies/pkg/domain"
)

type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, req *entity.CreateBookingRequest) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, req *entity.UpdateBookingRequest) (*domain.Booking, error)
	CancelBooking(ctx context.Context, req *entity.CancelBookingRequest) (*domain.Booking, error)
	RescheduleBooking(ctx context.Context, req *entity.RescheduleRequest) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, req *entity.UpdateStatusRequest) (*domain.Booking, error)
}

type MessageServiceInterface interface {
	SendShopMessage(ctx context.Context, req *entity.ShopMessageRequest) (*domain.Message, error)
}

type RatingServiceInterface interface {
	RespondToRating(ctx context.Context, req *entity.RespondToRatingRequest) error
	SubmitRating(ctx context.Context, req *entity.SubmitRatingRequest) (*domain.Rating, error)
}

type ShopServiceInterface interface {
	CreateShop(ctx context.Context, req *entity.ShopRequest) (*domain.Shop, error)
	UpdateShop(ctx context.Context, shopID string, req *entity.ShopRequest) (*domain.Shop, error)
	DeleteShop(ctx context.Context, shopID string) error
	LookupByName(ctx context.Context, name string) ([]domain.ShopName, error)
}

type AccountServiceInterface interface {
	UpdateFCMToken(ctx context.Context, userID, token string) error
	SavePreferences(ctx context.Context, userID string, req *entity.PreferencesRequest) (*domain.NotificationPreference, error)
	DeleteAccount(ctx context.Context, userID, email, reason string) error
}
