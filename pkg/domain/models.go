package domain

import (
	"time"
)

// Collection names shared by the API, the worker and the seeder.
const (
	CollectionBookings        = "bookings"
	CollectionShops           = "barberShops"
	CollectionShopNames       = "shopNames"
	CollectionRatings         = "ratings"
	CollectionMessages        = "messages"
	CollectionNotifications   = "notifications"
	CollectionUsers           = "users"
	CollectionPreferences     = "notificationPreferences"
	CollectionDeletedAccounts = "deletedAccounts"
	CollectionOutbox          = "outbox"
)

type Service struct {
	Name     string  `json:"name" bson:"name" validate:"required"`
	Price    float64 `json:"price" bson:"price" validate:"gte=0"`
	Duration int     `json:"duration,omitempty" bson:"duration,omitempty"` // minutes
}

type Booking struct {
	ID               string        `json:"id" bson:"_id"`
	ShopID           string        `json:"shopId" bson:"shopId"`
	ShopEmail        string        `json:"shopEmail" bson:"shopEmail"`
	ShopName         string        `json:"shopName,omitempty" bson:"shopName,omitempty"`
	UserID           string        `json:"userId,omitempty" bson:"userId,omitempty"`
	UserName         string        `json:"userName" bson:"userName"`
	UserEmail        string        `json:"userEmail" bson:"userEmail"`
	UserPhone        string        `json:"userPhone,omitempty" bson:"userPhone,omitempty"`
	SelectedDate     string        `json:"selectedDate" bson:"selectedDate"`
	SelectedTime     string        `json:"selectedTime" bson:"selectedTime"`
	SelectedServices []Service     `json:"selectedServices" bson:"selectedServices"`
	CustomService    string        `json:"customService,omitempty" bson:"customService,omitempty"`
	TotalPrice       float64       `json:"totalPrice" bson:"totalPrice"`
	Status           BookingStatus `json:"status" bson:"status"`
	CreatedAt        time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt" bson:"updatedAt"`
	Version          int64         `json:"version" bson:"version"`

	CancellationReason string     `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	CancelledBy        string     `json:"cancelledBy,omitempty" bson:"cancelledBy,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`

	PreviousDate     string     `json:"previousDate,omitempty" bson:"previousDate,omitempty"`
	PreviousTime     string     `json:"previousTime,omitempty" bson:"previousTime,omitempty"`
	RescheduledBy    string     `json:"rescheduledBy,omitempty" bson:"rescheduledBy,omitempty"`
	RescheduleReason string     `json:"rescheduleReason,omitempty" bson:"rescheduleReason,omitempty"`
	RescheduledAt    *time.Time `json:"rescheduledAt,omitempty" bson:"rescheduledAt,omitempty"`

	IsRated  bool   `json:"isRated" bson:"isRated"`
	Rating   int    `json:"rating,omitempty" bson:"rating,omitempty"`
	Review   string `json:"review,omitempty" bson:"review,omitempty"`
	RatingID string `json:"ratingId,omitempty" bson:"ratingId,omitempty"`
}

type Employee struct {
	Name     string   `json:"name" bson:"name"`
	Services []string `json:"services,omitempty" bson:"services,omitempty"`
}

// DayHours is one day of the weekly schedule, "09:00"-"18:00"; Closed wins.
type DayHours struct {
	Open   string `json:"open" bson:"open"`
	Close  string `json:"close" bson:"close"`
	Closed bool   `json:"closed,omitempty" bson:"closed,omitempty"`
}

type Shop struct {
	ID                 string              `json:"id" bson:"_id"`
	OwnerID            string              `json:"ownerId" bson:"ownerId"`
	Name               string              `json:"name" bson:"name"`
	Email              string              `json:"email" bson:"email"`
	Phone              string              `json:"phone,omitempty" bson:"phone,omitempty"`
	Address            string              `json:"address,omitempty" bson:"address,omitempty"`
	Services           []Service           `json:"services" bson:"services"`
	Employees          []Employee          `json:"employees,omitempty" bson:"employees,omitempty"`
	Availability       map[string]DayHours `json:"availability,omitempty" bson:"availability,omitempty"`
	Ratings            []int               `json:"ratings,omitempty" bson:"ratings,omitempty"`
	AverageRating      float64             `json:"averageRating" bson:"averageRating"`
	RatingCount        int                 `json:"ratingCount" bson:"ratingCount"`
	RatingDistribution map[string]int      `json:"ratingDistribution,omitempty" bson:"ratingDistribution,omitempty"`
	LastRatedAt        *time.Time          `json:"lastRatedAt,omitempty" bson:"lastRatedAt,omitempty"`
	CreatedAt          time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// ShopName is the denormalized exact-lookup entry kept in sync with Shop.Name.
type ShopName struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	SearchName string    `json:"searchName" bson:"searchName"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

type ShopResponse struct {
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type Rating struct {
	ID           string        `json:"id" bson:"_id"`
	ShopID       string        `json:"shopId" bson:"shopId"`
	BookingID    string        `json:"bookingId" bson:"bookingId"`
	UserID       string        `json:"userId" bson:"userId"`
	Rating       int           `json:"rating" bson:"rating"`
	Review       string        `json:"review,omitempty" bson:"review,omitempty"`
	ShopResponse *ShopResponse `json:"shopResponse,omitempty" bson:"shopResponse,omitempty"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
}

type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderShop     SenderType = "shop"
)

func (s SenderType) Valid() bool {
	return s == SenderCustomer || s == SenderShop
}

type AppointmentDetails struct {
	Date     string   `json:"date,omitempty" bson:"date,omitempty"`
	Time     string   `json:"time,omitempty" bson:"time,omitempty"`
	Services []string `json:"services,omitempty" bson:"services,omitempty"`
}

type Message struct {
	ID                 string              `json:"id" bson:"_id"`
	BookingID          string              `json:"bookingId" bson:"bookingId"`
	ShopID             string              `json:"shopId" bson:"shopId"`
	CustomerID         string              `json:"customerId" bson:"customerId"`
	ShopName           string              `json:"shopName,omitempty" bson:"shopName,omitempty"`
	CustomerName       string              `json:"customerName,omitempty" bson:"customerName,omitempty"`
	Content            string              `json:"content" bson:"content"`
	SenderType         SenderType          `json:"senderType" bson:"senderType"`
	AppointmentDetails *AppointmentDetails `json:"appointmentDetails,omitempty" bson:"appointmentDetails,omitempty"`
	Timestamp          time.Time           `json:"timestamp" bson:"timestamp"`
	Read               bool                `json:"read" bson:"read"`
}

// Notification types.
const (
	NotificationNewMessage    = "new_message"
	NotificationRatingReply   = "rating_response"
	NotificationStatusChanged = "booking_status"
)

type Notification struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	Type      string    `json:"type" bson:"type"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	BookingID string    `json:"bookingId,omitempty" bson:"bookingId,omitempty"`
	RatingID  string    `json:"ratingId,omitempty" bson:"ratingId,omitempty"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type User struct {
	ID                string     `json:"id" bson:"_id"`
	Name              string     `json:"name" bson:"name"`
	Email             string     `json:"email" bson:"email"`
	Phone             string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Role              string     `json:"role,omitempty" bson:"role,omitempty"` // customer, owner
	FCMToken          string     `json:"-" bson:"fcmToken,omitempty"`
	FCMTokenUpdatedAt *time.Time `json:"-" bson:"fcmTokenUpdatedAt,omitempty"`
	PasswordHash      string     `json:"-" bson:"passwordHash,omitempty"`
	CreatedAt         time.Time  `json:"createdAt" bson:"createdAt"`
}

// NotificationPreference holds a user's reminder switches, one per window.
type NotificationPreference struct {
	UserID    string    `json:"userId" bson:"_id"`
	Enabled   bool      `json:"enabled" bson:"enabled"`
	OneHour   bool      `json:"oneHour" bson:"oneHour"`
	OneDay    bool      `json:"oneDay" bson:"oneDay"`
	ThreeDays bool      `json:"threeDays" bson:"threeDays"`
	OneWeek   bool      `json:"oneWeek" bson:"oneWeek"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type DeletedAccount struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty"`
	DeletedAt time.Time `json:"deletedAt" bson:"deletedAt"`
}
