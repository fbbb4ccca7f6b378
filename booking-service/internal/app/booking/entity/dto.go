package entity

import "barbersbuddies/pkg/domain"

type CreateBookingRequest struct {
	ShopID           string           `json:"shopId" validate:"required"`
	ShopEmail        string           `json:"shopEmail" validate:"required,bbemail"`
	ShopName         string           `json:"shopName"`
	UserID           string           `json:"userId"`
	UserName         string           `json:"userName" validate:"required"`
	UserEmail        string           `json:"userEmail" validate:"required,bbemail"`
	UserPhone        string           `json:"userPhone" validate:"omitempty,bbphone"`
	SelectedDate     string           `json:"selectedDate" validate:"required,datetime=2006-01-02"`
	SelectedTime     string           `json:"selectedTime" validate:"required"`
	SelectedServices []domain.Service `json:"selectedServices" validate:"required,min=1,dive"`
	CustomService    string           `json:"customService"`
}

// UpdateBookingRequest changes only the fields that are present.
type UpdateBookingRequest struct {
	BookingID        string           `json:"bookingId" validate:"required"`
	SelectedDate     *string          `json:"selectedDate" validate:"omitempty,datetime=2006-01-02"`
	SelectedTime     *string          `json:"selectedTime" validate:"omitempty,min=1"`
	SelectedServices []domain.Service `json:"selectedServices" validate:"omitempty,min=1,dive"`
	CustomService    *string          `json:"customService"`
}

type CancelBookingRequest struct {
	BookingID   string `json:"bookingId" validate:"required"`
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelledBy" validate:"required"`
}

type RescheduleRequest struct {
	BookingID     string `json:"bookingId" validate:"required"`
	ShopID        string `json:"shopId" validate:"required"`
	NewDate       string `json:"newDate" validate:"required,datetime=2006-01-02"`
	NewTime       string `json:"newTime" validate:"required"`
	RescheduledBy string `json:"rescheduledBy" validate:"required"`
	Reason        string `json:"reason"`
}

type UpdateStatusRequest struct {
	BookingID string               `json:"bookingId" validate:"required"`
	Status    domain.BookingStatus `json:"status" validate:"required"`
	Actor     string               `json:"actor"`
}

type ShopMessageRequest struct {
	BookingID          string                     `json:"bookingId" validate:"required"`
	ShopID             string                     `json:"shopId" validate:"required"`
	CustomerID         string                     `json:"customerId" validate:"required"`
	Content            string                     `json:"content" validate:"required"`
	SenderType         domain.SenderType          `json:"senderType" validate:"required,oneof=customer shop"`
	ShopName           string                     `json:"shopName"`
	CustomerName       string                     `json:"customerName"`
	AppointmentDetails *domain.AppointmentDetails `json:"appointmentDetails"`
}

type RespondToRatingRequest struct {
	RatingID string `json:"ratingId" validate:"required"`
	ShopID   string `json:"shopId" validate:"required"`
	Response string `json:"response" validate:"required"`
}

type SubmitRatingRequest struct {
	BookingID string `json:"bookingId" validate:"required"`
	ShopID    string `json:"shopId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Review    string `json:"review"`
}

type ShopRequest struct {
	OwnerID      string                     `json:"ownerId" validate:"required"`
	Name         string                     `json:"name" validate:"required"`
	Email        string                     `json:"email" validate:"required,bbemail"`
	Phone        string                     `json:"phone" validate:"omitempty,bbphone"`
	Address      string                     `json:"address"`
	Services     []domain.Service           `json:"services" validate:"dive"`
	Employees    []domain.Employee          `json:"employees"`
	Availability map[string]domain.DayHours `json:"availability"`
}

type UpdateFCMTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type PreferencesRequest struct {
	Enabled   bool `json:"enabled"`
	OneHour   bool `json:"oneHour"`
	OneDay    bool `json:"oneDay"`
	ThreeDays bool `json:"threeDays"`
	OneWeek   bool `json:"oneWeek"`
}

type DeleteAccountRequest struct {
	Reason string `json:"reason"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateBookingResponse struct {
	Message   string `json:"message"`
	BookingID string `json:"bookingId"`
}

type ShopMessageResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

type SubmitRatingResponse struct {
	Message  string `json:"message"`
	RatingID string `json:"ratingId"`
}

type ShopResponse struct {
	Message string       `json:"message"`
	Shop    *domain.Shop `json:"shop,omitempty"`
}

type ShopLookupResponse struct {
	Shops []domain.ShopName `json:"shops"`
	Total int               `json:"total"`
}
