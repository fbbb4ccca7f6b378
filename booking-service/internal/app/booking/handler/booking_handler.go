package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"barbersbuddies/booking-service/internal/app/booking/entity"
	"barbersbuddies/booking-service/internal/app/booking/service"
)

type BookingHandler struct {
	bookingService service.BookingServiceInterface
	validator      *validator.Validate
}

func NewBookingHandler(bookingService service.BookingServiceInterface) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validator:      newValidator(),
	}
}

// CreateBooking handles POST /createBooking.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req entity.CreateBookingRequest
	if !bind(c, h.validator, &req) {
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "create booking")
		return
	}

	c.JSON(http.StatusOK, entity.CreateBookingResponse{
		Message:   "Booking created successfully",
		BookingID: booking.ID,
	})
}

// UpdateBooking handles POST /updateBooking.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var req entity.UpdateBookingRequest
	if !bind(c, h.validator, &req) {
		return
	}

	if _, err := h.bookingService.UpdateBooking(c.Request.Context(), &req); err != nil {
		respondError(c, err, "update booking")
		return
	}

	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Booking updated successfully"})
}

// CancelBooking handles POST /cancelBooking.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req entity.CancelBookingRequest
	if !bind(c, h.validator, &req) {
		return
	}

	if _, err := h.bookingService.CancelBooking(c.Request.Context(), &req); err != nil {
		respondError(c, err, "cancel booking")
		return
	}

	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Booking cancelled successfully"})
}

// RescheduleAppointment handles POST /rescheduleAppointment.
func (h *BookingHandler) RescheduleAppointment(c *gin.Context) {
	var req entity.RescheduleRequest
	if !bind(c, h.validator, &req) {
		return
	}

	if _, err := h.bookingService.RescheduleBooking(c.Request.Context(), &req); err != nil {
		respondError(c, err, "reschedule appointment")
		return
	}

	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Appointment rescheduled successfully"})
}

// UpdateBookingStatus handles POST /updateBookingStatus.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var req entity.UpdateStatusRequest
	if !bind(c, h.validator, &req) {
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "update booking status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status updated successfully",
		"status":  booking.Status,
	})
}
