package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"barbersbuddies/booking-service/internal/app/booking/service"
	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/logger"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := domain.RegisterValidators(v); err != nil {
		panic(err)
	}
	return v
}

// bind decodes the JSON body into req and validates it. It writes the 400
// response itself and reports false when the request must stop.
func bind(c *gin.Context, v *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	if err := v.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return false
	}
	return true
}

// respondError maps service errors to status codes. Anything unexpected is
// logged and reported as a generic 500.
func respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSlotConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Time slot is already booked"})
	case errors.Is(err, service.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, service.ErrShopNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
	case errors.Is(err, service.ErrRatingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBookingClosed),
		errors.Is(err, service.ErrConcurrentUpdate),
		errors.Is(err, service.ErrAlreadyRated),
		errors.Is(err, service.ErrNotCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error().
			Err(err).
			Str("action", action).
			Str("path", c.FullPath()).
			Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required":
				return "Missing required field: " + fieldError.Field()
			case "bbemail":
				return "Invalid email address: " + fieldError.Field()
			case "bbphone":
				return "Invalid phone number: " + fieldError.Field()
			default:
				return fieldError.Field() + " is " + fieldError.Tag()
			}
		}
	}
	return "Validation failed"
}
