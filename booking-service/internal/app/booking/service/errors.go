package service

import "errors"

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrShopNotFound     = errors.New("shop not found")
	ErrRatingNotFound   = errors.New("rating not found")
	ErrSlotConflict     = errors.New("time slot is already booked")
	ErrBookingClosed    = errors.New("booking can no longer be changed")
	ErrConcurrentUpdate = errors.New("booking was modified by another request")
	ErrAlreadyRated     = errors.New("booking has already been rated")
	ErrNotCompleted     = errors.New("booking is not completed")
	ErrValidation       = errors.New("validation failed")
)
