package domain

import "errors"

// Common domain errors
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Booking errors
var (
	ErrEmployeeNameRequired = errors.New("employee name is required")
	ErrBookingIDRequired    = errors.New("booking id is required")
	ErrInvalidEmployeeName  = errors.New("employee name must be 2-50 characters long and contain only letters, numbers, and spaces")
	ErrInvalidDate          = errors.New("valid date is required (YYYY-MM-DD, must be today or in the future)")
	ErrNotBusinessDay       = errors.New("bookings are only allowed on business days (Monday-Friday)")
	ErrDateAlreadyBooked    = errors.New("this date is already booked")
	ErrCooldownActive       = errors.New("you already have a booking within 7 days, please wait before booking again")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrNotBookingOwner      = errors.New("you can only cancel your own bookings")
	ErrCancelTooLate        = errors.New("cannot cancel bookings for today or past dates")
)

// Token errors
var (
	ErrInvalidUserID      = errors.New("user id is required")
	ErrInvalidTokenAmount = errors.New("token amount must be a positive number")
	ErrInsufficientTokens = errors.New("insufficient token balance")
)
