package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid ID format")

	// ErrSeatTaken is returned by BookingRepository.Create when another
	// active booking already holds the seat on that date.
	ErrSeatTaken = errors.New("seat already taken for this date")

	ErrUserNotFound = errors.New("user not found")

	ErrHolidayNotFound = errors.New("holiday not found")
)
