package service

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "seatrota/internal/bookings/errors"
	"seatrota/internal/bookings/repository"
	"seatrota/internal/bookings/validator"
	"seatrota/pkg/clock"
	apperrors "seatrota/pkg/errors"
	"seatrota/pkg/logger"
	"seatrota/pkg/model"
	"time"
)

const DefaultMaxAttempts = 3

// Allocator assigns the lowest free seat of a booking type's pool. Seat
// uniqueness is enforced by storage; a lost race is retried after a short
// wait with a fresh availability read.
type Allocator struct {
	bookings   repository.BookingRepository
	index      *AvailabilityIndex
	validator  *validator.BookingValidator
	clock      clock.Clock
	retryDelay time.Duration
	log        *logger.Logger
}

func NewAllocator(
	bookings repository.BookingRepository,
	index *AvailabilityIndex,
	validator *validator.BookingValidator,
	clk clock.Clock,
	retryDelay time.Duration,
	log *logger.Logger,
) *Allocator {
	return &Allocator{
		bookings:   bookings,
		index:      index,
		validator:  validator,
		clock:      clk,
		retryDelay: retryDelay,
		log:        log,
	}
}

// Allocate creates an active booking for userID on date. maxAttempts <= 0
// means DefaultMaxAttempts.
//
// A full pool is reported as CAPACITY_EXCEEDED straight away. Losing the race
// for a seat on every attempt is also reported as CAPACITY_EXCEEDED, with
// details.reason = "contention".
func (a *Allocator) Allocate(ctx context.Context, userID string, date time.Time, bookingType model.BookingType, maxAttempts int) (*model.Booking, error) {
	seats := model.SeatRangeFor(bookingType)
	if seats.Size() == 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown booking type: %q", bookingType))
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	log := a.log.With("user_id", userID, "date", date.Format(model.DateLayout), "booking_type", bookingType)

	for attempt := 1; ; attempt++ {
		occupied, err := a.index.Occupied(ctx, date)
		if err != nil {
			return nil, err
		}

		seat, ok := occupied.LowestFree(seats)
		if !ok {
			return nil, poolFull(bookingType, date, seats)
		}

		booking := &model.Booking{
			UserID:      userID,
			Date:        date,
			SeatNumber:  seat,
			BookingType: bookingType,
			Status:      model.StatusActive,
		}
		if err := a.validator.ValidateBooking(booking); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}

		err = a.bookings.Create(ctx, booking)
		if err == nil {
			log.Info("Seat allocated", "seat_number", seat, "attempt", attempt)
			return booking, nil
		}
		if !errors.Is(err, bookingserrors.ErrSeatTaken) {
			return nil, apperrors.Unavailable("Failed to create booking", err)
		}

		log.Debug("Seat taken concurrently", "seat_number", seat, "attempt", attempt)
		if attempt >= maxAttempts {
			log.Warn("Seat allocation gave up under contention", "attempts", attempt)
			return nil, poolFull(bookingType, date, seats).WithDetails(map[string]any{
				"reason":   "contention",
				"attempts": attempt,
			})
		}

		select {
		case <-ctx.Done():
			return nil, apperrors.Unavailable("Seat allocation cancelled", ctx.Err())
		case <-a.clock.After(a.retryDelay):
		}
	}
}

func poolFull(bookingType model.BookingType, date time.Time, seats model.SeatRange) *apperrors.AppError {
	var msg string
	if bookingType == model.BookingTypeSpare {
		msg = fmt.Sprintf("No available spare seats (%d-%d) for this date", seats.First, seats.Last)
	} else {
		msg = fmt.Sprintf("No available seats (%d-%d) for this date", seats.First, seats.Last)
	}
	return apperrors.Capacity(msg).WithDetails(map[string]any{
		"date":         date.Format(model.DateLayout),
		"booking_type": bookingType,
		"seat_range":   seats,
	})
}
