package service

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "seatrota/internal/bookings/errors"
	"seatrota/internal/bookings/repository"
	"seatrota/internal/schedule"
	"seatrota/pkg/clock"
	apperrors "seatrota/pkg/errors"
	"seatrota/pkg/model"
	"seatrota/pkg/sanitizer"
	"time"
)

// Rule names carried in RULE_VIOLATION details.
const (
	RuleHoliday       = "holiday"
	RuleAlreadyBooked = "already_booked"
	RuleScheduledDay  = "scheduled_day"
	RuleBookingWindow = "booking_window"
)

// Pipeline runs the spare-booking admission checks in a fixed order and
// stops at the first failure:
//
//  1. the date is a holiday
//  2. the user already holds an active booking that day
//  3. the user's batch is scheduled that day
//  4. same-day requests before the opening hour
//  5. the spare pool is full
type Pipeline struct {
	bookings repository.BookingRepository
	holidays repository.HolidayRepository
	users    repository.UserRepository
	clock    clock.Clock
	location *time.Location
	openHour int
}

func NewPipeline(
	bookings repository.BookingRepository,
	holidays repository.HolidayRepository,
	users repository.UserRepository,
	clk clock.Clock,
	location *time.Location,
	openHour int,
) *Pipeline {
	return &Pipeline{
		bookings: bookings,
		holidays: holidays,
		users:    users,
		clock:    clk,
		location: location,
		openHour: openHour,
	}
}

// ValidateSpareRequest returns the requesting user when every check passes.
func (p *Pipeline) ValidateSpareRequest(ctx context.Context, userID string, date time.Time) (*model.User, error) {
	day := date.Format(model.DateLayout)

	holiday, err := p.holidays.FindByDate(ctx, date)
	switch {
	case err == nil:
		reason := sanitizer.HolidayReason(holiday.Reason)
		return nil, apperrors.RuleViolation(RuleHoliday,
			fmt.Sprintf("Cannot book on a holiday: %s is %s", day, reason),
		).WithDetails(map[string]any{"date": day, "reason": reason})
	case !errors.Is(err, bookingserrors.ErrHolidayNotFound):
		return nil, apperrors.Unavailable("Failed to read holidays", err)
	}

	existing, err := p.bookings.FindActiveByUserAndDate(ctx, userID, date)
	switch {
	case err == nil:
		return nil, apperrors.RuleViolation(RuleAlreadyBooked,
			"You already have a booking for this date",
		).WithDetails(map[string]any{
			"date":         day,
			"seat_number":  existing.SeatNumber,
			"booking_type": existing.BookingType,
		})
	case !errors.Is(err, bookingserrors.ErrNotFound):
		return nil, apperrors.Unavailable("Failed to read bookings", err)
	}

	user, err := p.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrUserNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		return nil, apperrors.Unavailable("Failed to read user", err)
	}
	if schedule.IsScheduledDay(user, date) {
		return nil, apperrors.RuleViolation(RuleScheduledDay,
			fmt.Sprintf("Cannot book spare seat on your scheduled day - Batch %d is scheduled for this date. You are automatically booked.", user.BatchNumber),
		).WithDetails(map[string]any{"date": day, "batch": user.BatchNumber})
	}

	now := p.clock.Now().In(p.location)
	if date.Equal(model.Day(now, p.location)) && now.Hour() < p.openHour {
		return nil, apperrors.RuleViolation(RuleBookingWindow,
			fmt.Sprintf("Spare seat booking opens at %02d:00. Please try again later", p.openHour),
		).WithDetails(map[string]any{"date": day, "opens_at": fmt.Sprintf("%02d:00", p.openHour)})
	}

	count, err := p.bookings.CountActiveSpare(ctx, date)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to count spare bookings", err)
	}
	if count >= model.SparePoolSize {
		return nil, apperrors.Capacity("All spare seats have been booked").WithDetails(map[string]any{
			"date":       day,
			"seat_range": model.SeatRangeFor(model.BookingTypeSpare),
		})
	}

	return user, nil
}
