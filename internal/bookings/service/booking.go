package service

import (
	"context"
	"errors"
	"seatrota/internal/bookings/events"
	bookingserrors "seatrota/internal/bookings/errors"
	"seatrota/internal/bookings/repository"
	"seatrota/internal/bookings/validator"
	"seatrota/internal/schedule"
	"seatrota/pkg/clock"
	"seatrota/pkg/config"
	apperrors "seatrota/pkg/errors"
	"seatrota/pkg/model"
	"time"
)

type BookingService interface {
	BookSpareSeat(ctx context.Context, userID string, date time.Time) (*model.Booking, error)
	ReleaseSeat(ctx context.Context, userID string, date time.Time) (*model.Booking, error)
	GetSeatStatus(ctx context.Context, date time.Time) ([]model.SeatStatus, error)
	GetBookingsForDate(ctx context.Context, date time.Time) (*DateBookings, error)
	GetMyBookings(ctx context.Context, userID string, filter model.BookingFilter) ([]*model.Booking, error)
	GetBatchScheduleInfo(date time.Time) schedule.Info
	GetNextScheduledDate(ctx context.Context, userID string) (*time.Time, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	// Today is the current calendar day in the business timezone.
	Today() time.Time
}

type bookingService struct {
	repos     *repository.Repositories
	index     *AvailabilityIndex
	allocator *Allocator
	pipeline  *Pipeline
	publisher events.Publisher
	clock     clock.Clock
	cfg       *config.Config
}

func NewBookingService(
	repos *repository.Repositories,
	allocator *Allocator,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repos:     repos,
		index:     allocator.index,
		allocator: allocator,
		pipeline: NewPipeline(
			repos.Bookings,
			repos.Holidays,
			repos.Users,
			clk,
			cfg.Location,
			cfg.SpareBookingOpenHour,
		),
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
	}
}

// NewAllocatorFromConfig wires an Allocator for the given repositories.
func NewAllocatorFromConfig(repos *repository.Repositories, v *validator.BookingValidator, clk clock.Clock, cfg *config.Config) *Allocator {
	return NewAllocator(
		repos.Bookings,
		NewAvailabilityIndex(repos.Bookings),
		v,
		clk,
		cfg.AllocationRetryDelay,
		cfg.Log,
	)
}

// day turns t into a calendar day. Values already at midnight UTC are taken
// as calendar days; anything else is read in the business timezone.
func (s *bookingService) day(t time.Time) time.Time {
	if model.IsNormalizedDay(t) {
		return t
	}
	return model.Day(t, s.cfg.Location)
}

func (s *bookingService) Today() time.Time {
	return model.Day(s.clock.Now(), s.cfg.Location)
}

func (s *bookingService) BookSpareSeat(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
	date = s.day(date)

	if _, err := s.pipeline.ValidateSpareRequest(ctx, userID, date); err != nil {
		s.cfg.Log.Info("Spare booking rejected",
			"user_id", userID,
			"date", date.Format(model.DateLayout),
			"reason", err.Error(),
		)
		return nil, err
	}

	booking, err := s.allocator.Allocate(ctx, userID, date, model.BookingTypeSpare, s.cfg.AllocationMaxAttempts)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.BookingEvent(events.TypeBookingCreated, booking))
	return booking, nil
}

func (s *bookingService) ReleaseSeat(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
	date = s.day(date)

	booking, err := Release(ctx, s.repos.Bookings, userID, date)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Seat released",
		"user_id", userID,
		"date", date.Format(model.DateLayout),
		"seat_number", booking.SeatNumber,
	)
	s.publisher.Publish(ctx, events.BookingEvent(events.TypeBookingReleased, booking))
	return booking, nil
}

func (s *bookingService) GetSeatStatus(ctx context.Context, date time.Time) ([]model.SeatStatus, error) {
	return s.index.SeatStatus(ctx, s.day(date))
}

func (s *bookingService) GetBookingsForDate(ctx context.Context, date time.Time) (*DateBookings, error) {
	return s.index.BookingsForDate(ctx, s.day(date))
}

func (s *bookingService) GetMyBookings(ctx context.Context, userID string, filter model.BookingFilter) ([]*model.Booking, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperrors.InvalidInput("to_date must not be before from_date")
	}
	if filter.Status != "" && filter.Status != model.StatusActive && filter.Status != model.StatusReleased {
		return nil, apperrors.InvalidInput("status must be one of: active released")
	}

	bookings, err := s.repos.Bookings.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to read bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetBatchScheduleInfo(date time.Time) schedule.Info {
	return schedule.DescribeDay(s.day(date))
}

// GetNextScheduledDate looks ahead from today. A nil date means nothing was
// found within schedule.MaxLookahead days.
func (s *bookingService) GetNextScheduledDate(ctx context.Context, userID string) (*time.Time, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	next, ok := schedule.NextScheduledDate(user, s.Today())
	if !ok {
		return nil, nil
	}
	return &next, nil
}

func (s *bookingService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrUserNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		return nil, apperrors.Unavailable("Failed to read user", err)
	}
	return user, nil
}
