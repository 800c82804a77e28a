package repository

import (
	"context"
	"seatrota/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository persists bookings. Every date argument is a normalized
// day (model.Day).
type BookingRepository interface {
	FindActiveByDate(ctx context.Context, date time.Time) ([]*model.Booking, error)
	// Create inserts an active booking. It returns ErrSeatTaken when the seat
	// is already actively booked on that date; no partial write is left.
	Create(ctx context.Context, booking *model.Booking) error
	FindActiveByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.Booking, error)
	CountActiveSpare(ctx context.Context, date time.Time) (int64, error)
	// MarkReleased flips the user's active booking for date to released and
	// returns it. ErrNotFound when there is no active booking.
	MarkReleased(ctx context.Context, userID string, date time.Time) (*model.Booking, error)
	FindByUser(ctx context.Context, userID string, filter model.BookingFilter) ([]*model.Booking, error)
}

type HolidayRepository interface {
	// FindByDate returns ErrHolidayNotFound when date is a working day.
	FindByDate(ctx context.Context, date time.Time) (*model.Holiday, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindActiveByBatch returns up to limit active users of batch ordered by id.
	FindActiveByBatch(ctx context.Context, batch int, limit int) ([]*model.User, error)
}

// Repositories bundles the three stores for one storage driver.
type Repositories struct {
	Bookings BookingRepository
	Holidays HolidayRepository
	Users    UserRepository
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// A shorter caller deadline wins.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
