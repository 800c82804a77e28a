package service

import (
	"context"
	"errors"
	bookingserrors "seatrota/internal/bookings/errors"
	"seatrota/internal/bookings/repository"
	apperrors "seatrota/pkg/errors"
	"seatrota/pkg/model"
	"time"
)

// Release moves the user's active booking for date to released. The update
// is conditional on status=active, so a repeated release reports NOT_FOUND
// and the seat becomes bookable again immediately.
func Release(ctx context.Context, bookings repository.BookingRepository, userID string, date time.Time) (*model.Booking, error) {
	booking, err := bookings.MarkReleased(ctx, userID, date)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Active booking for this date").WithDetails(map[string]any{
				"date": date.Format(model.DateLayout),
			})
		}
		return nil, apperrors.Unavailable("Failed to release booking", err)
	}
	return booking, nil
}
