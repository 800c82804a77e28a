package service

import (
	"context"
	"seatrota/internal/bookings/repository"
	apperrors "seatrota/pkg/errors"
	"seatrota/pkg/model"
	"time"
)

// OccupiedSeats maps each occupied seat to the type of the booking holding it.
type OccupiedSeats map[int]model.BookingType

func (o OccupiedSeats) Has(seat int) bool {
	_, ok := o[seat]
	return ok
}

// LowestFree returns the lowest seat in r that is not occupied.
func (o OccupiedSeats) LowestFree(r model.SeatRange) (int, bool) {
	for seat := r.First; seat <= r.Last; seat++ {
		if !o.Has(seat) {
			return seat, true
		}
	}
	return 0, false
}

// AvailabilityIndex derives seat occupancy from active bookings. It keeps no
// state; every call reads storage.
type AvailabilityIndex struct {
	bookings repository.BookingRepository
}

func NewAvailabilityIndex(bookings repository.BookingRepository) *AvailabilityIndex {
	return &AvailabilityIndex{bookings: bookings}
}

func (a *AvailabilityIndex) active(ctx context.Context, date time.Time) ([]*model.Booking, error) {
	bookings, err := a.bookings.FindActiveByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to read seat availability", err)
	}
	return bookings, nil
}

func (a *AvailabilityIndex) Occupied(ctx context.Context, date time.Time) (OccupiedSeats, error) {
	bookings, err := a.active(ctx, date)
	if err != nil {
		return nil, err
	}
	occupied := make(OccupiedSeats, len(bookings))
	for _, b := range bookings {
		occupied[b.SeatNumber] = b.BookingType
	}
	return occupied, nil
}

// SeatStatus returns one entry per seat, 1 through model.TotalSeats.
func (a *AvailabilityIndex) SeatStatus(ctx context.Context, date time.Time) ([]model.SeatStatus, error) {
	occupied, err := a.Occupied(ctx, date)
	if err != nil {
		return nil, err
	}

	seats := make([]model.SeatStatus, 0, model.TotalSeats)
	for seat := 1; seat <= model.TotalSeats; seat++ {
		status := model.SeatStatus{SeatNumber: seat, Status: model.SeatAvailable}
		if bt, ok := occupied[seat]; ok {
			status.Status = model.SeatOccupied
			status.BookingType = &bt
		}
		seats = append(seats, status)
	}
	return seats, nil
}

type DateBookings struct {
	Date       string               `json:"date"`
	Bookings   []*model.Booking     `json:"bookings"`
	Statistics model.SeatStatistics `json:"statistics"`
}

func (a *AvailabilityIndex) BookingsForDate(ctx context.Context, date time.Time) (*DateBookings, error) {
	bookings, err := a.active(ctx, date)
	if err != nil {
		return nil, err
	}

	stats := model.SeatStatistics{TotalSeats: model.TotalSeats, OccupiedSeats: len(bookings)}
	stats.AvailableSeats = stats.TotalSeats - stats.OccupiedSeats
	for _, b := range bookings {
		switch b.BookingType {
		case model.BookingTypeScheduled:
			stats.ScheduledBookings++
		case model.BookingTypeSpare:
			stats.SpareBookings++
		}
	}

	return &DateBookings{
		Date:       date.Format(model.DateLayout),
		Bookings:   bookings,
		Statistics: stats,
	}, nil
}
