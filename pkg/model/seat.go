package model

import "time"

const (
	TotalSeats = 50

	ScheduledSeatFirst = 1
	ScheduledSeatLast  = 40
	SpareSeatFirst     = 41
	SpareSeatLast      = 50

	SparePoolSize = SpareSeatLast - SpareSeatFirst + 1

	DateLayout = "2006-01-02"
)

type SeatRange struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

func (r SeatRange) Contains(seat int) bool {
	return seat >= r.First && seat <= r.Last
}

func (r SeatRange) Size() int {
	return r.Last - r.First + 1
}

// SeatRangeFor returns the seat pool reserved for a booking type. Unknown
// types get an empty range.
func SeatRangeFor(t BookingType) SeatRange {
	switch t {
	case BookingTypeScheduled:
		return SeatRange{First: ScheduledSeatFirst, Last: ScheduledSeatLast}
	case BookingTypeSpare:
		return SeatRange{First: SpareSeatFirst, Last: SpareSeatLast}
	default:
		return SeatRange{First: 1, Last: 0}
	}
}

type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatOccupied  SeatState = "occupied"
)

type SeatStatus struct {
	SeatNumber  int          `json:"seat_number"`
	Status      SeatState    `json:"status"`
	BookingType *BookingType `json:"booking_type"`
}

type SeatStatistics struct {
	TotalSeats        int `json:"total_seats"`
	OccupiedSeats     int `json:"occupied_seats"`
	AvailableSeats    int `json:"available_seats"`
	ScheduledBookings int `json:"scheduled_bookings"`
	SpareBookings     int `json:"spare_bookings"`
}

// Day normalizes t to its calendar day as observed in loc, returned as
// midnight UTC. Two instants on the same local day always map to the same
// value, which is what storage keys on.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a normalized day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// IsNormalizedDay reports whether t is midnight UTC.
func IsNormalizedDay(t time.Time) bool {
	return t.Equal(Day(t, time.UTC))
}
