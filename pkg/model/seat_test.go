package model

import (
	"testing"
	"time"
)

func TestSeatRangeFor(t *testing.T) {
	tests := []struct {
		bookingType BookingType
		want        SeatRange
	}{
		{BookingTypeScheduled, SeatRange{First: 1, Last: 40}},
		{BookingTypeSpare, SeatRange{First: 41, Last: 50}},
	}

	for _, tt := range tests {
		t.Run(string(tt.bookingType), func(t *testing.T) {
			if got := SeatRangeFor(tt.bookingType); got != tt.want {
				t.Errorf("SeatRangeFor(%s) = %+v, want %+v", tt.bookingType, got, tt.want)
			}
		})
	}

	if SeatRangeFor("vip").Size() != 0 {
		t.Errorf("unknown booking type should map to an empty range")
	}
}

func TestSeatPools_DoNotOverlap(t *testing.T) {
	scheduled := SeatRangeFor(BookingTypeScheduled)
	spare := SeatRangeFor(BookingTypeSpare)

	for seat := 1; seat <= TotalSeats; seat++ {
		if scheduled.Contains(seat) == spare.Contains(seat) {
			t.Errorf("seat %d must belong to exactly one pool", seat)
		}
	}
	if spare.Size() != SparePoolSize {
		t.Errorf("spare pool size = %d, want %d", spare.Size(), SparePoolSize)
	}
}

func TestDay_UsesLocationCalendar(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 20:00 UTC on the 1st is already the 2nd in Kolkata.
	instant := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)

	if got := Day(instant, time.UTC); !got.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Day(UTC) = %v", got)
	}
	if got := Day(instant, kolkata); !got.Equal(time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Day(Kolkata) = %v", got)
	}
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2026-02-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !IsNormalizedDay(day) {
		t.Errorf("ParseDay should return a normalized day, got %v", day)
	}

	if _, err := ParseDay("20/02/2026"); err == nil {
		t.Errorf("expected error for non ISO date")
	}
}
