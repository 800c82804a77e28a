package model

import (
	"time"
)

type BookingType string

const (
	BookingTypeScheduled BookingType = "scheduled"
	BookingTypeSpare     BookingType = "spare"
)

type BookingStatus string

const (
	StatusActive   BookingStatus = "active"
	StatusReleased BookingStatus = "released"
)

// Booking is a claim on one seat for one calendar day. Date is always a
// normalized day (see Day).
type Booking struct {
	ID          string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty"`
	UserID      string        `json:"user_id" bson:"user_id" validate:"required"`
	Date        time.Time     `json:"date" bson:"date" validate:"required,calendar_date"`
	SeatNumber  int           `json:"seat_number" bson:"seat_number" validate:"required,min=1,max=50"`
	BookingType BookingType   `json:"booking_type" bson:"booking_type" validate:"required,oneof=scheduled spare"`
	Status      BookingStatus `json:"status" bson:"status" validate:"required,oneof=active released"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// BookingFilter narrows a user's booking history. Zero values mean "no bound".
type BookingFilter struct {
	From   *time.Time
	To     *time.Time
	Status BookingStatus
}

// DateRequest is the body of spare-booking, release and auto-booking calls.
type DateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// OptionalDateRequest allows the date to be omitted (defaults to today).
type OptionalDateRequest struct {
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
