package events

import (
	"context"
	"testing"
	"time"

	"seatrota/pkg/model"

	"github.com/stretchr/testify/assert"
)

func TestBookingEvent_KeysByDate(t *testing.T) {
	b := &model.Booking{
		ID:          "b-1",
		UserID:      "u-1",
		Date:        time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		SeatNumber:  44,
		BookingType: model.BookingTypeSpare,
		Status:      model.StatusActive,
	}

	ev := BookingEvent(TypeBookingCreated, b)
	assert.Equal(t, "2026-03-03", ev.Key)
	assert.Equal(t, TypeBookingCreated, ev.Type)

	payload, ok := ev.Payload.(BookingPayload)
	if assert.True(t, ok) {
		assert.Equal(t, 44, payload.SeatNumber)
		assert.Equal(t, "u-1", payload.UserID)
	}
}

func TestNoopPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoopPublisher().Publish(context.Background(), Event{Type: TypeBookingReleased})
	})
}
