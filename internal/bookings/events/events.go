// Package events publishes booking lifecycle notifications. Publishing is
// best effort: a failed publish is logged and never undoes a booking.
package events

import (
	"context"
	"seatrota/pkg/kafka"
	"seatrota/pkg/logger"
	"seatrota/pkg/middleware"
	"seatrota/pkg/model"
	"time"
)

const (
	TypeBookingCreated       = "booking.created"
	TypeBookingReleased      = "booking.released"
	TypeAutoBookingCompleted = "autobooking.completed"

	schemaVersion = "1"
)

type Event struct {
	Type    string
	Key     string
	Payload any
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type BookingPayload struct {
	BookingID   string              `json:"booking_id"`
	UserID      string              `json:"user_id"`
	Date        string              `json:"date"`
	SeatNumber  int                 `json:"seat_number"`
	BookingType model.BookingType   `json:"booking_type"`
	Status      model.BookingStatus `json:"status"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

func BookingEvent(eventType string, b *model.Booking) Event {
	date := b.Date.Format(model.DateLayout)
	return Event{
		Type: eventType,
		Key:  date,
		Payload: BookingPayload{
			BookingID:   b.ID,
			UserID:      b.UserID,
			Date:        date,
			SeatNumber:  b.SeatNumber,
			BookingType: b.BookingType,
			Status:      b.Status,
			OccurredAt:  b.UpdatedAt,
		},
	}
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, Event) {}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, source string, log *logger.Logger) Publisher {
	return &kafkaPublisher{producer: producer, source: source, log: log}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) {
	msg, err := kafka.NewMessage().
		WithKey(event.Key).
		WithEventType(event.Type).
		WithSource(p.source).
		WithSchemaVersion(schemaVersion).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithValue(event.Payload).
		Build()
	if err != nil {
		p.log.Error("Failed to encode event", "event_type", event.Type, "error", err)
		return
	}

	// The request context may already be cancelled once the response is written.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := p.producer.Publish(pubCtx, msg); err != nil {
		p.log.Warn("Failed to publish event",
			"event_type", event.Type,
			"key", event.Key,
			"error", err,
		)
	}
}
