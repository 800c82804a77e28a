// Package service runs the daily auto-booking of the scheduled batch.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "seatrota/internal/bookings/errors"
	"seatrota/internal/bookings/events"
	"seatrota/internal/bookings/repository"
	bookingservice "seatrota/internal/bookings/service"
	"seatrota/internal/schedule"
	"seatrota/pkg/config"
	apperrors "seatrota/pkg/errors"
	"seatrota/pkg/logger"
	"seatrota/pkg/model"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultUserLimit matches the size of the scheduled pool.
	DefaultUserLimit = model.ScheduledSeatLast - model.ScheduledSeatFirst + 1

	allocationAttempts = 3
)

type Failure struct {
	UserID string `json:"user_id"`
	Error  string `json:"error"`
}

// Report summarizes one auto-booking run. Users that already held an active
// booking for the day are counted in Skipped, not in Successful, so
// TotalProcessed == Successful + Skipped + Failed. Only on a first run with no
// existing bookings does TotalProcessed equal Successful + Failed.
type Report struct {
	Date           string    `json:"date"`
	Batch          *int      `json:"batch"`
	Scheduled      bool      `json:"scheduled"`
	Message        string    `json:"message"`
	TotalProcessed int       `json:"total_processed"`
	Successful     int       `json:"successful"`
	Skipped        int       `json:"skipped"`
	Failed         int       `json:"failed"`
	Failures       []Failure `json:"failures"`
}

type Orchestrator struct {
	users     repository.UserRepository
	bookings  repository.BookingRepository
	allocator *bookingservice.Allocator
	publisher events.Publisher
	location  *time.Location
	limit     int
	workers   int
	log       *logger.Logger
}

func NewOrchestrator(
	repos *repository.Repositories,
	allocator *bookingservice.Allocator,
	publisher events.Publisher,
	cfg *config.Config,
) *Orchestrator {
	limit := cfg.AutoBookingLimit
	if limit <= 0 || limit > DefaultUserLimit {
		limit = DefaultUserLimit
	}
	workers := cfg.AutoBookingWorkers
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		users:     repos.Users,
		bookings:  repos.Bookings,
		allocator: allocator,
		publisher: publisher,
		location:  cfg.Location,
		limit:     limit,
		workers:   workers,
		log:       cfg.Log,
	}
}

// RunAutoBooking books a scheduled seat for every active user of the batch
// that owns date. A day without a batch yields a report, not an error. Per-user
// failures are recorded in the report and never stop the run; only a failure
// to list users aborts it.
func (o *Orchestrator) RunAutoBooking(ctx context.Context, date time.Time) (*Report, error) {
	if !model.IsNormalizedDay(date) {
		date = model.Day(date, o.location)
	}
	day := date.Format(model.DateLayout)
	log := o.log.With("date", day)

	report := &Report{Date: day, Failures: []Failure{}}

	batch := schedule.ScheduledBatch(date)
	if batch == schedule.BatchNone {
		report.Message = fmt.Sprintf("No batch scheduled for %s", day)
		log.Info("Auto-booking skipped, no batch scheduled")
		return report, nil
	}
	n := int(batch)
	report.Batch = &n
	report.Scheduled = true

	users, err := o.users.FindActiveByBatch(ctx, n, o.limit)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to list batch users", err)
	}
	report.TotalProcessed = len(users)
	log.Info("Auto-booking started", "batch", n, "users", len(users), "workers", o.workers)

	var mu sync.Mutex
	record := func(userID string, skipped bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			report.Failed++
			report.Failures = append(report.Failures, Failure{UserID: userID, Error: err.Error()})
		case skipped:
			report.Skipped++
		default:
			report.Successful++
		}
	}

	if o.workers == 1 {
		for _, u := range users {
			skipped, err := o.bookUser(ctx, u.ID, date)
			record(u.ID, skipped, err)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.workers)
		for _, u := range users {
			g.Go(func() error {
				skipped, err := o.bookUser(gctx, u.ID, date)
				record(u.ID, skipped, err)
				return nil
			})
		}
		_ = g.Wait()
	}

	if report.Failed > 0 {
		report.Message = fmt.Sprintf("Batch %d auto-booked with %d failure(s)", n, report.Failed)
		log.Warn("Auto-booking completed with failures",
			"batch", n,
			"successful", report.Successful,
			"skipped", report.Skipped,
			"failed", report.Failed,
		)
	} else {
		report.Message = fmt.Sprintf("Batch %d auto-booked", n)
		log.Info("Auto-booking completed",
			"batch", n,
			"successful", report.Successful,
			"skipped", report.Skipped,
		)
	}

	o.publisher.Publish(ctx, events.Event{
		Type:    events.TypeAutoBookingCompleted,
		Key:     day,
		Payload: report,
	})
	return report, nil
}

// bookUser allocates a scheduled seat unless the user already holds one for
// the day, which keeps repeated runs from double-booking.
func (o *Orchestrator) bookUser(ctx context.Context, userID string, date time.Time) (skipped bool, err error) {
	_, err = o.bookings.FindActiveByUserAndDate(ctx, userID, date)
	switch {
	case err == nil:
		return true, nil
	case !errors.Is(err, bookingserrors.ErrNotFound):
		return false, apperrors.Unavailable("Failed to read bookings", err)
	}

	booking, err := o.allocator.Allocate(ctx, userID, date, model.BookingTypeScheduled, allocationAttempts)
	if err != nil {
		o.log.Warn("Auto-booking failed for user", "user_id", userID, "error", err)
		return false, err
	}
	o.log.Debug("Auto-booked seat", "user_id", userID, "seat_number", booking.SeatNumber)
	o.publisher.Publish(ctx, events.BookingEvent(events.TypeBookingCreated, booking))
	return false, nil
}
