package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"seatrota/internal/bookings/events"
	"seatrota/internal/bookings/repository"
	bookingservice "seatrota/internal/bookings/service"
	"seatrota/internal/bookings/validator"
	"seatrota/pkg/clock"
	"seatrota/pkg/config"
	apperrors "seatrota/pkg/errors"
	"seatrota/pkg/logger"
	"seatrota/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// week-1 Monday, owned by batch 1
	monday   = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, ev := range p.events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

type failingCreateRepository struct {
	repository.BookingRepository
	failFor string
}

func (r *failingCreateRepository) Create(ctx context.Context, b *model.Booking) error {
	if b.UserID == r.failFor {
		return errors.New("write concern timeout")
	}
	return r.BookingRepository.Create(ctx, b)
}

type mockUserRepository struct {
	findActiveByBatchFunc func(ctx context.Context, batch int, limit int) ([]*model.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) FindActiveByBatch(ctx context.Context, batch int, limit int) ([]*model.User, error) {
	return m.findActiveByBatchFunc(ctx, batch, limit)
}

type fixture struct {
	cfg       *config.Config
	repos     *repository.Repositories
	users     *repository.MemoryUserRepository
	clock     *clock.FakeClock
	publisher *recordingPublisher
}

func newFixture(t *testing.T, opts ...func(*config.Config)) *fixture {
	t.Helper()
	cfg := &config.Config{
		Log:                   logger.Discard(),
		Location:              time.UTC,
		SpareBookingOpenHour:  12,
		AllocationMaxAttempts: 3,
		AllocationRetryDelay:  time.Millisecond,
		AutoBookingEnabled:    true,
		AutoBookingSchedule:   "1 0 * * *",
		AutoBookingLimit:      DefaultUserLimit,
		AutoBookingWorkers:    1,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	users := repository.NewMemoryUserRepository()
	return &fixture{
		cfg: cfg,
		repos: &repository.Repositories{
			Bookings: repository.NewMemoryBookingRepository(),
			Holidays: repository.NewMemoryHolidayRepository(),
			Users:    users,
		},
		users:     users,
		clock:     clock.Fake(monday.Add(time.Minute)),
		publisher: &recordingPublisher{},
	}
}

func (f *fixture) orchestrator() *Orchestrator {
	alloc := bookingservice.NewAllocatorFromConfig(f.repos, validator.NewBookingValidator(f.cfg.Log), f.clock, f.cfg)
	return NewOrchestrator(f.repos, alloc, f.publisher, f.cfg)
}

func (f *fixture) addUsers(batch, n int, prefix string) {
	for i := 0; i < n; i++ {
		f.users.Add(&model.User{
			ID:          fmt.Sprintf("%s-%02d", prefix, i),
			BatchNumber: batch,
			SquatNumber: i%10 + 1,
			Role:        model.RoleUser,
			IsActive:    true,
		})
	}
}

func TestRunAutoBooking_WeekendIsNoop(t *testing.T) {
	f := newFixture(t)
	f.addUsers(1, 5, "b1")
	f.addUsers(2, 5, "b2")

	report, err := f.orchestrator().RunAutoBooking(context.Background(), saturday)
	require.NoError(t, err)

	assert.False(t, report.Scheduled)
	assert.Nil(t, report.Batch)
	assert.Equal(t, "2026-03-07", report.Date)
	assert.Contains(t, report.Message, "No batch scheduled")
	assert.Zero(t, report.TotalProcessed)

	active, err := f.repos.Bookings.FindActiveByDate(context.Background(), saturday)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Zero(t, f.publisher.count(events.TypeAutoBookingCompleted))
}

func TestRunAutoBooking_BooksScheduledBatchInIDOrder(t *testing.T) {
	f := newFixture(t)
	f.addUsers(1, 3, "b1")
	f.addUsers(2, 3, "b2")
	f.users.Add(&model.User{ID: "b1-inactive", BatchNumber: 1, SquatNumber: 1, IsActive: false})

	report, err := f.orchestrator().RunAutoBooking(context.Background(), monday)
	require.NoError(t, err)

	require.NotNil(t, report.Batch)
	assert.Equal(t, 1, *report.Batch)
	assert.True(t, report.Scheduled)
	assert.Equal(t, 3, report.TotalProcessed)
	assert.Equal(t, 3, report.Successful)
	assert.Zero(t, report.Failed)
	assert.Empty(t, report.Failures)

	for i := 0; i < 3; i++ {
		b, err := f.repos.Bookings.FindActiveByUserAndDate(context.Background(), fmt.Sprintf("b1-%02d", i), monday)
		require.NoError(t, err)
		assert.Equal(t, i+1, b.SeatNumber)
		assert.Equal(t, model.BookingTypeScheduled, b.BookingType)
	}

	assert.Equal(t, 3, f.publisher.count(events.TypeBookingCreated))
	assert.Equal(t, 1, f.publisher.count(events.TypeAutoBookingCompleted))
}

func TestRunAutoBooking_CapsAtScheduledPool(t *testing.T) {
	f := newFixture(t)
	f.addUsers(1, 45, "b1")

	report, err := f.orchestrator().RunAutoBooking(context.Background(), monday)
	require.NoError(t, err)

	assert.Equal(t, 40, report.TotalProcessed)
	assert.Equal(t, 40, report.Successful)

	// b1-40 .. b1-44 sort last and are left out
	_, err = f.repos.Bookings.FindActiveByUserAndDate(context.Background(), "b1-40", monday)
	assert.Error(t, err)

	spare, err := f.repos.Bookings.CountActiveSpare(context.Background(), monday)
	require.NoError(t, err)
	assert.Zero(t, spare, "auto-booking never touches the spare pool")
}

func TestRunAutoBooking_FailureDoesNotAbortRun(t *testing.T) {
	f := newFixture(t)
	f.addUsers(1, 4, "b1")
	f.repos.Bookings = &failingCreateRepository{BookingRepository: f.repos.Bookings, failFor: "b1-01"}

	report, err := f.orchestrator().RunAutoBooking(context.Background(), monday)
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalProcessed)
	assert.Equal(t, 3, report.Successful)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "b1-01", report.Failures[0].UserID)
	assert.Contains(t, report.Failures[0].Error, "Failed to create booking")
	assert.Contains(t, report.Message, "1 failure")
}

func TestRunAutoBooking_RerunSkipsBookedUsers(t *testing.T) {
	f := newFixture(t)
	f.addUsers(1, 3, "b1")
	o := f.orchestrator()

	_, err := o.RunAutoBooking(context.Background(), monday)
	require.NoError(t, err)

	report, err := o.RunAutoBooking(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Skipped)
	assert.Zero(t, report.Successful)
	assert.Equal(t, report.TotalProcessed, report.Successful+report.Skipped+report.Failed)

	active, err := f.repos.Bookings.FindActiveByDate(context.Background(), monday)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestRunAutoBooking_ParallelWorkers(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.AutoBookingWorkers = 8 })
	f.addUsers(1, 40, "b1")

	report, err := f.orchestrator().RunAutoBooking(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 40, report.TotalProcessed)
	assert.Equal(t, 40, report.Successful+report.Failed)

	active, err := f.repos.Bookings.FindActiveByDate(context.Background(), monday)
	require.NoError(t, err)
	seats := make([]int, 0, len(active))
	for _, b := range active {
		seats = append(seats, b.SeatNumber)
	}
	sort.Ints(seats)
	for i := 1; i < len(seats); i++ {
		assert.NotEqual(t, seats[i-1], seats[i], "seat %d booked twice", seats[i])
	}
	assert.Len(t, seats, report.Successful)
	// Workers race for the same lowest seat; a loser may run out of attempts.
	for _, failure := range report.Failures {
		assert.Contains(t, failure.Error, apperrors.CodeCapacity)
	}
}

func TestRunAutoBooking_UserListFailure(t *testing.T) {
	f := newFixture(t)
	f.repos.Users = &mockUserRepository{
		findActiveByBatchFunc: func(ctx context.Context, batch int, limit int) ([]*model.User, error) {
			return nil, errors.New("server selection timeout")
		},
	}

	_, err := f.orchestrator().RunAutoBooking(context.Background(), monday)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnavailable))
}

func TestRunAutoBooking_PassesLimit(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.AutoBookingLimit = 0 })
	var gotBatch, gotLimit int
	f.repos.Users = &mockUserRepository{
		findActiveByBatchFunc: func(ctx context.Context, batch int, limit int) ([]*model.User, error) {
			gotBatch, gotLimit = batch, limit
			return nil, nil
		},
	}

	// week-2 Monday belongs to batch 2
	_, err := f.orchestrator().RunAutoBooking(context.Background(), time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, gotBatch)
	assert.Equal(t, DefaultUserLimit, gotLimit)
}

type slowPublisher struct {
	delay time.Duration
	recordingPublisher
}

func (p *slowPublisher) Publish(ctx context.Context, ev events.Event) {
	time.Sleep(p.delay)
	p.recordingPublisher.Publish(ctx, ev)
}

func TestRunAutoBooking_SlowBrokerDoesNotStarveBatch(t *testing.T) {
	f := newFixture(t)
	f.addUsers(1, DefaultUserLimit, "b1")

	slow := &slowPublisher{delay: 50 * time.Millisecond}
	publisher := events.NewAsyncPublisher(slow, events.DefaultAsyncBuffer, f.cfg.Log)
	alloc := bookingservice.NewAllocatorFromConfig(f.repos, validator.NewBookingValidator(f.cfg.Log), f.clock, f.cfg)
	o := NewOrchestrator(f.repos, alloc, publisher, f.cfg)

	// Far shorter than publishing 41 events back to back would take.
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	report, err := o.RunAutoBooking(ctx, monday)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserLimit, report.TotalProcessed)
	assert.Equal(t, DefaultUserLimit, report.Successful)
	assert.Zero(t, report.Failed)

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer drainCancel()
	require.NoError(t, publisher.Close(drainCtx))
	assert.Equal(t, DefaultUserLimit, slow.count(events.TypeBookingCreated))
	assert.Equal(t, 1, slow.count(events.TypeAutoBookingCompleted))
}
