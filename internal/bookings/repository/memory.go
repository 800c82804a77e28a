package repository

import (
	"context"
	bookingserrors "seatrota/internal/bookings/errors"
	"seatrota/pkg/model"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// seatKey identifies the slot the partial unique index guards.
type seatKey struct {
	seat int
	date time.Time
}

// memoryBookingRepository keeps bookings in process. The active-seat map
// plays the role of the partial unique index.
type memoryBookingRepository struct {
	mu       sync.RWMutex
	bookings []*model.Booking
	active   map[seatKey]*model.Booking
}

func NewMemoryBookingRepository() BookingRepository {
	return &memoryBookingRepository{active: make(map[seatKey]*model.Booking)}
}

func copyBooking(b *model.Booking) *model.Booking {
	c := *b
	return &c
}

func (r *memoryBookingRepository) FindActiveByDate(ctx context.Context, date time.Time) ([]*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Booking{}
	for key, b := range r.active {
		if key.date.Equal(date) {
			out = append(out, copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })
	return out, nil
}

func (r *memoryBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := seatKey{seat: booking.SeatNumber, date: booking.Date}
	if booking.Status == model.StatusActive {
		if _, taken := r.active[key]; taken {
			return bookingserrors.ErrSeatTaken
		}
	}

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = now()
	booking.UpdatedAt = booking.CreatedAt

	stored := copyBooking(booking)
	r.bookings = append(r.bookings, stored)
	if stored.Status == model.StatusActive {
		r.active[key] = stored
	}
	return nil
}

func (r *memoryBookingRepository) FindActiveByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b := r.findActive(userID, date); b != nil {
		return copyBooking(b), nil
	}
	return nil, bookingserrors.ErrNotFound
}

func (r *memoryBookingRepository) findActive(userID string, date time.Time) *model.Booking {
	for _, b := range r.bookings {
		if b.UserID == userID && b.Date.Equal(date) && b.IsActive() {
			return b
		}
	}
	return nil
}

func (r *memoryBookingRepository) CountActiveSpare(ctx context.Context, date time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for key, b := range r.active {
		if key.date.Equal(date) && b.BookingType == model.BookingTypeSpare {
			n++
		}
	}
	return n, nil
}

func (r *memoryBookingRepository) MarkReleased(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.findActive(userID, date)
	if b == nil {
		return nil, bookingserrors.ErrNotFound
	}
	b.Status = model.StatusReleased
	b.UpdatedAt = now()
	delete(r.active, seatKey{seat: b.SeatNumber, date: b.Date})
	return copyBooking(b), nil
}

func (r *memoryBookingRepository) FindByUser(ctx context.Context, userID string, f model.BookingFilter) ([]*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Booking{}
	for _, b := range r.bookings {
		if b.UserID != userID {
			continue
		}
		if f.From != nil && b.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && b.Date.After(*f.To) {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, copyBooking(b))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// MemoryUserRepository also exposes Add so callers can seed it.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func NewMemoryUserRepository(users ...*model.User) *MemoryUserRepository {
	r := &MemoryUserRepository{users: make(map[string]*model.User)}
	for _, u := range users {
		r.Add(u)
	}
	return r
}

func (r *MemoryUserRepository) Add(user *model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	r.users[u.ID] = &u
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, bookingserrors.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *MemoryUserRepository) FindActiveByBatch(ctx context.Context, batch int, limit int) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.User{}
	for _, u := range r.users {
		if u.BatchNumber == batch && u.IsActive {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type MemoryHolidayRepository struct {
	mu       sync.RWMutex
	holidays map[time.Time]*model.Holiday
}

func NewMemoryHolidayRepository(holidays ...*model.Holiday) *MemoryHolidayRepository {
	r := &MemoryHolidayRepository{holidays: make(map[time.Time]*model.Holiday)}
	for _, h := range holidays {
		r.Add(h)
	}
	return r
}

func (r *MemoryHolidayRepository) Add(holiday *model.Holiday) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := *holiday
	h.Date = model.Day(h.Date, time.UTC)
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	r.holidays[h.Date] = &h
}

func (r *MemoryHolidayRepository) FindByDate(ctx context.Context, date time.Time) (*model.Holiday, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.holidays[date]
	if !ok {
		return nil, bookingserrors.ErrHolidayNotFound
	}
	c := *h
	return &c, nil
}
