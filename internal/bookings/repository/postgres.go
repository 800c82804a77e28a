package repository

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "seatrota/internal/bookings/errors"
	"seatrota/pkg/config"
	"seatrota/pkg/model"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const bookingColumns = `id, user_id, date, seat_number, booking_type, status, created_at, updated_at`

type pgBookingRepository struct {
	cfg *config.Config
	db  *pgxpool.Pool
}

func NewPostgresBookingRepository(cfg *config.Config) BookingRepository {
	return &pgBookingRepository{cfg: cfg, db: cfg.Client.Postgres}
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	var bookingType, status string
	if err := row.Scan(&b.ID, &b.UserID, &b.Date, &b.SeatNumber, &bookingType, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.BookingType = model.BookingType(bookingType)
	b.Status = model.BookingStatus(status)
	b.Date = model.Day(b.Date, time.UTC)
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	defer rows.Close()
	bookings := []*model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *pgBookingRepository) FindActiveByDate(ctx context.Context, date time.Time) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE date = $1 AND status = 'active'
		 ORDER BY seat_number`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings for date: %w", err)
	}
	return collectBookings(rows)
}

// Create relies on the partial unique index uniq_active_seat_per_day.
func (r *pgBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = now()
	booking.UpdatedAt = booking.CreatedAt

	_, err := r.db.Exec(ctx,
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		booking.ID, booking.UserID, booking.Date, booking.SeatNumber,
		string(booking.BookingType), string(booking.Status), booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return bookingserrors.ErrSeatTaken
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *pgBookingRepository) FindActiveByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	b, err := scanBooking(r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE user_id = $1 AND date = $2 AND status = 'active'
		 LIMIT 1`,
		userID, date,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("get user booking: %w", err)
	}
	return b, nil
}

func (r *pgBookingRepository) CountActiveSpare(ctx context.Context, date time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE date = $1 AND booking_type = 'spare' AND status = 'active'`,
		date,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count spare bookings: %w", err)
	}
	return count, nil
}

func (r *pgBookingRepository) MarkReleased(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	b, err := scanBooking(r.db.QueryRow(ctx,
		`UPDATE bookings
		 SET status = 'released', updated_at = $3
		 WHERE id = (
		     SELECT id FROM bookings
		     WHERE user_id = $1 AND date = $2 AND status = 'active'
		     LIMIT 1
		 ) AND status = 'active'
		 RETURNING `+bookingColumns,
		userID, date, now(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("release booking: %w", err)
	}
	return b, nil
}

func (r *pgBookingRepository) FindByUser(ctx context.Context, userID string, f model.BookingFilter) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY date DESC, created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return collectBookings(rows)
}

type pgUserRepository struct {
	cfg *config.Config
	db  *pgxpool.Pool
}

func NewPostgresUserRepository(cfg *config.Config) UserRepository {
	return &pgUserRepository{cfg: cfg, db: cfg.Client.Postgres}
}

const userColumns = `id, name, email, batch_number, squat_number, role, is_active`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.BatchNumber, &u.SquatNumber, &u.Role, &u.IsActive); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bookingserrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *pgUserRepository) FindActiveByBatch(ctx context.Context, batch int, limit int) ([]*model.User, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE batch_number = $1 AND is_active
		 ORDER BY id
		 LIMIT $2`,
		batch, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list batch users: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type pgHolidayRepository struct {
	cfg *config.Config
	db  *pgxpool.Pool
}

func NewPostgresHolidayRepository(cfg *config.Config) HolidayRepository {
	return &pgHolidayRepository{cfg: cfg, db: cfg.Client.Postgres}
}

func (r *pgHolidayRepository) FindByDate(ctx context.Context, date time.Time) (*model.Holiday, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var h model.Holiday
	err := r.db.QueryRow(ctx,
		`SELECT id, date, reason FROM holidays WHERE date = $1`,
		date,
	).Scan(&h.ID, &h.Date, &h.Reason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bookingserrors.ErrHolidayNotFound
		}
		return nil, fmt.Errorf("get holiday: %w", err)
	}
	h.Date = model.Day(h.Date, time.UTC)
	return &h, nil
}
