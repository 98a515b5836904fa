package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	FindOverlap(ctx context.Context, roomID int64, interval domain.Interval) (*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) error
	GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	pgStore
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{pgStore{db: db}}
}

const bookingColumns = `id, user_id, user_email, room_id, start_date, end_date, created_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.UserEmail, &b.RoomID, &b.StartDate, &b.EndDate, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// FindOverlap returns a booking of roomID sharing any instant with interval,
// or nil when the room is free for it. The predicate is the one
// domain.Interval.Overlaps implements.
func (r *PGBookingRepository) FindOverlap(ctx context.Context, roomID int64, interval domain.Interval) (*domain.Booking, error) {
	b, err := scanBooking(r.queryRow(ctx, `SELECT `+bookingColumns+` FROM bookings
        WHERE room_id=$1 AND start_date < $3 AND end_date > $2
        ORDER BY start_date LIMIT 1`, roomID, interval.Start, interval.End))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find overlapping booking: %w", err)
	}
	return b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	err := r.queryRow(ctx, `INSERT INTO bookings (user_id, user_email, room_id, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`, booking.UserID, booking.UserEmail, booking.RoomID, booking.StartDate, booking.EndDate).
		Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return translatePgError(fmt.Errorf("create booking: %w", err))
	}
	return nil
}

func (r *PGBookingRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.queryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("lock booking: %w", err)
	}
	return b, nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY start_date`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
