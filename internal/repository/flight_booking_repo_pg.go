package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightBookingRepository interface {
	Create(ctx context.Context, booking *domain.FlightBooking) error
	ListByUser(ctx context.Context, userID int64) ([]domain.FlightBooking, error)
	ListByItinerary(ctx context.Context, itineraryID string, forUpdate bool) ([]domain.FlightBooking, error)
	DeleteByItinerary(ctx context.Context, itineraryID string) (int64, error)
}

type PGFlightBookingRepository struct {
	pgStore
}

func NewFlightBookingRepository(db *pgxpool.Pool) FlightBookingRepository {
	return &PGFlightBookingRepository{pgStore{db: db}}
}

const flightBookingColumns = `id, itinerary_id::text, user_id, user_email, flight_id, passengers, booking_date`

func scanFlightBooking(row pgx.Row) (*domain.FlightBooking, error) {
	var b domain.FlightBooking
	if err := row.Scan(&b.ID, &b.ItineraryID, &b.UserID, &b.UserEmail, &b.FlightID, &b.Passengers, &b.BookingDate); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGFlightBookingRepository) Create(ctx context.Context, booking *domain.FlightBooking) error {
	err := r.queryRow(ctx, `INSERT INTO flight_bookings (itinerary_id, user_id, user_email, flight_id, passengers)
        VALUES ($1::uuid, $2, $3, $4, $5)
        RETURNING id, booking_date`, booking.ItineraryID, booking.UserID, booking.UserEmail, booking.FlightID, booking.Passengers).
		Scan(&booking.ID, &booking.BookingDate)
	if err != nil {
		return translatePgError(fmt.Errorf("create flight booking: %w", err))
	}
	return nil
}

func (r *PGFlightBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.FlightBooking, error) {
	return r.list(ctx, `SELECT `+flightBookingColumns+` FROM flight_bookings WHERE user_id=$1 ORDER BY booking_date, id`, userID)
}

// ListByItinerary returns the legs in purchase order, optionally row-locked.
func (r *PGFlightBookingRepository) ListByItinerary(ctx context.Context, itineraryID string, forUpdate bool) ([]domain.FlightBooking, error) {
	sql := `SELECT ` + flightBookingColumns + ` FROM flight_bookings WHERE itinerary_id=$1::uuid ORDER BY id`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	return r.list(ctx, sql, itineraryID)
}

func (r *PGFlightBookingRepository) DeleteByItinerary(ctx context.Context, itineraryID string) (int64, error) {
	tag, err := r.exec(ctx, `DELETE FROM flight_bookings WHERE itinerary_id=$1::uuid`, itineraryID)
	if err != nil {
		return 0, fmt.Errorf("delete itinerary: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PGFlightBookingRepository) list(ctx context.Context, sql string, args ...any) ([]domain.FlightBooking, error) {
	rows, err := r.query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list flight bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.FlightBooking, 0)
	for rows.Next() {
		b, err := scanFlightBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flight booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ FlightBookingRepository = (*PGFlightBookingRepository)(nil)
