package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	ListByRoute(ctx context.Context, fromCity, toCity string) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	LockByIDs(ctx context.Context, ids []int64) (map[int64]domain.Flight, error)
	AddBookedSeats(ctx context.Context, flightID int64, delta int) error
	Create(ctx context.Context, flight *domain.Flight) error
}

type PGFlightRepository struct {
	pgStore
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{pgStore{db: db}}
}

const flightColumns = `id, from_city, to_city, departure, arrival, total_seats, booked_seats, price`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FromCity, &f.ToCity, &f.Departure, &f.Arrival, &f.TotalSeats, &f.BookedSeats, &f.Price); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) ListByRoute(ctx context.Context, fromCity, toCity string) ([]domain.Flight, error) {
	rows, err := r.query(ctx, `SELECT `+flightColumns+` FROM flights WHERE from_city=$1 AND to_city=$2 ORDER BY departure`, fromCity, toCity)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.queryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: flight %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get flight: %w", err)
	}
	return f, nil
}

// LockByIDs row-locks every existing flight among ids. Locks are taken in
// ascending id order so concurrent itineraries sharing legs cannot deadlock.
// Missing ids are simply absent from the result.
func (r *PGFlightRepository) LockByIDs(ctx context.Context, ids []int64) (map[int64]domain.Flight, error) {
	rows, err := r.query(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock flights: %w", err)
	}
	defer rows.Close()

	flights := make(map[int64]domain.Flight, len(ids))
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		flights[f.ID] = *f
	}
	return flights, rows.Err()
}

// AddBookedSeats moves booked_seats by delta, refusing to leave [0, total_seats].
func (r *PGFlightRepository) AddBookedSeats(ctx context.Context, flightID int64, delta int) error {
	tag, err := r.exec(ctx, `UPDATE flights SET booked_seats = booked_seats + $2
        WHERE id=$1 AND booked_seats + $2 >= 0 AND booked_seats + $2 <= total_seats`, flightID, delta)
	if err != nil {
		return translatePgError(fmt.Errorf("update booked seats: %w", err))
	}
	if tag.RowsAffected() == 0 {
		if delta > 0 {
			return fmt.Errorf("%w: flight %d cannot take %d more passengers", domain.ErrCapacity, flightID, delta)
		}
		return fmt.Errorf("%w: flight %d cannot release %d seats", domain.ErrCapacity, flightID, -delta)
	}
	return nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.queryRow(ctx, `INSERT INTO flights (from_city, to_city, departure, arrival, total_seats, booked_seats, price)
        VALUES ($1, $2, $3, $4, $5, 0, $6)
        RETURNING id, booked_seats`, flight.FromCity, flight.ToCity, flight.Departure, flight.Arrival, flight.TotalSeats, flight.Price).
		Scan(&flight.ID, &flight.BookedSeats)
	if err != nil {
		return fmt.Errorf("create flight: %w", err)
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
