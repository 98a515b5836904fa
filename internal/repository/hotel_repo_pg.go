package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HotelRepository interface {
	List(ctx context.Context, filter domain.HotelFilter) ([]domain.Hotel, error)
	GetByID(ctx context.Context, id int64) (*domain.Hotel, error)
	Create(ctx context.Context, hotel *domain.Hotel) error
}

type PGHotelRepository struct {
	pgStore
}

func NewHotelRepository(db *pgxpool.Pool) HotelRepository {
	return &PGHotelRepository{pgStore{db: db}}
}

const hotelColumns = `id, name, city, stars`

func scanHotel(row pgx.Row) (*domain.Hotel, error) {
	var h domain.Hotel
	if err := row.Scan(&h.ID, &h.Name, &h.City, &h.Stars); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *PGHotelRepository) List(ctx context.Context, filter domain.HotelFilter) ([]domain.Hotel, error) {
	sql, args := buildHotelQuery(filter)
	rows, err := r.query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	hotels := make([]domain.Hotel, 0)
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		hotels = append(hotels, *h)
	}
	return hotels, rows.Err()
}

func buildHotelQuery(filter domain.HotelFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.City != "" {
		args = append(args, filter.City)
		where = append(where, fmt.Sprintf("city = $%d", len(args)))
	}
	if filter.Stars > 0 {
		args = append(args, filter.Stars)
		where = append(where, fmt.Sprintf("stars = $%d", len(args)))
	}

	sql := `SELECT ` + hotelColumns + ` FROM hotels`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	if filter.SortByStars {
		sql += " ORDER BY stars DESC, id"
	} else {
		sql += " ORDER BY id"
	}
	return sql, args
}

func (r *PGHotelRepository) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	h, err := scanHotel(r.queryRow(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: hotel %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get hotel: %w", err)
	}
	return h, nil
}

func (r *PGHotelRepository) Create(ctx context.Context, hotel *domain.Hotel) error {
	err := r.queryRow(ctx, `INSERT INTO hotels (name, city, stars) VALUES ($1, $2, $3) RETURNING id`,
		hotel.Name, hotel.City, hotel.Stars).Scan(&hotel.ID)
	if err != nil {
		return fmt.Errorf("create hotel: %w", err)
	}
	return nil
}

var _ HotelRepository = (*PGHotelRepository)(nil)
