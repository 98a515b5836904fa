package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error)
	Create(ctx context.Context, room *domain.Room) error
	Update(ctx context.Context, room *domain.Room) error
	SetAvailable(ctx context.Context, id int64, available bool) error
	ReconcileAvailability(ctx context.Context, now time.Time) (int64, error)
}

type PGRoomRepository struct {
	pgStore
}

func NewRoomRepository(db *pgxpool.Pool) RoomRepository {
	return &PGRoomRepository{pgStore{db: db}}
}

const roomColumns = `r.id, r.hotel_id, h.name, r.room_type, r.price, r.capacity, r.available`

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var r domain.Room
	if err := row.Scan(&r.ID, &r.HotelID, &r.HotelName, &r.RoomType, &r.Price, &r.Capacity, &r.Available); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *PGRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := scanRoom(r.queryRow(ctx, `SELECT `+roomColumns+` FROM rooms r JOIN hotels h ON h.id = r.hotel_id WHERE r.id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: room %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

// GetForUpdate locks the room row until the surrounding transaction ends,
// serializing every booking attempt for that room.
func (r *PGRoomRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := scanRoom(r.queryRow(ctx, `SELECT `+roomColumns+` FROM rooms r JOIN hotels h ON h.id = r.hotel_id WHERE r.id=$1 FOR UPDATE OF r`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: room %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("lock room: %w", err)
	}
	return room, nil
}

func (r *PGRoomRepository) List(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error) {
	sql, args := buildRoomQuery(filter)
	rows, err := r.query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

func buildRoomQuery(filter domain.RoomFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.HotelID > 0 {
		add("r.hotel_id = $%d", filter.HotelID)
	}
	if filter.RoomType != "" {
		add("r.room_type = $%d", string(filter.RoomType))
	}
	if filter.MinPrice > 0 {
		add("r.price >= $%d", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		add("r.price <= $%d", filter.MaxPrice)
	}
	if filter.MinCapacity > 0 {
		add("r.capacity >= $%d", filter.MinCapacity)
	}
	if filter.HasWindow() {
		args = append(args, filter.FreeFrom, filter.FreeTo)
		where = append(where, fmt.Sprintf(
			"NOT EXISTS (SELECT 1 FROM bookings b WHERE b.room_id = r.id AND b.start_date < $%d AND b.end_date > $%d)",
			len(args), len(args)-1))
	}

	sql := `SELECT ` + roomColumns + ` FROM rooms r JOIN hotels h ON h.id = r.hotel_id`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	if filter.SortByPrice {
		sql += " ORDER BY r.price, r.id"
	} else {
		sql += " ORDER BY r.id"
	}
	return sql, args
}

// Create inserts a room and fills in its id and initial availability flag.
func (r *PGRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	err := r.queryRow(ctx, `INSERT INTO rooms (hotel_id, room_type, price, capacity)
        VALUES ($1, $2, $3, $4)
        RETURNING id, available`, room.HotelID, string(room.RoomType), room.Price, room.Capacity).
		Scan(&room.ID, &room.Available)
	if err != nil {
		return translatePgError(fmt.Errorf("create room: %w", err))
	}
	return nil
}

// Update writes the mutable catalog fields only.
func (r *PGRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	tag, err := r.exec(ctx, `UPDATE rooms SET room_type=$2, price=$3, capacity=$4 WHERE id=$1`,
		room.ID, string(room.RoomType), room.Price, room.Capacity)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: room %d", domain.ErrNotFound, room.ID)
	}
	return nil
}

func (r *PGRoomRepository) SetAvailable(ctx context.Context, id int64, available bool) error {
	if _, err := r.exec(ctx, `UPDATE rooms SET available=$2 WHERE id=$1`, id, available); err != nil {
		return fmt.Errorf("set room availability: %w", err)
	}
	return nil
}

// ReconcileAvailability recomputes the advisory flag as "no booking covers now"
// and returns how many rooms changed.
func (r *PGRoomRepository) ReconcileAvailability(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.exec(ctx, `
        UPDATE rooms r
        SET available = computed.free
        FROM (
            SELECT rr.id, NOT EXISTS (
                SELECT 1 FROM bookings b
                WHERE b.room_id = rr.id AND b.start_date <= $1 AND b.end_date > $1
            ) AS free
            FROM rooms rr
        ) AS computed
        WHERE computed.id = r.id AND r.available IS DISTINCT FROM computed.free
    `, now)
	if err != nil {
		return 0, fmt.Errorf("reconcile room availability: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ RoomRepository = (*PGRoomRepository)(nil)
