package domain

import (
	"fmt"
	"time"
)

type RoomType string

const (
	RoomTypeStandard RoomType = "standard"
	RoomTypeLarge    RoomType = "large"
	RoomTypePremium  RoomType = "premium"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeStandard, RoomTypeLarge, RoomTypePremium:
		return true
	}
	return false
}

// Room.Available is a denormalized hint. Whether a room can be booked for a
// window is always derived from its bookings.
type Room struct {
	ID        int64
	HotelID   int64
	HotelName string
	RoomType  RoomType
	Price     float64
	Capacity  int
	Available bool
}

// ValidateNew checks a room about to be added to the catalog.
func (r Room) ValidateNew() error {
	switch {
	case r.HotelID <= 0:
		return fmt.Errorf("%w: hotel_id is required", ErrValidation)
	case !r.RoomType.Valid():
		return fmt.Errorf("%w: unknown room type %q", ErrValidation, r.RoomType)
	case r.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	case r.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive", ErrValidation)
	}
	return nil
}

// RoomUpdate lists the only fields an update may change. Nil means unchanged.
type RoomUpdate struct {
	RoomType *RoomType
	Price    *float64
	Capacity *int
}

func (u RoomUpdate) Validate() error {
	if u.RoomType == nil && u.Price == nil && u.Capacity == nil {
		return fmt.Errorf("%w: empty room update", ErrValidation)
	}
	if u.RoomType != nil && !u.RoomType.Valid() {
		return fmt.Errorf("%w: unknown room type %q", ErrValidation, *u.RoomType)
	}
	if u.Price != nil && *u.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if u.Capacity != nil && *u.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrValidation)
	}
	return nil
}

// Apply copies the set fields onto r.
func (u RoomUpdate) Apply(r *Room) {
	if u.RoomType != nil {
		r.RoomType = *u.RoomType
	}
	if u.Price != nil {
		r.Price = *u.Price
	}
	if u.Capacity != nil {
		r.Capacity = *u.Capacity
	}
}

type RoomFilter struct {
	HotelID     int64
	RoomType    RoomType
	MinPrice    float64
	MaxPrice    float64
	MinCapacity int
	SortByPrice bool
	// FreeFrom and FreeTo, when both set, restrict results to rooms with no
	// booking overlapping [FreeFrom, FreeTo).
	FreeFrom time.Time
	FreeTo   time.Time
}

func (f RoomFilter) HasWindow() bool {
	return !f.FreeFrom.IsZero() && !f.FreeTo.IsZero()
}
