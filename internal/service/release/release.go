// Package release undoes committed allocations: it deletes the owning record
// and restores the capacity it consumed. Callers run it inside the same
// transaction that located and authorized the record.
package release

import (
	"context"
	"fmt"

	"github.com/Domenick1991/tripbooking/internal/domain"
)

type RoomStore interface {
	SetAvailable(ctx context.Context, id int64, available bool) error
}

type BookingStore interface {
	Delete(ctx context.Context, id int64) error
}

type SeatStore interface {
	AddBookedSeats(ctx context.Context, flightID int64, delta int) error
}

type LegStore interface {
	DeleteByItinerary(ctx context.Context, itineraryID string) (int64, error)
}

type Compensator struct {
	rooms    RoomStore
	bookings BookingStore
	seats    SeatStore
	legs     LegStore
}

func NewCompensator(rooms RoomStore, bookings BookingStore, seats SeatStore, legs LegStore) *Compensator {
	return &Compensator{rooms: rooms, bookings: bookings, seats: seats, legs: legs}
}

// Authorize allows admins and the record owner.
func Authorize(p domain.Principal, ownerID int64, what string) error {
	if !p.CanManage(ownerID) {
		return fmt.Errorf("%w: user %d cannot cancel %s", domain.ErrPermission, p.ID, what)
	}
	return nil
}

// ReleaseRoomBooking deletes the booking and marks the room's advisory flag free.
func (c *Compensator) ReleaseRoomBooking(ctx context.Context, booking domain.Booking) error {
	if err := c.bookings.Delete(ctx, booking.ID); err != nil {
		return err
	}
	return c.rooms.SetAvailable(ctx, booking.RoomID, true)
}

// ReleaseItinerary returns every leg's seats and deletes the legs.
func (c *Compensator) ReleaseItinerary(ctx context.Context, itineraryID string, legs []domain.FlightBooking) error {
	for _, leg := range legs {
		if err := c.seats.AddBookedSeats(ctx, leg.FlightID, -leg.Passengers); err != nil {
			return err
		}
	}
	deleted, err := c.legs.DeleteByItinerary(ctx, itineraryID)
	if err != nil {
		return err
	}
	if deleted != int64(len(legs)) {
		return fmt.Errorf("%w: itinerary %s changed during cancellation (%d of %d legs removed)",
			domain.ErrConflict, itineraryID, deleted, len(legs))
	}
	return nil
}
