package domain

import "time"

type Flight struct {
	ID          int64
	FromCity    string
	ToCity      string
	Departure   time.Time
	Arrival     time.Time
	TotalSeats  int
	BookedSeats int
	Price       float64
}

func (f Flight) FreeSeats() int {
	return f.TotalSeats - f.BookedSeats
}

func (f Flight) HasSeats(passengers int) bool {
	return f.FreeSeats() >= passengers
}

// FlightBooking is one leg of an itinerary purchase. Legs bought together
// share ItineraryID.
type FlightBooking struct {
	ID          int64
	ItineraryID string
	UserID      int64
	UserEmail   string
	FlightID    int64
	Passengers  int
	BookingDate time.Time
}
