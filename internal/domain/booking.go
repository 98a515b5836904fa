package domain

import "time"

// Booking reserves a room for the half-open interval [StartDate, EndDate).
type Booking struct {
	ID        int64
	UserID    int64
	UserEmail string
	RoomID    int64
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
}

func (b Booking) Interval() Interval {
	return Interval{Start: b.StartDate, End: b.EndDate}
}
