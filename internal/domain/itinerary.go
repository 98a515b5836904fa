package domain

import (
	"fmt"
	"time"
)

// ItineraryPolicy holds the tunable connection rules. A zero MaxConnection
// leaves the layover length unbounded.
type ItineraryPolicy struct {
	MaxConnection time.Duration
}

// ValidateItinerary checks every adjacent pair of legs for city continuity
// and strictly positive connection time, stopping at the first violation.
func ValidateItinerary(legs []Flight, policy ItineraryPolicy) error {
	for i := 0; i+1 < len(legs); i++ {
		prev, next := legs[i], legs[i+1]
		if prev.ToCity != next.FromCity {
			return &RouteError{
				FromFlightID: prev.ID,
				ToFlightID:   next.ID,
				Reason:       fmt.Sprintf("arrives in %s but next leg departs from %s", prev.ToCity, next.FromCity),
			}
		}
		if !next.Departure.After(prev.Arrival) {
			return &RouteError{
				FromFlightID: prev.ID,
				ToFlightID:   next.ID,
				Reason: fmt.Sprintf("departs at %s, not after arrival at %s",
					next.Departure.Format(time.RFC3339), prev.Arrival.Format(time.RFC3339)),
			}
		}
		if policy.MaxConnection > 0 {
			if gap := next.Departure.Sub(prev.Arrival); gap > policy.MaxConnection {
				return &RouteError{
					FromFlightID: prev.ID,
					ToFlightID:   next.ID,
					Reason:       fmt.Sprintf("connection of %s exceeds %s", gap, policy.MaxConnection),
				}
			}
		}
	}
	return nil
}
