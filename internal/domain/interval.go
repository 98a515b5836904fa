package domain

import "time"

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether i and other share any instant. Intervals that
// only touch at an endpoint do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return other.Start.Before(i.End) && other.End.After(i.Start)
}
