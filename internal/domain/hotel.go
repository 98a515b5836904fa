package domain

import (
	"fmt"
	"strings"
)

type Hotel struct {
	ID    int64
	Name  string
	City  string
	Stars int
}

func (h Hotel) Validate() error {
	switch {
	case strings.TrimSpace(h.Name) == "" || strings.TrimSpace(h.City) == "":
		return fmt.Errorf("%w: name and city are required", ErrValidation)
	case h.Stars < 1 || h.Stars > 5:
		return fmt.Errorf("%w: stars must be between 1 and 5", ErrValidation)
	}
	return nil
}

// HotelFilter matches hotels exactly on the set fields. SortByStars lists the
// highest rated first.
type HotelFilter struct {
	City        string
	Stars       int
	SortByStars bool
}
