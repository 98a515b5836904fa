package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("booking conflict")
	ErrCapacity    = errors.New("insufficient capacity")
	ErrRoute       = errors.New("invalid route")
	ErrPermission  = errors.New("permission denied")
	ErrTransaction = errors.New("transaction failed")
)

var businessErrors = []error{
	ErrValidation,
	ErrNotFound,
	ErrConflict,
	ErrCapacity,
	ErrRoute,
	ErrPermission,
}

// IsBusinessError reports whether err stems from a rule violation rather than infrastructure.
func IsBusinessError(err error) bool {
	for _, kind := range businessErrors {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// RouteError names the pair of adjacent legs that broke itinerary coherence.
type RouteError struct {
	FromFlightID int64
	ToFlightID   int64
	Reason       string
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("%s: flight %d -> flight %d: %s", ErrRoute, e.FromFlightID, e.ToFlightID, e.Reason)
}

func (e *RouteError) Is(target error) bool {
	return target == ErrRoute
}
