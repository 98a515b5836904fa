package flights

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Domenick1991/tripbooking/internal/clock"
	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/logging"
	"github.com/Domenick1991/tripbooking/internal/service/release"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memInventory keeps flights and legs in memory. Its WithTx serializes
// transactions and restores the previous state when fn fails.
type memInventory struct {
	mu      sync.Mutex
	flights map[int64]domain.Flight
	legs    map[int64]domain.FlightBooking
	nextID  int64
}

func newMemInventory(flights ...domain.Flight) *memInventory {
	inv := &memInventory{flights: map[int64]domain.Flight{}, legs: map[int64]domain.FlightBooking{}}
	for _, f := range flights {
		inv.flights[f.ID] = f
	}
	return inv
}

func (m *memInventory) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	flights, legs, nextID := maps.Clone(m.flights), maps.Clone(m.legs), m.nextID
	if err := fn(ctx); err != nil {
		m.flights, m.legs, m.nextID = flights, legs, nextID
		return err
	}
	return nil
}

type memFlights struct{ *memInventory }

func (m memFlights) ListByRoute(_ context.Context, from, to string) ([]domain.Flight, error) {
	var out []domain.Flight
	for _, f := range m.flights {
		if f.FromCity == from && f.ToCity == to {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m memFlights) GetByID(_ context.Context, id int64) (*domain.Flight, error) {
	f, ok := m.flights[id]
	if !ok {
		return nil, fmt.Errorf("%w: flight %d", domain.ErrNotFound, id)
	}
	return &f, nil
}

func (m memFlights) LockByIDs(_ context.Context, ids []int64) (map[int64]domain.Flight, error) {
	out := make(map[int64]domain.Flight, len(ids))
	for _, id := range ids {
		if f, ok := m.flights[id]; ok {
			out[id] = f
		}
	}
	return out, nil
}

func (m memFlights) AddBookedSeats(_ context.Context, id int64, delta int) error {
	f := m.flights[id]
	if f.BookedSeats+delta < 0 || f.BookedSeats+delta > f.TotalSeats {
		return fmt.Errorf("%w: flight %d", domain.ErrCapacity, id)
	}
	f.BookedSeats += delta
	m.flights[id] = f
	return nil
}

func (m memFlights) Create(_ context.Context, f *domain.Flight) error {
	m.nextID++
	f.ID = m.nextID
	m.flights[f.ID] = *f
	return nil
}

type memLegs struct {
	*memInventory
	failOnFlight int64
}

func (m memLegs) Create(_ context.Context, leg *domain.FlightBooking) error {
	if leg.FlightID == m.failOnFlight {
		return fmt.Errorf("%w: insert failed", domain.ErrTransaction)
	}
	m.nextID++
	leg.ID = m.nextID
	m.legs[leg.ID] = *leg
	return nil
}

func (m memLegs) ListByUser(_ context.Context, userID int64) ([]domain.FlightBooking, error) {
	var out []domain.FlightBooking
	for _, leg := range m.legs {
		if leg.UserID == userID {
			out = append(out, leg)
		}
	}
	return out, nil
}

func (m memLegs) ListByItinerary(_ context.Context, id string, _ bool) ([]domain.FlightBooking, error) {
	var out []domain.FlightBooking
	for _, leg := range m.legs {
		if leg.ItineraryID == id {
			out = append(out, leg)
		}
	}
	return out, nil
}

func (m memLegs) DeleteByItinerary(_ context.Context, id string) (int64, error) {
	var n int64
	for key, leg := range m.legs {
		if leg.ItineraryID == id {
			delete(m.legs, key)
			n++
		}
	}
	return n, nil
}

func newMemService(inv *memInventory, failOnFlight int64) *FlightService {
	flights, legs := memFlights{inv}, memLegs{inv, failOnFlight}
	compensator := release.NewCompensator(nil, nil, flights, legs)
	return NewFlightService(inv, flights, legs, compensator, clock.NewFixed(now), WithLogger(logging.Discard()))
}

func routeLegs() (domain.Flight, domain.Flight) {
	ab := domain.Flight{ID: 1, FromCity: "A", ToCity: "B", Departure: at(10, 0), Arrival: at(12, 0), TotalSeats: 5}
	bc := domain.Flight{ID: 2, FromCity: "B", ToCity: "C", Departure: at(11, 30), Arrival: at(14, 0), TotalSeats: 5}
	return ab, bc
}

func TestFlightService_ConnectionTiming(t *testing.T) {
	ctx := context.Background()
	user := domain.Principal{ID: 1, Role: domain.RoleUser}
	ab, bc := routeLegs()

	inv := newMemInventory(ab, bc)
	service := newMemService(inv, 0)
	_, err := service.BookItinerary(ctx, user, BookItineraryInput{FlightIDs: []int64{1, 2}, Passengers: 1})
	assert.ErrorIs(t, err, domain.ErrRoute)
	assert.Zero(t, inv.flights[1].BookedSeats)

	bc.Departure = at(13, 0)
	inv = newMemInventory(ab, bc)
	service = newMemService(inv, 0)
	legs, err := service.BookItinerary(ctx, user, BookItineraryInput{FlightIDs: []int64{1, 2}, Passengers: 1})
	require.NoError(t, err)
	assert.Len(t, legs, 2)
	assert.Equal(t, 1, inv.flights[1].BookedSeats)
	assert.Equal(t, 1, inv.flights[2].BookedSeats)
}

func TestFlightService_FullFirstLegLeavesSecondUntouched(t *testing.T) {
	ctx := context.Background()
	ab, bc := routeLegs()
	bc.Departure = at(13, 0)
	ab.BookedSeats = ab.TotalSeats
	bc.BookedSeats = 2

	inv := newMemInventory(ab, bc)
	_, err := newMemService(inv, 0).BookItinerary(ctx, domain.Principal{ID: 1}, BookItineraryInput{FlightIDs: []int64{1, 2}, Passengers: 1})
	assert.ErrorIs(t, err, domain.ErrCapacity)
	assert.Equal(t, 2, inv.flights[2].BookedSeats)
	assert.Empty(t, inv.legs)
}

func TestFlightService_LateLegFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	ab, bc := routeLegs()
	bc.Departure = at(13, 0)

	inv := newMemInventory(ab, bc)
	_, err := newMemService(inv, 2).BookItinerary(ctx, domain.Principal{ID: 1}, BookItineraryInput{FlightIDs: []int64{1, 2}, Passengers: 3})
	assert.ErrorIs(t, err, domain.ErrTransaction)
	assert.Zero(t, inv.flights[1].BookedSeats)
	assert.Zero(t, inv.flights[2].BookedSeats)
	assert.Empty(t, inv.legs)
}

func TestFlightService_CancelRestoresSeats(t *testing.T) {
	ctx := context.Background()
	ab, bc := routeLegs()
	bc.Departure = at(13, 0)
	owner := domain.Principal{ID: 1, Role: domain.RoleUser}

	inv := newMemInventory(ab, bc)
	service := newMemService(inv, 0)
	legs, err := service.BookItinerary(ctx, owner, BookItineraryInput{FlightIDs: []int64{1, 2}, Passengers: 2})
	require.NoError(t, err)

	require.NoError(t, service.CancelItinerary(ctx, owner, legs[0].ItineraryID))
	assert.Zero(t, inv.flights[1].BookedSeats)
	assert.Zero(t, inv.flights[2].BookedSeats)
	assert.Empty(t, inv.legs)
	assert.ErrorIs(t, service.CancelItinerary(ctx, owner, legs[0].ItineraryID), domain.ErrNotFound)
}

func TestFlightService_ConcurrentLastSeats(t *testing.T) {
	ctx := context.Background()
	ab, _ := routeLegs()
	inv := newMemInventory(ab)
	service := newMemService(inv, 0)

	const callers = 20
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := service.BookItinerary(ctx, domain.Principal{ID: userID}, BookItineraryInput{FlightIDs: []int64{1}, Passengers: 2})
			if err == nil {
				succeeded.Add(1)
				return
			}
			assert.ErrorIs(t, err, domain.ErrCapacity)
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, int32(2), succeeded.Load())
	assert.Equal(t, 4, inv.flights[1].BookedSeats)
	assert.Len(t, inv.legs, 2)
}
