package flights

import (
	"context"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/kafka"
	"github.com/stretchr/testify/mock"
)

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) ListByRoute(ctx context.Context, fromCity, toCity string) ([]domain.Flight, error) {
	args := m.Called(ctx, fromCity, toCity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) LockByIDs(ctx context.Context, ids []int64) (map[int64]domain.Flight, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) AddBookedSeats(ctx context.Context, flightID int64, delta int) error {
	return m.Called(ctx, flightID, delta).Error(0)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return m.Called(ctx, flight).Error(0)
}

type MockFlightBookingRepository struct {
	mock.Mock
}

func (m *MockFlightBookingRepository) Create(ctx context.Context, booking *domain.FlightBooking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *MockFlightBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.FlightBooking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightBooking), args.Error(1)
}

func (m *MockFlightBookingRepository) ListByItinerary(ctx context.Context, itineraryID string, forUpdate bool) ([]domain.FlightBooking, error) {
	args := m.Called(ctx, itineraryID, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightBooking), args.Error(1)
}

func (m *MockFlightBookingRepository) DeleteByItinerary(ctx context.Context, itineraryID string) (int64, error) {
	args := m.Called(ctx, itineraryID)
	return args.Get(0).(int64), args.Error(1)
}

type MockReleaser struct {
	mock.Mock
}

func (m *MockReleaser) ReleaseItinerary(ctx context.Context, itineraryID string, legs []domain.FlightBooking) error {
	return m.Called(ctx, itineraryID, legs).Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetRouteFlights(ctx context.Context, fromCity, toCity string) ([]domain.Flight, error) {
	args := m.Called(ctx, fromCity, toCity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetRouteFlights(ctx context.Context, fromCity, toCity string, flights []domain.Flight) error {
	return m.Called(ctx, fromCity, toCity, flights).Error(0)
}

func (m *MockCache) InvalidateRoutes(ctx context.Context, flights []domain.Flight) error {
	return m.Called(ctx, flights).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishBookingEvent(ctx context.Context, event kafka.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}
