package api

import (
	"context"
	"time"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/service/booking"
	"github.com/Domenick1991/tripbooking/internal/service/catalog"
	"github.com/Domenick1991/tripbooking/internal/service/flights"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) BookRoom(ctx context.Context, p domain.Principal, input booking.BookRoomInput) (*domain.Booking, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) BookRoomForDuration(ctx context.Context, p domain.Principal, input booking.BookRoomForDurationInput) (*domain.Booking, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, p domain.Principal, bookingID int64) error {
	return m.Called(ctx, p, bookingID).Error(0)
}

func (m *MockBookingUseCase) ListUserBookings(ctx context.Context, p domain.Principal) ([]domain.Booking, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListRooms(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockBookingUseCase) GetRoomAvailability(ctx context.Context, roomID int64, start, end time.Time) (bool, error) {
	args := m.Called(ctx, roomID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingUseCase) UpdateRoom(ctx context.Context, p domain.Principal, roomID int64, update domain.RoomUpdate) (*domain.Room, error) {
	args := m.Called(ctx, p, roomID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Search(ctx context.Context, input flights.SearchInput) ([]domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) CreateFlight(ctx context.Context, p domain.Principal, input flights.CreateFlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) BookItinerary(ctx context.Context, p domain.Principal, input flights.BookItineraryInput) ([]domain.FlightBooking, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightBooking), args.Error(1)
}

func (m *MockFlightUseCase) GetItinerary(ctx context.Context, p domain.Principal, itineraryID string) ([]domain.FlightBooking, error) {
	args := m.Called(ctx, p, itineraryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightBooking), args.Error(1)
}

func (m *MockFlightUseCase) CancelItinerary(ctx context.Context, p domain.Principal, itineraryID string) error {
	return m.Called(ctx, p, itineraryID).Error(0)
}

func (m *MockFlightUseCase) ListUserFlightBookings(ctx context.Context, p domain.Principal) ([]domain.FlightBooking, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightBooking), args.Error(1)
}

type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) ListHotels(ctx context.Context, filter domain.HotelFilter) ([]domain.Hotel, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

func (m *MockCatalogUseCase) CreateHotel(ctx context.Context, p domain.Principal, input catalog.CreateHotelInput) (*domain.Hotel, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *MockCatalogUseCase) CreateRoom(ctx context.Context, p domain.Principal, input catalog.CreateRoomInput) (*domain.Room, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}
