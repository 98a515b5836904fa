package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

type CatalogUseCase interface {
	ListHotels(ctx context.Context, filter domain.HotelFilter) ([]domain.Hotel, error)
	CreateHotel(ctx context.Context, p domain.Principal, input CreateHotelInput) (*domain.Hotel, error)
	CreateRoom(ctx context.Context, p domain.Principal, input CreateRoomInput) (*domain.Room, error)
}

type CatalogService struct {
	hotels repository.HotelRepository
	rooms  repository.RoomRepository
	log    *logrus.Logger
}

type CreateHotelInput struct {
	Name  string `json:"name"`
	City  string `json:"city"`
	Stars int    `json:"stars"`
}

type CreateRoomInput struct {
	HotelID  int64           `json:"hotel_id"`
	RoomType domain.RoomType `json:"room_type"`
	Price    float64         `json:"price"`
	Capacity int             `json:"capacity"`
}

func NewCatalogService(hotels repository.HotelRepository, rooms repository.RoomRepository, log *logrus.Logger) *CatalogService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CatalogService{hotels: hotels, rooms: rooms, log: log}
}

func (s *CatalogService) ListHotels(ctx context.Context, filter domain.HotelFilter) ([]domain.Hotel, error) {
	filter.City = strings.TrimSpace(filter.City)
	if filter.Stars < 0 || filter.Stars > 5 {
		return nil, fmt.Errorf("%w: stars must be between 1 and 5", domain.ErrValidation)
	}
	return s.hotels.List(ctx, filter)
}

func (s *CatalogService) CreateHotel(ctx context.Context, p domain.Principal, input CreateHotelInput) (*domain.Hotel, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can create hotels", domain.ErrPermission)
	}
	hotel := &domain.Hotel{
		Name:  strings.TrimSpace(input.Name),
		City:  strings.TrimSpace(input.City),
		Stars: input.Stars,
	}
	if err := hotel.Validate(); err != nil {
		return nil, err
	}
	if err := s.hotels.Create(ctx, hotel); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"hotel_id": hotel.ID, "city": hotel.City}).Info("hotel created")
	return hotel, nil
}

// CreateRoom adds a room to an existing hotel. New rooms start with the
// advisory flag set.
func (s *CatalogService) CreateRoom(ctx context.Context, p domain.Principal, input CreateRoomInput) (*domain.Room, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can create rooms", domain.ErrPermission)
	}
	room := &domain.Room{
		HotelID:  input.HotelID,
		RoomType: input.RoomType,
		Price:    input.Price,
		Capacity: input.Capacity,
	}
	if err := room.ValidateNew(); err != nil {
		return nil, err
	}

	hotel, err := s.hotels.GetByID(ctx, input.HotelID)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	room.HotelName = hotel.Name
	s.log.WithFields(logrus.Fields{"room_id": room.ID, "hotel_id": room.HotelID}).Info("room created")
	return room, nil
}

var _ CatalogUseCase = (*CatalogService)(nil)
