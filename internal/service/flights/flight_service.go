package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/tripbooking/internal/clock"
	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/kafka"
	"github.com/Domenick1991/tripbooking/internal/repository"
	"github.com/Domenick1991/tripbooking/internal/service/booking"
	"github.com/Domenick1991/tripbooking/internal/service/release"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type FlightUseCase interface {
	Search(ctx context.Context, input SearchInput) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	CreateFlight(ctx context.Context, p domain.Principal, input CreateFlightInput) (*domain.Flight, error)
	BookItinerary(ctx context.Context, p domain.Principal, input BookItineraryInput) ([]domain.FlightBooking, error)
	GetItinerary(ctx context.Context, p domain.Principal, itineraryID string) ([]domain.FlightBooking, error)
	CancelItinerary(ctx context.Context, p domain.Principal, itineraryID string) error
	ListUserFlightBookings(ctx context.Context, p domain.Principal) ([]domain.FlightBooking, error)
}

// FlightCache stores search results per route. Entries are advisory.
type FlightCache interface {
	GetRouteFlights(ctx context.Context, fromCity, toCity string) ([]domain.Flight, error)
	SetRouteFlights(ctx context.Context, fromCity, toCity string, flights []domain.Flight) error
	InvalidateRoutes(ctx context.Context, flights []domain.Flight) error
}

type ItineraryReleaser interface {
	ReleaseItinerary(ctx context.Context, itineraryID string, legs []domain.FlightBooking) error
}

type FlightService struct {
	tx       repository.Transactor
	flights  repository.FlightRepository
	legs     repository.FlightBookingRepository
	releaser ItineraryReleaser
	clock    clock.Clock
	policy   domain.ItineraryPolicy
	cache    FlightCache
	events   booking.EventPublisher
	log      *logrus.Logger
}

type SearchInput struct {
	FromCity   string
	ToCity     string
	Passengers int
}

type CreateFlightInput struct {
	FromCity   string    `json:"from_city"`
	ToCity     string    `json:"to_city"`
	Departure  time.Time `json:"departure"`
	Arrival    time.Time `json:"arrival"`
	TotalSeats int       `json:"total_seats"`
	Price      float64   `json:"price"`
}

type BookItineraryInput struct {
	FlightIDs  []int64 `json:"flight_ids"`
	Passengers int     `json:"passengers"`
}

type FlightServiceOption func(*FlightService)

func WithCache(cache FlightCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func WithEventPublisher(events booking.EventPublisher) FlightServiceOption {
	return func(s *FlightService) {
		s.events = events
	}
}

func WithPolicy(policy domain.ItineraryPolicy) FlightServiceOption {
	return func(s *FlightService) {
		s.policy = policy
	}
}

func WithLogger(log *logrus.Logger) FlightServiceOption {
	return func(s *FlightService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewFlightService(
	tx repository.Transactor,
	flights repository.FlightRepository,
	legs repository.FlightBookingRepository,
	releaser ItineraryReleaser,
	clk clock.Clock,
	opts ...FlightServiceOption,
) *FlightService {
	service := &FlightService{
		tx:       tx,
		flights:  flights,
		legs:     legs,
		releaser: releaser,
		clock:    clk,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Search lists flights on a route with room for the party. Seat counts may be
// up to one cache TTL stale.
func (s *FlightService) Search(ctx context.Context, input SearchInput) ([]domain.Flight, error) {
	from, to := strings.TrimSpace(input.FromCity), strings.TrimSpace(input.ToCity)
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: from_city and to_city are required", domain.ErrValidation)
	}
	if input.Passengers < 1 {
		return nil, fmt.Errorf("%w: passengers must be at least 1", domain.ErrValidation)
	}

	flights, err := s.routeFlights(ctx, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Flight, 0, len(flights))
	for _, f := range flights {
		if f.HasSeats(input.Passengers) {
			result = append(result, f)
		}
	}
	return result, nil
}

func (s *FlightService) routeFlights(ctx context.Context, from, to string) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRouteFlights(ctx, from, to)
		if err != nil {
			s.log.WithError(err).Warn("flight cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.ListByRoute(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetRouteFlights(ctx, from, to, flights); err != nil {
			s.log.WithError(err).Warn("flight cache write failed")
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

func (s *FlightService) CreateFlight(ctx context.Context, p domain.Principal, input CreateFlightInput) (*domain.Flight, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can create flights", domain.ErrPermission)
	}
	flight := &domain.Flight{
		FromCity:   strings.TrimSpace(input.FromCity),
		ToCity:     strings.TrimSpace(input.ToCity),
		Departure:  input.Departure.UTC(),
		Arrival:    input.Arrival.UTC(),
		TotalSeats: input.TotalSeats,
		Price:      input.Price,
	}
	switch {
	case flight.FromCity == "" || flight.ToCity == "":
		return nil, fmt.Errorf("%w: from_city and to_city are required", domain.ErrValidation)
	case !flight.Arrival.After(flight.Departure):
		return nil, fmt.Errorf("%w: arrival must be after departure", domain.ErrValidation)
	case flight.TotalSeats < 1:
		return nil, fmt.Errorf("%w: total_seats must be at least 1", domain.ErrValidation)
	case flight.Price < 0:
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}

	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx, []domain.Flight{*flight})
	return flight, nil
}

// BookItinerary reserves passengers seats on every leg or on none. All legs
// are row-locked before any capacity check so concurrent purchases of the
// same flight cannot both see the last seats.
func (s *FlightService) BookItinerary(ctx context.Context, p domain.Principal, input BookItineraryInput) ([]domain.FlightBooking, error) {
	if len(input.FlightIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one flight is required", domain.ErrValidation)
	}
	if input.Passengers < 1 {
		return nil, fmt.Errorf("%w: passengers must be at least 1", domain.ErrValidation)
	}

	itineraryID := uuid.NewString()
	var (
		legs    []domain.FlightBooking
		flights []domain.Flight
	)
	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		locked, err := s.flights.LockByIDs(txCtx, input.FlightIDs)
		if err != nil {
			return err
		}

		flights = make([]domain.Flight, 0, len(input.FlightIDs))
		for _, id := range input.FlightIDs {
			f, ok := locked[id]
			if !ok {
				return fmt.Errorf("%w: flight %d", domain.ErrNotFound, id)
			}
			flights = append(flights, f)
		}

		for _, f := range flights {
			if !f.HasSeats(input.Passengers) {
				return fmt.Errorf("%w: flight %d has %d free seats, %d requested",
					domain.ErrCapacity, f.ID, f.FreeSeats(), input.Passengers)
			}
		}

		if len(flights) > 1 {
			if err := domain.ValidateItinerary(flights, s.policy); err != nil {
				return err
			}
		}

		legs = make([]domain.FlightBooking, 0, len(flights))
		for _, f := range flights {
			if err := s.flights.AddBookedSeats(txCtx, f.ID, input.Passengers); err != nil {
				return err
			}
			leg := &domain.FlightBooking{
				ItineraryID: itineraryID,
				UserID:      p.ID,
				UserEmail:   p.Email,
				FlightID:    f.ID,
				Passengers:  input.Passengers,
			}
			if err := s.legs.Create(txCtx, leg); err != nil {
				return err
			}
			legs = append(legs, *leg)
		}
		return nil
	})
	if err != nil {
		s.logFailure(err, logrus.Fields{"op": "book_itinerary", "flight_ids": input.FlightIDs, "user_id": p.ID})
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"itinerary_id": itineraryID, "legs": len(legs), "user_id": p.ID}).Info("itinerary booked")
	s.invalidate(ctx, flights)
	s.publish(ctx, kafka.BookingEvent{
		Type:        kafka.EventItineraryBooked,
		UserID:      p.ID,
		Email:       p.Email,
		ItineraryID: itineraryID,
		FlightIDs:   input.FlightIDs,
		Passengers:  input.Passengers,
	})
	return legs, nil
}

func (s *FlightService) GetItinerary(ctx context.Context, p domain.Principal, itineraryID string) ([]domain.FlightBooking, error) {
	if err := validateItineraryID(itineraryID); err != nil {
		return nil, err
	}
	legs, err := s.legs.ListByItinerary(ctx, itineraryID, false)
	if err != nil {
		return nil, err
	}
	if len(legs) == 0 {
		return nil, fmt.Errorf("%w: itinerary %s", domain.ErrNotFound, itineraryID)
	}
	if !p.CanManage(legs[0].UserID) {
		return nil, fmt.Errorf("%w: user %d cannot view itinerary %s", domain.ErrPermission, p.ID, itineraryID)
	}
	return legs, nil
}

// CancelItinerary returns every leg's seats and deletes the legs in one
// transaction.
func (s *FlightService) CancelItinerary(ctx context.Context, p domain.Principal, itineraryID string) error {
	if err := validateItineraryID(itineraryID); err != nil {
		return err
	}

	var (
		legs    []domain.FlightBooking
		flights []domain.Flight
	)
	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		legs, err = s.legs.ListByItinerary(txCtx, itineraryID, true)
		if err != nil {
			return err
		}
		if len(legs) == 0 {
			return fmt.Errorf("%w: itinerary %s", domain.ErrNotFound, itineraryID)
		}
		if err := release.Authorize(p, legs[0].UserID, "itinerary "+itineraryID); err != nil {
			return err
		}

		locked, err := s.flights.LockByIDs(txCtx, legFlightIDs(legs))
		if err != nil {
			return err
		}
		flights = make([]domain.Flight, 0, len(locked))
		for _, f := range locked {
			flights = append(flights, f)
		}
		return s.releaser.ReleaseItinerary(txCtx, itineraryID, legs)
	})
	if err != nil {
		s.logFailure(err, logrus.Fields{"op": "cancel_itinerary", "itinerary_id": itineraryID, "user_id": p.ID})
		return err
	}

	s.log.WithFields(logrus.Fields{"itinerary_id": itineraryID, "legs": len(legs), "user_id": p.ID}).Info("itinerary cancelled")
	s.invalidate(ctx, flights)
	s.publish(ctx, kafka.BookingEvent{
		Type:        kafka.EventItineraryCancelled,
		UserID:      legs[0].UserID,
		ActorID:     p.ID,
		Email:       legs[0].UserEmail,
		ItineraryID: itineraryID,
		FlightIDs:   legFlightIDs(legs),
		Passengers:  legs[0].Passengers,
	})
	return nil
}

func (s *FlightService) ListUserFlightBookings(ctx context.Context, p domain.Principal) ([]domain.FlightBooking, error) {
	return s.legs.ListByUser(ctx, p.ID)
}

func (s *FlightService) invalidate(ctx context.Context, flights []domain.Flight) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateRoutes(ctx, flights); err != nil {
		s.log.WithError(err).Warn("flight cache invalidation failed")
	}
}

func (s *FlightService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.events == nil {
		return
	}
	event.OccurredAt = s.clock.Now()
	if err := s.events.PublishBookingEvent(ctx, event); err != nil {
		s.log.WithError(err).WithField("event", event.Type).Warn("failed to publish booking event")
	}
}

func (s *FlightService) logFailure(err error, fields logrus.Fields) {
	entry := s.log.WithFields(fields).WithError(err)
	if domain.IsBusinessError(err) {
		entry.Info("flight request rejected")
		return
	}
	entry.Error("flight request failed")
}

func validateItineraryID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed itinerary id %q", domain.ErrValidation, id)
	}
	return nil
}

// legFlightIDs returns the distinct flight ids of legs in leg order.
func legFlightIDs(legs []domain.FlightBooking) []int64 {
	seen := make(map[int64]struct{}, len(legs))
	ids := make([]int64, 0, len(legs))
	for _, leg := range legs {
		if _, ok := seen[leg.FlightID]; ok {
			continue
		}
		seen[leg.FlightID] = struct{}{}
		ids = append(ids, leg.FlightID)
	}
	return ids
}

var _ FlightUseCase = (*FlightService)(nil)
