package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/tripbooking/internal/clock"
	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/kafka"
	"github.com/Domenick1991/tripbooking/internal/repository"
	"github.com/Domenick1991/tripbooking/internal/service/release"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	BookRoom(ctx context.Context, p domain.Principal, input BookRoomInput) (*domain.Booking, error)
	BookRoomForDuration(ctx context.Context, p domain.Principal, input BookRoomForDurationInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, p domain.Principal, bookingID int64) error
	ListUserBookings(ctx context.Context, p domain.Principal) ([]domain.Booking, error)
	ListRooms(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error)
	GetRoomAvailability(ctx context.Context, roomID int64, start, end time.Time) (bool, error)
	UpdateRoom(ctx context.Context, p domain.Principal, roomID int64, update domain.RoomUpdate) (*domain.Room, error)
}

type RoomReleaser interface {
	ReleaseRoomBooking(ctx context.Context, booking domain.Booking) error
}

type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event kafka.BookingEvent) error
}

type BookingService struct {
	tx       repository.Transactor
	rooms    repository.RoomRepository
	bookings repository.BookingRepository
	releaser RoomReleaser
	clock    clock.Clock
	events   EventPublisher
	log      *logrus.Logger
}

type BookRoomInput struct {
	RoomID    int64     `json:"room_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type BookRoomForDurationInput struct {
	RoomID    int64     `json:"room_id"`
	StartDate time.Time `json:"start_date"`
	NumDays   int       `json:"num_days"`
}

type BookingServiceOption func(*BookingService)

func WithEventPublisher(events EventPublisher) BookingServiceOption {
	return func(s *BookingService) {
		s.events = events
	}
}

func WithLogger(log *logrus.Logger) BookingServiceOption {
	return func(s *BookingService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewBookingService(
	tx repository.Transactor,
	rooms repository.RoomRepository,
	bookings repository.BookingRepository,
	releaser RoomReleaser,
	clk clock.Clock,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		tx:       tx,
		rooms:    rooms,
		bookings: bookings,
		releaser: releaser,
		clock:    clk,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// BookRoom reserves the room for [StartDate, EndDate). The room row is locked
// before the overlap check and held until the insert commits, so two callers
// racing for the same room are serialized and the second one sees the first's booking.
func (s *BookingService) BookRoom(ctx context.Context, p domain.Principal, input BookRoomInput) (*domain.Booking, error) {
	interval := domain.Interval{Start: input.StartDate.UTC(), End: input.EndDate.UTC()}
	if !interval.Valid() {
		return nil, fmt.Errorf("%w: end date must be after start date", domain.ErrValidation)
	}
	if interval.Start.Before(s.clock.Now()) {
		return nil, fmt.Errorf("%w: cannot book in the past", domain.ErrValidation)
	}

	booking := &domain.Booking{
		UserID:    p.ID,
		UserEmail: p.Email,
		RoomID:    input.RoomID,
		StartDate: interval.Start,
		EndDate:   interval.End,
	}

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.rooms.GetForUpdate(txCtx, input.RoomID); err != nil {
			return err
		}
		existing, err := s.bookings.FindOverlap(txCtx, input.RoomID, interval)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: room %d is already booked from %s to %s", domain.ErrConflict, input.RoomID,
				existing.StartDate.Format(time.RFC3339), existing.EndDate.Format(time.RFC3339))
		}
		return s.bookings.Create(txCtx, booking)
	})
	if err != nil {
		s.logFailure(err, logrus.Fields{"op": "book_room", "room_id": input.RoomID, "user_id": p.ID})
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"booking_id": booking.ID, "room_id": booking.RoomID, "user_id": p.ID}).Info("room booked")
	s.publish(ctx, kafka.BookingEvent{
		Type:      kafka.EventRoomBooked,
		UserID:    p.ID,
		Email:     p.Email,
		BookingID: booking.ID,
		RoomID:    booking.RoomID,
		StartDate: booking.StartDate,
		EndDate:   booking.EndDate,
	})
	return booking, nil
}

// MaxStayDays caps a single duration booking.
const MaxStayDays = 365

// BookRoomForDuration books NumDays whole UTC days starting at StartDate.
func (s *BookingService) BookRoomForDuration(ctx context.Context, p domain.Principal, input BookRoomForDurationInput) (*domain.Booking, error) {
	if input.NumDays < 1 {
		return nil, fmt.Errorf("%w: number of days must be positive", domain.ErrValidation)
	}
	if input.NumDays > MaxStayDays {
		return nil, fmt.Errorf("%w: number of days cannot exceed %d", domain.ErrValidation, MaxStayDays)
	}
	start := input.StartDate.UTC()
	return s.BookRoom(ctx, p, BookRoomInput{
		RoomID:    input.RoomID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, input.NumDays),
	})
}

// CancelBooking deletes the booking when p owns it or is an admin.
func (s *BookingService) CancelBooking(ctx context.Context, p domain.Principal, bookingID int64) error {
	var cancelled domain.Booking
	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.bookings.GetForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}
		if err := release.Authorize(p, booking.UserID, fmt.Sprintf("booking %d", bookingID)); err != nil {
			return err
		}
		cancelled = *booking
		return s.releaser.ReleaseRoomBooking(txCtx, *booking)
	})
	if err != nil {
		s.logFailure(err, logrus.Fields{"op": "cancel_booking", "booking_id": bookingID, "user_id": p.ID})
		return err
	}

	s.log.WithFields(logrus.Fields{"booking_id": bookingID, "room_id": cancelled.RoomID, "user_id": p.ID}).Info("room booking cancelled")
	s.publish(ctx, kafka.BookingEvent{
		Type:      kafka.EventRoomCancelled,
		UserID:    cancelled.UserID,
		ActorID:   p.ID,
		Email:     cancelled.UserEmail,
		BookingID: cancelled.ID,
		RoomID:    cancelled.RoomID,
		StartDate: cancelled.StartDate,
		EndDate:   cancelled.EndDate,
	})
	return nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, p domain.Principal) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, p.ID)
}

func (s *BookingService) ListRooms(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error) {
	if filter.RoomType != "" && !filter.RoomType.Valid() {
		return nil, fmt.Errorf("%w: unknown room type %q", domain.ErrValidation, filter.RoomType)
	}
	if filter.MinPrice > 0 && filter.MaxPrice > 0 && filter.MinPrice > filter.MaxPrice {
		return nil, fmt.Errorf("%w: min price exceeds max price", domain.ErrValidation)
	}
	if filter.FreeFrom.IsZero() != filter.FreeTo.IsZero() {
		return nil, fmt.Errorf("%w: availability window needs both start and end", domain.ErrValidation)
	}
	if filter.HasWindow() && !filter.FreeFrom.Before(filter.FreeTo) {
		return nil, fmt.Errorf("%w: end date must be after start date", domain.ErrValidation)
	}
	return s.rooms.List(ctx, filter)
}

// GetRoomAvailability answers from bookings, never from the advisory flag.
func (s *BookingService) GetRoomAvailability(ctx context.Context, roomID int64, start, end time.Time) (bool, error) {
	interval := domain.Interval{Start: start.UTC(), End: end.UTC()}
	if !interval.Valid() {
		return false, fmt.Errorf("%w: end date must be after start date", domain.ErrValidation)
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return false, err
	}
	existing, err := s.bookings.FindOverlap(ctx, roomID, interval)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

func (s *BookingService) UpdateRoom(ctx context.Context, p domain.Principal, roomID int64, update domain.RoomUpdate) (*domain.Room, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can update rooms", domain.ErrPermission)
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Room
	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		room, err := s.rooms.GetForUpdate(txCtx, roomID)
		if err != nil {
			return err
		}
		update.Apply(room)
		if err := s.rooms.Update(txCtx, room); err != nil {
			return err
		}
		updated = room
		return nil
	})
	if err != nil {
		s.logFailure(err, logrus.Fields{"op": "update_room", "room_id": roomID})
		return nil, err
	}
	return updated, nil
}

func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.events == nil {
		return
	}
	event.OccurredAt = s.clock.Now()
	if err := s.events.PublishBookingEvent(ctx, event); err != nil {
		s.log.WithError(err).WithField("event", event.Type).Warn("failed to publish booking event")
	}
}

func (s *BookingService) logFailure(err error, fields logrus.Fields) {
	entry := s.log.WithFields(fields).WithError(err)
	if domain.IsBusinessError(err) {
		entry.Info("booking request rejected")
		return
	}
	entry.Error("booking request failed")
}

var _ BookingUseCase = (*BookingService)(nil)
