package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventRoomBooked         EventType = "room_booked"
	EventRoomCancelled      EventType = "room_cancelled"
	EventItineraryBooked    EventType = "itinerary_booked"
	EventItineraryCancelled EventType = "itinerary_cancelled"
)

type BookingEvent struct {
	Type        EventType `json:"type"`
	UserID      int64     `json:"user_id"`
	ActorID     int64     `json:"actor_id,omitempty"`
	Email       string    `json:"email,omitempty"`
	BookingID   int64     `json:"booking_id,omitempty"`
	RoomID      int64     `json:"room_id,omitempty"`
	StartDate   time.Time `json:"start_date,omitzero"`
	EndDate     time.Time `json:"end_date,omitzero"`
	ItineraryID string    `json:"itinerary_id,omitempty"`
	FlightIDs   []int64   `json:"flight_ids,omitempty"`
	Passengers  int       `json:"passengers,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Key groups events of one booking or itinerary onto one partition.
func (e BookingEvent) Key() string {
	if e.ItineraryID != "" {
		return "itinerary:" + e.ItineraryID
	}
	return fmt.Sprintf("booking:%d", e.BookingID)
}

func DecodeEvent(data []byte) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event: %w", err)
	}
	return event, nil
}

type publisher interface {
	PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error
}

// EventPublisher writes booking events to the booking topic and mirrors them
// to the notifications topic when one is configured.
type EventPublisher struct {
	producer           publisher
	bookingTopic       string
	notificationsTopic string
	retries            int
}

func NewEventPublisher(producer publisher, bookingTopic, notificationsTopic string, retries int) *EventPublisher {
	if retries <= 0 {
		retries = 1
	}
	return &EventPublisher{
		producer:           producer,
		bookingTopic:       bookingTopic,
		notificationsTopic: notificationsTopic,
		retries:            retries,
	}
}

func (p *EventPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	if p == nil || p.producer == nil || p.bookingTopic == "" {
		return nil
	}
	if err := p.producer.PublishWithRetry(ctx, p.bookingTopic, event.Key(), event, p.retries); err != nil {
		return err
	}
	if p.notificationsTopic != "" {
		return p.producer.PublishWithRetry(ctx, p.notificationsTopic, event.Key(), event, p.retries)
	}
	return nil
}
