package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error {
	return m.Called(ctx, topic, key, payload, maxRetries).Error(0)
}

func TestBookingEvent_Key(t *testing.T) {
	assert.Equal(t, "booking:42", BookingEvent{BookingID: 42}.Key())
	assert.Equal(t, "itinerary:abc", BookingEvent{BookingID: 42, ItineraryID: "abc"}.Key())
}

func TestDecodeEvent(t *testing.T) {
	event := BookingEvent{
		Type:        EventItineraryBooked,
		UserID:      5,
		ItineraryID: "abc",
		FlightIDs:   []int64{1, 2},
		Passengers:  3,
		OccurredAt:  time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	decoded, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event.FlightIDs, decoded.FlightIDs)
	assert.Equal(t, event.Type, decoded.Type)

	_, err = DecodeEvent([]byte("{"))
	assert.Error(t, err)
}

func TestEventPublisher(t *testing.T) {
	ctx := context.Background()
	event := BookingEvent{Type: EventRoomBooked, BookingID: 7}

	t.Run("mirrors to notifications topic", func(t *testing.T) {
		m := &MockPublisher{}
		m.On("PublishWithRetry", ctx, "bookings", "booking:7", event, 3).Return(nil).Once()
		m.On("PublishWithRetry", ctx, "notify", "booking:7", event, 3).Return(nil).Once()

		assert.NoError(t, NewEventPublisher(m, "bookings", "notify", 3).PublishBookingEvent(ctx, event))
		m.AssertExpectations(t)
	})

	t.Run("stops after booking topic failure", func(t *testing.T) {
		m := &MockPublisher{}
		m.On("PublishWithRetry", ctx, "bookings", "booking:7", event, 1).Return(errors.New("down")).Once()

		assert.Error(t, NewEventPublisher(m, "bookings", "notify", 0).PublishBookingEvent(ctx, event))
		m.AssertNotCalled(t, "PublishWithRetry", ctx, "notify", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no topic is a no-op", func(t *testing.T) {
		m := &MockPublisher{}
		assert.NoError(t, NewEventPublisher(m, "", "notify", 3).PublishBookingEvent(ctx, event))

		var nilPublisher *EventPublisher
		assert.NoError(t, nilPublisher.PublishBookingEvent(ctx, event))
	})
}
