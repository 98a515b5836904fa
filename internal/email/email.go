package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/tripbooking/config"
	"github.com/Domenick1991/tripbooking/internal/kafka"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender turns booking events into customer emails. Without an SMTP host the
// message is only logged.
type Sender struct {
	from   string
	dialer dialer
	log    *logrus.Logger
}

func NewSender(cfg config.SMTPConfig, log *logrus.Logger) *Sender {
	s := &Sender{from: cfg.From, log: log}
	if cfg.Host != "" {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	entry := s.log.WithFields(logrus.Fields{"event": event.Type, "user_id": event.UserID})
	if event.Email == "" {
		entry.Debug("no recipient, skipping email")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := s.buildMessage(event)
	if s.dialer == nil {
		entry.WithFields(logrus.Fields{"to": event.Email, "subject": msg.GetHeader("Subject")}).Info("smtp disabled, email logged only")
		return nil
	}
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", event.Email, err)
	}
	entry.WithField("to", event.Email).Info("email sent")
	return nil
}

func (s *Sender) buildMessage(event kafka.BookingEvent) *gomail.Message {
	subject, body := render(event)
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", event.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

func render(event kafka.BookingEvent) (string, string) {
	const day = "2006-01-02"
	switch event.Type {
	case kafka.EventRoomBooked:
		return fmt.Sprintf("Booking #%d confirmed", event.BookingID),
			fmt.Sprintf("Room %d is reserved from %s to %s.", event.RoomID, event.StartDate.Format(day), event.EndDate.Format(day))
	case kafka.EventRoomCancelled:
		return fmt.Sprintf("Booking #%d cancelled", event.BookingID),
			fmt.Sprintf("Your reservation of room %d from %s to %s was cancelled%s.", event.RoomID, event.StartDate.Format(day), event.EndDate.Format(day), cancelledBy(event))
	case kafka.EventItineraryBooked:
		return "Flight itinerary confirmed",
			fmt.Sprintf("Itinerary %s: %d passenger(s) on flights %s.", event.ItineraryID, event.Passengers, joinIDs(event.FlightIDs))
	case kafka.EventItineraryCancelled:
		return "Flight itinerary cancelled",
			fmt.Sprintf("Itinerary %s on flights %s was cancelled%s and its seats released.", event.ItineraryID, joinIDs(event.FlightIDs), cancelledBy(event))
	}
	return "Booking update", fmt.Sprintf("Event %s at %s.", event.Type, event.OccurredAt.Format(time.RFC3339))
}

func cancelledBy(event kafka.BookingEvent) string {
	if event.ActorID != 0 && event.ActorID != event.UserID {
		return " by an administrator"
	}
	return ""
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return strings.Join(parts, ", ")
}
