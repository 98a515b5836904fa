package worker

import (
	"context"

	"github.com/Domenick1991/tripbooking/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Notifier interface {
	Send(ctx context.Context, event kafka.BookingEvent) error
}

// NotificationHandler decodes booking events and forwards them to notifier.
// Undecodable messages and failed deliveries are logged and committed so they
// cannot block the partition.
func NotificationHandler(notifier Notifier, log *logrus.Logger) func(context.Context, kafkago.Message) error {
	return func(ctx context.Context, msg kafkago.Message) error {
		event, err := kafka.DecodeEvent(msg.Value)
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{"partition": msg.Partition, "offset": msg.Offset}).Warn("skipping malformed event")
			return nil
		}
		if err := notifier.Send(ctx, event); err != nil {
			if ctx.Err() != nil {
				return err
			}
			log.WithError(err).WithField("event", event.Type).Error("notification not delivered")
		}
		return nil
	}
}
