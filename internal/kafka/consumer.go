package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	defaultCommitRetries = 3
	commitBackoff        = 200 * time.Millisecond
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads one topic as part of a consumer group and commits each
// offset only after its handler returns.
type Consumer struct {
	reader        messageReader
	log           *logrus.Logger
	commitRetries int
	backoff       time.Duration
}

func NewConsumer(brokers []string, groupID, topic string, log *logrus.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return newConsumer(reader, log)
}

func newConsumer(reader messageReader, log *logrus.Logger) *Consumer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Consumer{
		reader:        reader,
		log:           log,
		commitRetries: defaultCommitRetries,
		backoff:       commitBackoff,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume feeds messages to handler until ctx is cancelled, handler fails, or
// an offset cannot be committed after retrying.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
		if err := c.commit(ctx, msg); err != nil {
			return err
		}
	}
}

// commit retries with linear backoff. A message whose commit is lost is
// redelivered after a rebalance.
func (c *Consumer) commit(ctx context.Context, msg kafka.Message) error {
	entry := c.log.WithFields(logrus.Fields{"topic": msg.Topic, "partition": msg.Partition, "offset": msg.Offset})
	var lastErr error
	for attempt := 1; attempt <= c.commitRetries; attempt++ {
		lastErr = c.reader.CommitMessages(ctx, msg)
		if lastErr == nil {
			return nil
		}
		entry.WithError(lastErr).WithField("attempt", attempt).Warn("kafka commit failed")

		if attempt < c.commitRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}
	}
	return fmt.Errorf("commit offset %d: %w", msg.Offset, lastErr)
}
