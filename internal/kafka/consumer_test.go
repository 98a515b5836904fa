package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu         sync.Mutex
	messages   []kafka.Message
	commitErrs []error
	committed  []int64
	commits    int
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits++
	if len(r.commitErrs) > 0 {
		err := r.commitErrs[0]
		r.commitErrs = r.commitErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func newTestConsumer(reader *fakeReader) (*Consumer, *test.Hook) {
	log, hook := test.NewNullLogger()
	c := newConsumer(reader, log)
	c.backoff = time.Millisecond
	return c, hook
}

func TestConsumer_CommitsAfterHandler(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{Offset: 1}, {Offset: 2}}}
	consumer, _ := newTestConsumer(reader)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var handled []int64
	err := consumer.Consume(ctx, func(_ context.Context, msg kafka.Message) error {
		handled = append(handled, msg.Offset)
		if len(handled) == 2 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int64{1, 2}, handled)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestConsumer_HandlerErrorSkipsCommit(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{Offset: 7}}}
	consumer, _ := newTestConsumer(reader)

	boom := errors.New("boom")
	err := consumer.Consume(context.Background(), func(context.Context, kafka.Message) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, reader.commits)
}

func TestConsumer_CommitRetries(t *testing.T) {
	t.Run("recovers after a transient failure", func(t *testing.T) {
		reader := &fakeReader{
			messages:   []kafka.Message{{Topic: "notifications", Offset: 3}},
			commitErrs: []error{errors.New("coordinator moved"), nil},
		}
		consumer, hook := newTestConsumer(reader)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		go func() {
			assert.Eventually(t, func() bool {
				reader.mu.Lock()
				defer reader.mu.Unlock()
				return len(reader.committed) == 1
			}, time.Second, time.Millisecond)
			cancel()
		}()
		err := consumer.Consume(ctx, func(context.Context, kafka.Message) error { return nil })

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []int64{3}, reader.committed)
		require.NotEmpty(t, hook.AllEntries())
		warn := hook.AllEntries()[0]
		assert.Equal(t, logrus.WarnLevel, warn.Level)
		assert.Equal(t, "kafka commit failed", warn.Message)
		assert.Equal(t, int64(3), warn.Data["offset"])
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		lost := errors.New("broker unavailable")
		reader := &fakeReader{
			messages:   []kafka.Message{{Offset: 9}},
			commitErrs: []error{lost, lost, lost},
		}
		consumer, hook := newTestConsumer(reader)

		err := consumer.Consume(context.Background(), func(context.Context, kafka.Message) error { return nil })

		assert.ErrorIs(t, err, lost)
		assert.ErrorContains(t, err, "commit offset 9")
		assert.Equal(t, defaultCommitRetries, reader.commits)
		assert.Len(t, hook.AllEntries(), defaultCommitRetries)
	})
}
