package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cenkalti/backoff/v5"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/pawpal/pkg/logger"
)

type fakeReader struct {
	queue     []kafka.Message
	committed []kafka.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.queue) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func noWait() backoff.BackOff { return &backoff.ZeroBackOff{} }

func msg(offset int64, value string) kafka.Message {
	return kafka.Message{Topic: "dog.events", Offset: offset, Value: []byte(value)}
}

func TestConsume_RetriesFailedMessageBeforeCommitting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &fakeReader{queue: []kafka.Message{msg(1, "a"), msg(2, "b")}, cancel: cancel}

	calls := map[string]int{}
	consume(ctx, r, logger.NewNop(), "dog.events", func(_ context.Context, value []byte) error {
		calls[string(value)]++
		if string(value) == "a" && calls["a"] < 3 {
			return errors.New("redis unavailable")
		}
		return nil
	}, noWait)

	assert.Equal(t, 3, calls["a"])
	assert.Equal(t, 1, calls["b"])
	if assert.Len(t, r.committed, 2) {
		assert.Equal(t, int64(1), r.committed[0].Offset)
		assert.Equal(t, int64(2), r.committed[1].Offset)
	}
}

func TestConsume_ShutdownLeavesFailingMessageUncommitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &fakeReader{queue: []kafka.Message{msg(1, "a"), msg(2, "b")}, cancel: cancel}

	var seen []string
	consume(ctx, r, logger.NewNop(), "dog.events", func(_ context.Context, value []byte) error {
		seen = append(seen, string(value))
		if len(seen) == 2 {
			cancel()
		}
		return errors.New("postgres unavailable")
	}, noWait)

	assert.Equal(t, []string{"a", "a"}, seen)
	assert.Empty(t, r.committed)
	assert.Len(t, r.queue, 1, "the next message must not be fetched past a failing one")
}

func TestConsume_UndecodableMessageIsCommittedOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &fakeReader{queue: []kafka.Message{msg(7, "{not json")}, cancel: cancel}

	calls := 0
	consume(ctx, r, logger.NewNop(), "dog.events", func(_ context.Context, value []byte) error {
		calls++
		var v map[string]any
		if err := json.Unmarshal(value, &v); err != nil {
			return errSkip{err}
		}
		return nil
	}, noWait)

	assert.Equal(t, 1, calls)
	if assert.Len(t, r.committed, 1) {
		assert.Equal(t, int64(7), r.committed[0].Offset)
	}
}
