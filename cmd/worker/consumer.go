package main

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/pkg/logger"
)

// errSkip marks a message that can never be processed; it is committed and dropped.
type errSkip struct{ err error }

func (e errSkip) Error() string { return e.err.Error() }

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type handlerFunc func(ctx context.Context, value []byte) error

func newRetryBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	return b
}

// consume handles one message at a time. A failed message is retried until it succeeds
// or ctx ends and is only committed once handled, so the group offset never passes it.
func consume(ctx context.Context, r messageReader, log logger.Logger, topic string, handle handlerFunc, newBackOff func() backoff.BackOff) {
	log.Info("Worker listening", zap.String("topic", topic))

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("Failed to read message from Kafka", err, zap.String("topic", topic))
			continue
		}

		log.Debug("Received message", zap.String("topic", msg.Topic), zap.String("key", string(msg.Key)))

		if !process(ctx, log, msg, handle, newBackOff()) {
			return
		}

		if err := r.CommitMessages(context.Background(), msg); err != nil {
			log.Error("Failed to commit message", err, zap.String("topic", topic))
		}
	}
}

// process reports whether msg is done with and may be committed.
func process(ctx context.Context, log logger.Logger, msg kafka.Message, handle handlerFunc, b backoff.BackOff) bool {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := handle(ctx, msg.Value)
		var skip errSkip
		if errors.As(err, &skip) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn("Failed to process event, retrying",
				zap.String("topic", msg.Topic),
				zap.String("key", string(msg.Key)),
				zap.Duration("next_attempt_in", next),
				zap.Error(err),
			)
		}),
	)
	if err == nil {
		return true
	}

	var skip errSkip
	if errors.As(err, &skip) {
		log.Warn("Failed to unmarshal event, skipping", zap.String("topic", msg.Topic), zap.Error(skip.err))
		return true
	}
	log.Info("Stopped before event was processed, leaving it uncommitted", zap.String("topic", msg.Topic), zap.String("key", string(msg.Key)))
	return false
}
