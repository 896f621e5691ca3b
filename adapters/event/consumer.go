package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/pkg/logger"
)

// Handler reacts to one decoded event. A failing call is retried a few times; after that the
// message is skipped, so handlers must be safe to run again and safe to miss once.
type Handler interface {
	HandlePostEvent(ctx context.Context, payload service.PostEventPayload) error
	HandleUserEvent(ctx context.Context, payload service.UserEventPayload) error
}

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 500 * time.Millisecond
)

type Consumer struct {
	reader      *kafka.Reader
	handler     Handler
	logger      logger.Logger
	maxAttempts int
	backoff     time.Duration
}

func NewConsumer(brokers []string, groupID string, handler Handler, log logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: []string{TopicPostEvents, TopicUserEvents},
		MinBytes:    10e3,
		MaxBytes:    10e6,
	})
	return &Consumer{
		reader:      reader,
		handler:     handler,
		logger:      log,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
}

// Run reads until ctx is cancelled. Every message is committed once it has been handled,
// skipped as undecodable, or has failed maxAttempts times. Only a cancellation leaves the
// current message uncommitted, so it is redelivered after a restart.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("Worker listening", zap.Strings("topics", []string{TopicPostEvents, TopicUserEvents}))
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		c.logger.Debug("Received message", zap.String("topic", msg.Topic), zap.String("key", string(msg.Key)))

		if !c.process(ctx, msg) {
			return nil
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Failed to commit message", err)
		}
	}
}

// process handles msg with retries and reports whether it may be committed.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) bool {
	fields := []zap.Field{zap.String("topic", msg.Topic), zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset)}

	for attempt := 1; ; attempt++ {
		err := c.dispatch(ctx, msg)
		if err == nil {
			return true
		}

		var decodeErr *decodeError
		if errors.As(err, &decodeErr) {
			c.logger.Warn("Skipping undecodable event", append(fields, zap.Error(err))...)
			return true
		}
		if attempt >= c.maxAttempts {
			c.logger.Error("Giving up on event", err, append(fields, zap.Int("attempts", attempt))...)
			return true
		}

		c.logger.Warn("Failed to process event, retrying", append(fields, zap.Int("attempt", attempt), zap.Error(err))...)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return fmt.Sprintf("decode event: %v", e.err) }
func (e *decodeError) Unwrap() error { return e.err }

func (c *Consumer) dispatch(ctx context.Context, msg kafka.Message) error {
	switch msg.Topic {
	case TopicPostEvents:
		var payload service.PostEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return &decodeError{err: err}
		}
		return c.handler.HandlePostEvent(ctx, payload)
	case TopicUserEvents:
		var payload service.UserEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return &decodeError{err: err}
		}
		return c.handler.HandleUserEvent(ctx, payload)
	}
	return &decodeError{err: fmt.Errorf("unknown topic %q", msg.Topic)}
}
