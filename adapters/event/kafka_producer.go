package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const (
	TopicPostEvents = "post.events"
	TopicUserEvents = "user.events"
)

type KafkaProducerClient struct {
	PostEventsWriter *kafka.Writer
	UserEventsWriter *kafka.Writer
	logger           logger.Logger
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'post.events'
	postWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicPostEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	// writer 'user.events'
	userWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicUserEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))

	return &KafkaProducerClient{
		PostEventsWriter: postWriter,
		UserEventsWriter: userWriter,
		logger:           log,
	}, nil
}

// PublishPostEvent keys messages by post id so every event of one post lands on one partition.
func (c *KafkaProducerClient) PublishPostEvent(ctx context.Context, payload service.PostEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal post event: %w", err)
	}
	return c.PostEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.PostID.String()),
		Value: value,
	})
}

func (c *KafkaProducerClient) PublishUserEvent(ctx context.Context, payload service.UserEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal user event: %w", err)
	}
	return c.UserEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.UserID.String()),
		Value: value,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.PostEventsWriter != nil {
		if err := c.PostEventsWriter.Close(); err != nil {
			c.logger.Warn("Close post events writer failed", zap.Error(err))
		}
	}
	if c.UserEventsWriter != nil {
		if err := c.UserEventsWriter.Close(); err != nil {
			c.logger.Warn("Close user events writer failed", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producers")
}
