package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/pkg/logger"
)

// NopPublisher stands in when no brokers are configured. Events are only logged at debug.
type NopPublisher struct {
	logger logger.Logger
}

var _ service.EventPublisher = (*NopPublisher)(nil)

func NewNopPublisher(log logger.Logger) *NopPublisher {
	return &NopPublisher{logger: log}
}

func (p *NopPublisher) PublishPostEvent(_ context.Context, payload service.PostEventPayload) error {
	p.logger.Debug("post event dropped", zap.String("type", string(payload.EventType)), zap.String("post_id", payload.PostID.String()))
	return nil
}

func (p *NopPublisher) PublishUserEvent(_ context.Context, payload service.UserEventPayload) error {
	p.logger.Debug("user event dropped", zap.String("type", string(payload.EventType)), zap.String("user_id", payload.UserID.String()))
	return nil
}
