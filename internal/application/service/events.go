package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PostEventType string

const (
	PostEventTypeCreated        PostEventType = "created"
	PostEventTypeDeleted        PostEventType = "deleted"
	PostEventTypeLiked          PostEventType = "liked"
	PostEventTypeUnliked        PostEventType = "unliked"
	PostEventTypeCommented      PostEventType = "commented"
	PostEventTypeCommentRemoved PostEventType = "comment_removed"
)

type UserEventType string

const (
	UserEventTypeRegistered UserEventType = "registered"
	UserEventTypeDeleted    UserEventType = "deleted"
)

type PostEventPayload struct {
	EventType  PostEventType `json:"event_type"`
	PostID     uuid.UUID     `json:"post_id"`
	OwnerID    uuid.UUID     `json:"owner_id"`
	ActorID    uuid.UUID     `json:"actor_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}

type UserEventPayload struct {
	EventType  UserEventType `json:"event_type"`
	UserID     uuid.UUID     `json:"user_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// EventPublisher announces aggregate changes. Callers publish from a goroutine and only log
// failures; a lost event never fails the request that caused it.
type EventPublisher interface {
	PublishPostEvent(ctx context.Context, payload PostEventPayload) error
	PublishUserEvent(ctx context.Context, payload UserEventPayload) error
}
