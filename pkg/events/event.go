package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event codes published on the bus. User lifecycle events drive the
// messaging-platform user mirror; session events drive host notifications.
const (
	TypeUserCreated   = "USER_CREATED"
	TypeUserDeleted   = "USER_DELETED"
	TypeSessionJoined = "SESSION_JOINED"
	TypeSessionEnded  = "SESSION_ENDED"
)

// BaseEvent is the generic implementation carried over the wire.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewUserCreated builds the event that mirrors a new account onto the
// messaging platform.
func NewUserCreated(userId uuid.UUID, externalId, email, fullName, avatarURL string) BaseEvent {
	return BaseEvent{
		Type: TypeUserCreated,
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"external_id": externalId,
			"email":       email,
			"full_name":   fullName,
			"avatar_url":  avatarURL,
		},
		OccurredAt: time.Now(),
	}
}

// NewUserDeleted builds the event that removes the messaging-platform mirror.
func NewUserDeleted(userId uuid.UUID, externalId string) BaseEvent {
	return BaseEvent{
		Type: TypeUserDeleted,
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"external_id": externalId,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionEvent builds a SESSION_JOINED/SESSION_ENDED event targeted at
// the session host.
func NewSessionEvent(eventType string, sessionId, hostId uuid.UUID, callId, problem, actorName string) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
			"user_id":    hostId.String(),
			"call_id":    callId,
			"problem":    problem,
			"actor_name": actorName,
		},
		OccurredAt: time.Now(),
	}
}
