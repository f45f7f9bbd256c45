package service

import (
	"context"

	"pairprep-be/internal/dto"
	"pairprep-be/internal/pkg/logger"
	"pairprep-be/pkg/events"
	pktNats "pairprep-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification dto.SessionNotification)
}

// NotificationService turns bus events into websocket pushes for the session
// host: someone joined, or the session was ended.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	switch event.EventType() {
	case events.TypeSessionJoined, events.TypeSessionEnded:
	default:
		return nil
	}

	payload := event.Payload()
	targetRaw, _ := payload["user_id"].(string)
	target, err := uuid.Parse(targetRaw)
	if err != nil {
		s.logger.Warn("NotificationService", "Session event without valid target", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	sessionId, _ := payload["session_id"].(string)
	callId, _ := payload["call_id"].(string)
	problem, _ := payload["problem"].(string)
	actorName, _ := payload["actor_name"].(string)

	if s.delivery != nil {
		s.delivery.Send(target, dto.SessionNotification{
			Type:      event.EventType(),
			SessionId: sessionId,
			CallId:    callId,
			Problem:   problem,
			ActorName: actorName,
		})
	}
	return nil
}
