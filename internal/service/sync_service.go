package service

import (
	"context"
	"fmt"

	"pairprep-be/internal/pkg/logger"
	"pairprep-be/pkg/events"
	pktNats "pairprep-be/pkg/nats"
	"pairprep-be/pkg/stream"
)

// IUserMirror is the user-directory slice of the messaging platform.
// Satisfied by stream.Client.
type IUserMirror interface {
	UpsertUser(ctx context.Context, user stream.UserRecord) error
	DeleteUser(ctx context.Context, userID string) error
}

// SyncService mirrors account lifecycle events onto the messaging platform so
// call creators and channel members always resolve to a known user there.
type SyncService struct {
	subscriber *pktNats.Subscriber
	mirror     IUserMirror
	logger     logger.ILogger
}

func NewSyncService(sub *pktNats.Subscriber, mirror IUserMirror, log logger.ILogger) *SyncService {
	return &SyncService{
		subscriber: sub,
		mirror:     mirror,
		logger:     log,
	}
}

// Start begins listening to user lifecycle events with a durable consumer.
func (s *SyncService) Start() {
	err := s.subscriber.Subscribe("events.>", "user-mirror-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("SyncService", "Failed to start user mirror subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("SyncService", "User mirror started, listening to events.>", nil)
}

func (s *SyncService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	externalId, _ := payload["external_id"].(string)
	if externalId == "" {
		s.logger.Warn("SyncService", "Event without external_id, skipping", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	switch event.EventType() {
	case events.TypeUserCreated:
		fullName, _ := payload["full_name"].(string)
		email, _ := payload["email"].(string)
		avatarURL, _ := payload["avatar_url"].(string)

		err := s.mirror.UpsertUser(ctx, stream.UserRecord{
			ID:    externalId,
			Name:  fullName,
			Image: avatarURL,
			Email: email,
		})
		if err != nil {
			s.logger.Error("SyncService", "Failed to upsert messaging user", map[string]interface{}{
				"external_id": externalId,
				"error":       err.Error(),
			})
			return err // NATS redelivers on error
		}
		s.logger.Info("SyncService", fmt.Sprintf("Mirrored user %s", externalId), nil)
	case events.TypeUserDeleted:
		if err := s.mirror.DeleteUser(ctx, externalId); err != nil {
			s.logger.Error("SyncService", "Failed to delete messaging user", map[string]interface{}{
				"external_id": externalId,
				"error":       err.Error(),
			})
			return err
		}
		s.logger.Info("SyncService", fmt.Sprintf("Removed mirrored user %s", externalId), nil)
	}

	return nil
}
