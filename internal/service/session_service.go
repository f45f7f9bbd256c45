package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pairprep-be/internal/dto"
	"pairprep-be/internal/entity"
	"pairprep-be/internal/pkg/logger"
	"pairprep-be/internal/pkg/serverutils"
	"pairprep-be/internal/repository/specification"
	"pairprep-be/internal/repository/unitofwork"
	"pairprep-be/pkg/events"
	"pairprep-be/pkg/saga"

	"github.com/google/uuid"
)

// recentSessionLimit caps both listing endpoints.
const recentSessionLimit = 20

// IMessagingGateway is the slice of the messaging platform the session
// lifecycle needs. Satisfied by stream.Client.
type IMessagingGateway interface {
	CreateCall(ctx context.Context, callId, creatorId string, custom map[string]interface{}) error
	DeleteCall(ctx context.Context, callId string, hard bool) error
	CreateChannel(ctx context.Context, callId, name, creatorId string, members []string) error
	AddChannelMembers(ctx context.Context, callId string, members []string) error
	DeleteChannel(ctx context.Context, callId string) error
}

// IEventPublisher is satisfied by the NATS publisher.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ISessionService interface {
	Create(ctx context.Context, hostId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetActive(ctx context.Context) ([]*dto.SessionResponse, error)
	GetMine(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	Join(ctx context.Context, id uuid.UUID, userId uuid.UUID) (*dto.SessionResponse, error)
	End(ctx context.Context, id uuid.UUID, userId uuid.UUID) (*dto.SessionResponse, error)
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	gateway          IMessagingGateway
	eventPublisher   IEventPublisher
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	gateway IMessagingGateway,
	eventPublisher IEventPublisher,
	publisherService IPublisherService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		gateway:          gateway,
		eventPublisher:   eventPublisher,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *sessionService) Create(ctx context.Context, hostId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	host, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: hostId})
	if err != nil {
		return nil, err
	}
	if host == nil {
		return nil, serverutils.NotFound("User not found")
	}

	// The correlation key across the DB row, the video call and the chat
	// channel. Generated before any side effect so rollback can always find
	// what was created.
	callId := "session_" + uuid.New().String()

	session := &entity.Session{
		Id:         uuid.New(),
		Problem:    req.Problem,
		Difficulty: entity.Difficulty(req.Difficulty),
		HostId:     host.Id,
		Status:     entity.SessionStatusActive,
		CallId:     callId,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	// Row first so its id can be embedded in the call metadata; call before
	// channel (fixed order, no cross-dependency).
	steps := []saga.Step{
		{
			Name: "insert_session_row",
			Action: func(ctx context.Context) error {
				return uow.SessionRepository().Create(ctx, session)
			},
			Compensate: func(ctx context.Context) error {
				return uow.SessionRepository().DeleteByCallId(ctx, callId)
			},
		},
		{
			Name: "create_video_call",
			Action: func(ctx context.Context) error {
				return s.gateway.CreateCall(ctx, callId, host.ExternalId, map[string]interface{}{
					"problem":    session.Problem,
					"difficulty": string(session.Difficulty),
					"session_id": session.Id.String(),
				})
			},
			Compensate: func(ctx context.Context) error {
				return s.gateway.DeleteCall(ctx, callId, true)
			},
		},
		{
			Name: "create_chat_channel",
			Action: func(ctx context.Context) error {
				return s.gateway.CreateChannel(ctx, callId, fmt.Sprintf("%s Session", session.Problem), host.ExternalId, []string{host.ExternalId})
			},
		},
	}

	report, err := saga.Execute(ctx, steps)
	if err != nil {
		s.logger.Error("SessionService", "Session creation failed, rolled back", map[string]interface{}{
			"call_id":     callId,
			"failed_step": report.FailedStep,
			"error":       err.Error(),
		})
		s.publishCleanupReport(ctx, callId, "create_rollback", report)
		return nil, serverutils.NewAPIError(http.StatusInternalServerError, "Failed to create session")
	}

	session.Host = host
	return toSessionResponse(session), nil
}

func (s *sessionService) GetActive(ctx context.Context) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.ByStatus{Status: entity.SessionStatusActive},
		specification.WithUsers{},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{Limit: recentSessionLimit},
	)
	if err != nil {
		return nil, err
	}
	return toSessionResponses(sessions), nil
}

func (s *sessionService) GetMine(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.ByStatus{Status: entity.SessionStatusCompleted},
		specification.HostedOrJoinedBy{UserId: userId},
		specification.WithUsers{},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{Limit: recentSessionLimit},
	)
	if err != nil {
		return nil, err
	}
	return toSessionResponses(sessions), nil
}

func (s *sessionService) Show(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id}, specification.WithUsers{})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NotFound("Session not found")
	}
	return toSessionResponse(session), nil
}

func (s *sessionService) Join(ctx context.Context, id uuid.UUID, userId uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id}, specification.WithUsers{})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NotFound("Session not found")
	}
	if session.Status == entity.SessionStatusCompleted {
		return nil, serverutils.BadRequest("Cannot join a completed session")
	}
	if session.HostId == userId {
		return nil, serverutils.BadRequest("Host cannot join their own session as participant")
	}
	if session.ParticipantId != nil {
		return nil, serverutils.Conflict("Session is full")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NotFound("User not found")
	}

	// The channel member is added before the DB write so a gateway failure
	// leaves no inconsistent row behind.
	if err := s.gateway.AddChannelMembers(ctx, session.CallId, []string{user.ExternalId}); err != nil {
		s.logger.Error("SessionService", "Failed to add chat channel member", map[string]interface{}{
			"call_id": session.CallId,
			"error":   err.Error(),
		})
		return nil, serverutils.NewAPIError(http.StatusInternalServerError, "Failed to join session")
	}

	// Conditional update: only one concurrent joiner can claim the empty seat.
	won, err := uow.SessionRepository().SetParticipant(ctx, session.Id, userId)
	if err != nil {
		return nil, err
	}
	if !won {
		current, findErr := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
		if findErr == nil && current != nil && current.Status == entity.SessionStatusCompleted {
			return nil, serverutils.BadRequest("Cannot join a completed session")
		}
		return nil, serverutils.Conflict("Session is full")
	}

	s.publishSessionEvent(ctx, events.TypeSessionJoined, session, user.FullName)

	updated, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id}, specification.WithUsers{})
	if err != nil {
		return nil, err
	}
	return toSessionResponse(updated), nil
}

func (s *sessionService) End(ctx context.Context, id uuid.UUID, userId uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id}, specification.WithUsers{})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NotFound("Session not found")
	}
	if session.HostId != userId {
		return nil, serverutils.Forbidden("Only the host can end the session")
	}
	if session.Status == entity.SessionStatusCompleted {
		return nil, serverutils.BadRequest("Session is already completed")
	}

	// External teardown is best effort; the status flip below is the
	// authoritative step and happens regardless.
	report := saga.RunBestEffort(ctx, []saga.Step{
		{
			Name: "delete_video_call",
			Action: func(ctx context.Context) error {
				return s.gateway.DeleteCall(ctx, session.CallId, true)
			},
		},
		{
			Name: "delete_chat_channel",
			Action: func(ctx context.Context) error {
				return s.gateway.DeleteChannel(ctx, session.CallId)
			},
		},
	})
	if hasFailedStep(report) {
		s.logger.Warn("SessionService", "External teardown partially failed", map[string]interface{}{
			"call_id": session.CallId,
			"steps":   report.Steps,
		})
		s.publishCleanupReport(ctx, session.CallId, "end_teardown", report)
	}

	won, err := uow.SessionRepository().CompleteSession(ctx, session.Id)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, serverutils.BadRequest("Session is already completed")
	}

	actorName := ""
	if session.Host != nil {
		actorName = session.Host.FullName
	}
	s.publishSessionEvent(ctx, events.TypeSessionEnded, session, actorName)

	updated, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id}, specification.WithUsers{})
	if err != nil {
		return nil, err
	}
	return toSessionResponse(updated), nil
}

func (s *sessionService) publishCleanupReport(ctx context.Context, callId, operation string, report *saga.Report) {
	if s.publisherService == nil {
		return
	}
	err := s.publisherService.PublishCleanupReport(ctx, &dto.CleanupReportMessage{
		CallId:    callId,
		Operation: operation,
		Report:    report,
	})
	if err != nil {
		s.logger.Error("SessionService", "Failed to publish cleanup report", map[string]interface{}{
			"call_id": callId,
			"error":   err.Error(),
		})
	}
}

func (s *sessionService) publishSessionEvent(ctx context.Context, eventType string, session *entity.Session, actorName string) {
	if s.eventPublisher == nil {
		return
	}
	event := events.NewSessionEvent(eventType, session.Id, session.HostId, session.CallId, session.Problem, actorName)
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("SessionService", "Failed to publish session event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func hasFailedStep(report *saga.Report) bool {
	for _, step := range report.Steps {
		if step.Status == saga.StatusFailed {
			return true
		}
	}
	return false
}

func toUserSummary(user *entity.User) *dto.UserSummary {
	if user == nil {
		return nil
	}
	return &dto.UserSummary{
		Id:         user.Id,
		FullName:   user.FullName,
		Email:      user.Email,
		AvatarURL:  user.AvatarURL,
		ExternalId: user.ExternalId,
	}
}

func toSessionResponse(session *entity.Session) *dto.SessionResponse {
	if session == nil {
		return nil
	}
	return &dto.SessionResponse{
		Id:            session.Id,
		Problem:       session.Problem,
		Difficulty:    string(session.Difficulty),
		Host:          toUserSummary(session.Host),
		ParticipantId: session.ParticipantId,
		Participant:   toUserSummary(session.Participant),
		Status:        string(session.Status),
		CallId:        session.CallId,
		CreatedAt:     session.CreatedAt,
	}
}

func toSessionResponses(sessions []*entity.Session) []*dto.SessionResponse {
	result := make([]*dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, toSessionResponse(session))
	}
	return result
}
