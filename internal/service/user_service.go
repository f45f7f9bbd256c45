package service

import (
	"context"
	"time"

	"pairprep-be/internal/dto"
	"pairprep-be/internal/pkg/logger"
	"pairprep-be/internal/pkg/serverutils"
	"pairprep-be/internal/repository/specification"
	"pairprep-be/internal/repository/unitofwork"
	"pairprep-be/pkg/events"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher IEventPublisher
	logger         logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, eventPublisher IEventPublisher, log logger.ILogger) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NotFound("User not found")
	}

	return &dto.UserProfileResponse{
		Id:         user.Id,
		Email:      user.Email,
		FullName:   user.FullName,
		AvatarURL:  user.AvatarURL,
		ExternalId: user.ExternalId,
		Status:     string(user.Status),
		CreatedAt:  user.CreatedAt,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NotFound("User not found")
	}

	user.FullName = req.FullName
	user.UpdatedAt = time.Now()
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	// Keep the messaging-platform mirror in sync with the new name.
	if s.eventPublisher != nil {
		avatarURL := ""
		if user.AvatarURL != nil {
			avatarURL = *user.AvatarURL
		}
		event := events.NewUserCreated(user.Id, user.ExternalId, user.Email, user.FullName, avatarURL)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("UserService", "Failed to publish profile sync event", map[string]interface{}{"error": err.Error()})
		}
	}

	return s.GetProfile(ctx, userId)
}

func (s *userService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return serverutils.NotFound("User not found")
	}

	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		event := events.NewUserDeleted(user.Id, user.ExternalId)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("UserService", "Failed to publish USER_DELETED", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}
