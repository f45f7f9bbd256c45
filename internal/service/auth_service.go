package service

import (
	"context"
	"fmt"
	"time"

	"pairprep-be/internal/dto"
	"pairprep-be/internal/entity"
	"pairprep-be/internal/pkg/logger"
	"pairprep-be/internal/pkg/mailer"
	"pairprep-be/internal/pkg/serverutils"
	"pairprep-be/internal/repository/specification"
	"pairprep-be/internal/repository/unitofwork"
	"pairprep-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher IEventPublisher
	jwtSecret      string
	logger         logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher IEventPublisher,
	jwtSecret string,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		jwtSecret:      jwtSecret,
		logger:         log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		// ExternalId is the identity used on the messaging platform.
		ExternalId: "user_" + uuid.New().String(),
		Status:     entity.UserStatusActive,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	// Mirror the account onto the messaging platform via the event consumer.
	if s.eventPublisher != nil {
		avatarURL := ""
		if user.AvatarURL != nil {
			avatarURL = *user.AvatarURL
		}
		event := events.NewUserCreated(user.Id, user.ExternalId, user.Email, user.FullName, avatarURL)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("AuthService", "Failed to publish USER_CREATED", map[string]interface{}{"error": err.Error()})
		}
	}

	go func() {
		if err := s.emailService.SendWelcome(user.Email, user.FullName); err != nil {
			s.logger.Warn("AuthService", "Failed to send welcome email", map[string]interface{}{"error": err.Error()})
		}
	}()

	return &dto.RegisterResponse{
		Id:         user.Id,
		Email:      user.Email,
		ExternalId: user.ExternalId,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, serverutils.NewAPIError(401, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, serverutils.NewAPIError(401, "Invalid credentials")
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, serverutils.Forbidden("User account is blocked")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  toUserSummary(user),
	}, nil
}

func (s *authService) generateToken(user *entity.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     user.Id.String(),
		"external_id": user.ExternalId,
		"exp":         time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
