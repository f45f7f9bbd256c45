package service

import (
	"context"
	"time"

	"pairprep-be/internal/dto"
	"pairprep-be/internal/pkg/serverutils"
	"pairprep-be/internal/repository/specification"
	"pairprep-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// chatTokenTTL bounds how long an issued messaging token is valid. Cached
// tokens are dropped earlier so a caller never receives a near-expired one.
const (
	chatTokenTTL      = time.Hour
	chatTokenCacheTTL = 45 * time.Minute
)

// ITokenIssuer mints user-scoped messaging platform tokens. Satisfied by
// stream.Client.
type ITokenIssuer interface {
	UserToken(userID string, expiry time.Duration) (string, error)
}

type IChatService interface {
	GetToken(ctx context.Context, userId uuid.UUID) (*dto.ChatTokenResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	issuer     ITokenIssuer
	apiKey     string
	tokenCache *cache.Cache
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, issuer ITokenIssuer, apiKey string) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		issuer:     issuer,
		apiKey:     apiKey,
		tokenCache: cache.New(chatTokenCacheTTL, 10*time.Minute),
	}
}

func (s *chatService) GetToken(ctx context.Context, userId uuid.UUID) (*dto.ChatTokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NotFound("User not found")
	}

	if cached, found := s.tokenCache.Get(user.ExternalId); found {
		return cached.(*dto.ChatTokenResponse), nil
	}

	token, err := s.issuer.UserToken(user.ExternalId, chatTokenTTL)
	if err != nil {
		return nil, err
	}

	resp := &dto.ChatTokenResponse{
		Token:     token,
		APIKey:    s.apiKey,
		UserId:    user.ExternalId,
		ExpiresIn: int64(chatTokenTTL.Seconds()),
	}
	s.tokenCache.Set(user.ExternalId, resp, cache.DefaultExpiration)
	return resp, nil
}
