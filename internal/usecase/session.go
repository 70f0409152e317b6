package usecase

import (
	"context"

	"dcms/internal/data/entity"
	"dcms/internal/data/repository"
	"dcms/internal/dto/response"
	"dcms/pkg/jwt"
	"dcms/pkg/utils"

	"go.uber.org/zap"
)

// TokenIssuer signs and verifies access/refresh token pairs.
type TokenIssuer interface {
	Issue(ctx context.Context, userID, email, role string) (*jwt.Pair, error)
	ParseAccess(token string) (*jwt.Claims, error)
	ParseRefresh(token string) (*jwt.Claims, error)
}

// sessionIssuer issues a token pair and records the refresh token hash on the
// user, replacing any previous one.
type sessionIssuer struct {
	users  repository.UserRepository
	tokens TokenIssuer
	log    *zap.Logger
}

func (s *sessionIssuer) start(ctx context.Context, user *entity.User) (*response.TokenResponse, error) {
	pair, err := s.tokens.Issue(ctx, user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		s.log.Error("Failed to sign tokens", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, wrapError(KindInternal, "Failed to issue tokens", err)
	}

	hash, err := utils.HashToken(pair.RefreshToken)
	if err != nil {
		s.log.Error("Failed to hash refresh token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, wrapError(KindInternal, "Failed to issue tokens", err)
	}

	if err := s.users.UpdateRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		return nil, wrapError(KindInternal, "Failed to store session", err)
	}

	return &response.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
