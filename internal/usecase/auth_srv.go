package usecase

import (
	"context"

	"dcms/internal/data/repository"
	"dcms/internal/dto/request"
	"dcms/internal/dto/response"
	"dcms/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Refresh(ctx context.Context, userID uuid.UUID, refreshToken string) (*response.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	users   repository.UserRepository
	session *sessionIssuer
	log     *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens TokenIssuer,
	log *zap.Logger,
) AuthService {
	log = log.With(zap.String("service", "auth"))
	return &authService{
		users:   users,
		session: &sessionIssuer{users: users, tokens: tokens, log: log},
		log:     log,
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validasi
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, newError(KindBadRequest, "validation failed: "+utils.FormatValidationErrors(errs))
	}

	// 2. Find user
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, wrapError(KindInternal, "Failed to find user", err)
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", req.Email))
		return nil, newError(KindUnauthorized, "Invalid credentials")
	}

	// 3. Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, newError(KindUnauthorized, "Invalid credentials")
	}

	// 4. New session replaces any previous refresh token
	tokens, err := s.session.start(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return &response.AuthResponse{
		TokenResponse: *tokens,
		User:          response.UserToResponse(user),
	}, nil
}

// Refresh rotates the session: the presented refresh token must match the
// stored hash and is invalid afterwards.
func (s *authService) Refresh(ctx context.Context, userID uuid.UUID, refreshToken string) (*response.TokenResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapError(KindInternal, "Failed to find user", err)
	}
	if user == nil || user.RefreshTokenHash == nil {
		s.log.Warn("Refresh without active session", zap.String("user_id", userID.String()))
		return nil, newError(KindUnauthorized, "Access Denied")
	}

	if !utils.CheckTokenHash(refreshToken, *user.RefreshTokenHash) {
		s.log.Warn("Refresh token mismatch", zap.String("user_id", userID.String()))
		return nil, newError(KindUnauthorized, "Access Denied")
	}

	tokens, err := s.session.start(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("Tokens refreshed", zap.String("user_id", userID.String()))
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.UpdateRefreshTokenHash(ctx, userID, nil); err != nil {
		return wrapError(KindInternal, "Failed to logout", err)
	}

	s.log.Info("User logged out", zap.String("user_id", userID.String()))
	return nil
}
