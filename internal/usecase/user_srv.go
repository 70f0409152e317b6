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

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserProfileResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserProfileResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapError(KindInternal, "Failed to get profile", err)
	}
	if user == nil {
		return nil, newError(KindNotFound, "User not found")
	}

	profile := response.UserToProfileResponse(user)
	return &profile, nil
}

func (us *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		us.log.Warn("Change password validation failed", zap.Any("errors", errs))
		return newError(KindBadRequest, "validation failed: "+utils.FormatValidationErrors(errs))
	}

	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return wrapError(KindInternal, "Failed to change password", err)
	}
	if user == nil {
		return newError(KindNotFound, "User not found")
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		us.log.Warn("Invalid current password", zap.String("user_id", userID.String()))
		return newError(KindBadRequest, "Invalid current password")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return passwordHashError(us.log, err)
	}

	if err := us.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return wrapError(KindInternal, "Failed to change password", err)
	}

	us.log.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}
