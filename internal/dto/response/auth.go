package response

import (
	"time"

	"dcms/internal/data/entity"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserResponse is the public view of a user returned with tokens.
type UserResponse struct {
	ID    string          `json:"id"`
	Email string          `json:"email"`
	Role  entity.UserRole `json:"role"`
}

type AuthResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}

type UserProfileResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Role      entity.UserRole `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Role:  user.Role,
	}
}

func UserToProfileResponse(user *entity.User) UserProfileResponse {
	return UserProfileResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
