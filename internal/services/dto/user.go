package dto

import (
	"time"

	"jobboard_backend/internal/models"
)

// UserResponse - данные пользователя для /users/me и ответов auth
type UserResponse struct {
	ID                 string                        `json:"id"`
	Name               string                        `json:"name"`
	Email              string                        `json:"email"`
	Role               models.UserRole               `json:"role"`
	VerificationStatus models.UserVerificationStatus `json:"verificationStatus"`
	IsVerified         bool                          `json:"isVerified"`
	Headline           string                        `json:"headline,omitempty"`
	Phone              string                        `json:"phone,omitempty"`
	Region             string                        `json:"region,omitempty"`
	City               string                        `json:"city,omitempty"`
	Location           string                        `json:"location,omitempty"`
	Bio                string                        `json:"bio,omitempty"`
	Website            string                        `json:"website,omitempty"`
	CreatedAt          time.Time                     `json:"createdAt"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Role:               u.Role,
		VerificationStatus: u.VerificationStatus,
		IsVerified:         u.IsVerified,
		Headline:           u.Headline,
		Phone:              u.Phone,
		Region:             u.Region,
		City:               u.City,
		Location:           u.Location,
		Bio:                u.Bio,
		Website:            u.Website,
		CreatedAt:          u.CreatedAt,
	}
}

// UpdateProfileRequest - частичное обновление; verification-поля сюда не входят
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	Headline *string `json:"headline" validate:"omitempty,max=140"`
	Phone    *string `json:"phone" validate:"omitempty,max=40"`
	Region   *string `json:"region" validate:"omitempty,max=120"`
	City     *string `json:"city" validate:"omitempty,max=120"`
	Location *string `json:"location" validate:"omitempty,max=120"`
	Bio      *string `json:"bio" validate:"omitempty,max=5000"`
	Website  *string `json:"website" validate:"omitempty,url,max=255"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}
