package services

import (
	"context"
	"errors"
	"strings"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetMe(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) GetMe(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db.WithContext(ctx), userID)
	if err != nil {
		return nil, handleUserRepoError(err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateProfile меняет только поля профиля; поля верификации не трогаются
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.ValidationError(map[string]string{"name": "This field is required"})
	}

	err := s.userRepo.UpdateProfile(db.WithContext(ctx), userID, repositories.UserProfileUpdate{
		Name:     req.Name,
		Headline: req.Headline,
		Phone:    req.Phone,
		Region:   req.Region,
		City:     req.City,
		Location: req.Location,
		Bio:      req.Bio,
		Website:  req.Website,
	})
	if err != nil {
		return nil, handleUserRepoError(err)
	}
	return s.GetMe(ctx, db, userID)
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(db.WithContext(ctx), userID)
	if err != nil {
		return handleUserRepoError(err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return apperrors.ValidationError(map[string]string{"newPassword": err.Error()})
		}
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePassword(db.WithContext(ctx), userID, hash); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func handleUserRepoError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.InternalError(err)
}
