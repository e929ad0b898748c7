package services

import (
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/notifier"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	VerificationService VerificationService
	NotificationService NotificationService
}

// NewServiceContainer собирает сервисы поверх общих репозиториев
func NewServiceContainer(tokens *auth.TokenManager, store storage.Storage, sink notifier.Sink) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	verificationRepo := repositories.NewVerificationRepository()
	notificationRepo := repositories.NewNotificationRepository()

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo, tokens),
		UserService:         NewUserService(userRepo),
		VerificationService: NewVerificationService(verificationRepo, userRepo, store, sink),
		NotificationService: NewNotificationService(notificationRepo, userRepo, sink),
	}
}
