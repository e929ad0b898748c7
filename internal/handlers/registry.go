package handlers

import (
	"jobboard_backend/internal/services"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	VerificationHandler *VerificationHandler
	NotificationHandler *NotificationHandler
	HealthHandler       *HealthHandler
}

func NewAppHandlers(base *BaseHandler, svc *services.ServiceContainer, policy DocumentPolicy) *AppHandlers {
	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, svc.AuthService),
		UserHandler:         NewUserHandler(base, svc.UserService),
		VerificationHandler: NewVerificationHandler(base, svc.VerificationService, policy),
		NotificationHandler: NewNotificationHandler(base, svc.NotificationService),
		HealthHandler:       NewHealthHandler(base),
	}
}
