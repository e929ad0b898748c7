package routes

import (
	"jobboard_backend/internal/handlers"
	"jobboard_backend/internal/logger"
	"jobboard_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	base *handlers.BaseHandler,
	wsHandler *ws.Handler,
) {
	appHandlers.HealthHandler.RegisterRoutes(ginRouter)

	// HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.VerificationHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
	}

	// WebSocket (токен из заголовка или ?token=)
	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(base.RequireAuth())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Debug("Routes registered")
}
