package middleware

import (
	"strings"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/pkg/apperrors"
	"jobboard_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// AuthMiddleware - middleware проверки JWT.
// Браузер не умеет ставить заголовки при открытии WebSocket, поэтому для
// upgrade-запросов токен принимается и из ?token=.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" && websocket.IsWebSocketUpgrade(c.Request) {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		claims, err := tokens.ParseToken(tokenStr)
		if err != nil {
			logger.CtxDebug(c.Request.Context(), "Token rejected", "error", err)
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		// Сохраняем claims в контекст
		c.Set(string(contextkeys.UserIDKey), claims.UserID)
		c.Set(string(contextkeys.RoleKey), claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// RequireRoles - пропускает только перечисленные роли
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: no role"))
			return
		}
		if !roleSet[role] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// RequirePermission - проверка через таблицу разрешений auth.Permissions
func RequirePermission(permission auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok || !auth.HasPermission(role, permission) {
			logger.CtxWarn(c.Request.Context(), "Permission denied",
				"permission", permission, "role", role, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(string(contextkeys.UserIDKey))
}

func GetRole(c *gin.Context) (models.UserRole, bool) {
	val, exists := c.Get(string(contextkeys.RoleKey))
	if !exists {
		return "", false
	}
	switch role := val.(type) {
	case models.UserRole:
		return role, true
	case string:
		return models.UserRole(role), true
	}
	return "", false
}
