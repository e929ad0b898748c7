package apperrors

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

var debugMode atomic.Bool

// SetDebug включает вывод внутренних сообщений 5xx ошибок (только для development)
func SetDebug(enabled bool) {
	debugMode.Store(enabled)
}

// HandleError рендерит ошибку в формате {"error": {...}} и прерывает цепочку gin
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "server error",
			"code", appErr.Code,
			"path", c.Request.URL.Path,
			"error", appErr.Error(),
		)
		if !debugMode.Load() {
			// В продакшене детали не отдаем
			cp := *appErr
			cp.Message = "Internal server error"
			cp.Details = nil
			appErr = &cp
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}
