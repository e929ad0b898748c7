package dto

import (
	"encoding/json"
	"time"

	"jobboard_backend/internal/models"
)

// ---------------- Requests ----------------

type NotificationListFilter struct {
	UnreadOnly bool `form:"unread"`
	Page       int  `form:"-"`
	PageSize   int  `form:"-"`
}

// SendNotificationRequest - ручная отправка уведомления админом
type SendNotificationRequest struct {
	UserID  string                  `json:"userId" validate:"required"`
	Type    models.NotificationType `json:"type" validate:"notification_type"`
	Message string                  `json:"message" validate:"required,max=1000"`
	Meta    map[string]any          `json:"meta"`
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	Meta      map[string]any          `json:"meta,omitempty"`
	IsRead    bool                    `json:"isRead"`
	ReadAt    *time.Time              `json:"readAt,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

func NewNotificationResponse(n *models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Meta) > 0 {
		// битый meta не должен ломать ленту
		_ = json.Unmarshal(n.Meta, &resp.Meta)
	}
	return resp
}

type NotificationListResponse struct {
	Data        []NotificationResponse `json:"data"`
	Page        int                    `json:"page"`
	PageSize    int                    `json:"pageSize"`
	Total       int64                  `json:"total"`
	UnreadCount int64                  `json:"unreadCount"`
}
