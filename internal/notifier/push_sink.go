package notifier

import (
	"context"
	"time"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/ws"

	"gorm.io/gorm"
)

const EventNotification = "notification"

// Publisher - то, что умеет отправить событие в живые соединения пользователя
type Publisher interface {
	SendToUser(userID string, msg ws.OutgoingMessage) int
}

// Payload - то, что получает клиент в поле data события "notification"
type Payload struct {
	ID        string                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	Meta      map[string]any          `json:"meta,omitempty"`
	IsRead    bool                    `json:"isRead"`
	CreatedAt time.Time               `json:"createdAt"`
}

// PushSink отправляет уведомление в открытые websocket-соединения получателя.
// Если получатель не в сети, сообщение просто пропускается: оно уже лежит в inbox.
type PushSink struct {
	publisher Publisher
	now       func() time.Time
}

func NewPushSink(publisher Publisher) *PushSink {
	return &PushSink{publisher: publisher, now: time.Now}
}

func (s *PushSink) Deliver(ctx context.Context, _ *gorm.DB, msg Message) error {
	severity := msg.Severity
	if severity == "" {
		severity = models.NotificationTypeInfo
	}

	delivered := s.publisher.SendToUser(msg.RecipientID, ws.OutgoingMessage{
		Event: EventNotification,
		Data: Payload{
			ID:        msg.ID,
			Type:      severity,
			Message:   msg.Message,
			Meta:      msg.Meta,
			CreatedAt: s.now().UTC(),
		},
	})
	logger.CtxDebug(ctx, "Notification pushed", "recipient_id", msg.RecipientID, "connections", delivered)
	return nil
}
