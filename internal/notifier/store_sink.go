package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StoreSink сохраняет уведомление в таблицу notifications (inbox пользователя)
type StoreSink struct {
	repo repositories.NotificationRepository
}

func NewStoreSink(repo repositories.NotificationRepository) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Deliver(ctx context.Context, db *gorm.DB, msg Message) error {
	notification, err := NewNotification(msg)
	if err != nil {
		return err
	}
	if err := s.repo.Create(db.WithContext(ctx), notification); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}

// NewNotification собирает строку inbox из сообщения
func NewNotification(msg Message) (*models.Notification, error) {
	severity := msg.Severity
	if severity == "" {
		severity = models.NotificationTypeInfo
	}

	var meta datatypes.JSON
	if len(msg.Meta) > 0 {
		raw, err := json.Marshal(msg.Meta)
		if err != nil {
			return nil, fmt.Errorf("marshal notification meta: %w", err)
		}
		meta = datatypes.JSON(raw)
	}

	notification := &models.Notification{
		UserID:  msg.RecipientID,
		Type:    severity,
		Message: msg.Message,
		Meta:    meta,
	}
	notification.ID = msg.ID
	return notification, nil
}
