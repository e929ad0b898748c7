package notifier

import (
	"context"
	"errors"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message - уведомление для одного получателя
type Message struct {
	// ID общий для всех каналов: по нему клиент из websocket находит запись в inbox
	ID          string
	RecipientID string
	Severity    models.NotificationType
	Message     string
	Meta        map[string]any
}

// Sink доставляет уведомление по одному каналу (inbox, websocket, email)
type Sink interface {
	Deliver(ctx context.Context, db *gorm.DB, msg Message) error
}

// SinkFunc позволяет использовать функцию как Sink
type SinkFunc func(ctx context.Context, db *gorm.DB, msg Message) error

func (f SinkFunc) Deliver(ctx context.Context, db *gorm.DB, msg Message) error {
	return f(ctx, db, msg)
}

// Fanout отправляет сообщение во все каналы по порядку.
// Ошибка одного канала не мешает остальным; ошибки собираются через errors.Join.
type Fanout []Sink

func (f Fanout) Deliver(ctx context.Context, db *gorm.DB, msg Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Deliver(ctx, db, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DeliverBestEffort доставляет сообщение и только логирует ошибку.
// Повторных попыток нет.
func DeliverBestEffort(ctx context.Context, sink Sink, db *gorm.DB, msg Message) {
	if sink == nil {
		return
	}
	if err := sink.Deliver(ctx, db, msg); err != nil {
		logger.CtxWithError(ctx, "Notification delivery failed", err,
			"recipient_id", msg.RecipientID,
			"severity", msg.Severity,
		)
	}
}
