package notifier

import (
	"context"
	"fmt"

	"jobboard_backend/internal/email"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"

	"gorm.io/gorm"
)

// Enqueuer - асинхронная очередь писем (email.Dispatcher)
type Enqueuer interface {
	Enqueue(email *email.Email) error
}

// EmailSink дублирует уведомление письмом на адрес получателя
type EmailSink struct {
	userRepo    repositories.UserRepository
	queue       Enqueuer
	templates   *email.TemplateManager
	companyName string
	actionURL   string
}

// NewEmailSink: clientURL попадает в письмо ссылкой на кабинет (может быть пустым)
func NewEmailSink(userRepo repositories.UserRepository, queue Enqueuer, templates *email.TemplateManager, companyName, clientURL string) *EmailSink {
	return &EmailSink{
		userRepo:    userRepo,
		queue:       queue,
		templates:   templates,
		companyName: companyName,
		actionURL:   clientURL,
	}
}

func (s *EmailSink) Deliver(ctx context.Context, db *gorm.DB, msg Message) error {
	user, err := s.userRepo.FindByID(db.WithContext(ctx), msg.RecipientID)
	if err != nil {
		return fmt.Errorf("email sink: load recipient: %w", err)
	}

	html, err := s.templates.Render("notification", email.TemplateData{
		"UserName":    user.Name,
		"Message":     msg.Message,
		"ActionURL":   s.actionURL,
		"ActionText":  "Open dashboard",
		"CompanyName": s.companyName,
	})
	if err != nil {
		return fmt.Errorf("email sink: render: %w", err)
	}

	if err := s.queue.Enqueue(&email.Email{
		To:       []string{user.Email},
		Subject:  s.companyName + ": " + subjectFor(msg),
		Body:     msg.Message,
		HTMLBody: html,
	}); err != nil {
		return fmt.Errorf("email sink: enqueue: %w", err)
	}
	return nil
}

func subjectFor(msg Message) string {
	switch msg.Severity {
	case models.NotificationTypeSuccess:
		return "Good news"
	case models.NotificationTypeWarning, models.NotificationTypeError:
		return "Action required"
	default:
		return "New notification"
	}
}
