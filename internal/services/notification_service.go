package services

import (
	"context"
	"errors"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/notifier"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	GetUserNotifications(ctx context.Context, db *gorm.DB, userID string, filter dto.NotificationListFilter) (*dto.NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	MarkAsRead(ctx context.Context, db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	DeleteNotification(ctx context.Context, db *gorm.DB, userID, notificationID string) error

	// Admin
	SendNotification(ctx context.Context, db *gorm.DB, req *dto.SendNotificationRequest) error
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	sink             notifier.Sink
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	sink notifier.Sink,
) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		sink:             sink,
	}
}

func (s *NotificationServiceImpl) GetUserNotifications(ctx context.Context, db *gorm.DB, userID string, filter dto.NotificationListFilter) (*dto.NotificationListResponse, error) {
	page, pageSize := dto.NormalizePage(filter.Page, filter.PageSize)
	tx := db.WithContext(ctx)

	notifications, total, err := s.notificationRepo.FindUserNotifications(tx, userID, repositories.NotificationCriteria{
		UnreadOnly: filter.UnreadOnly,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(tx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	data := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		data = append(data, dto.NewNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Data:        data,
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
		UnreadCount: unread,
	}, nil
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(db.WithContext(ctx), userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, db *gorm.DB, userID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(db.WithContext(ctx), userID, notificationID); err != nil {
		return handleNotificationRepoError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	updated, err := s.notificationRepo.MarkAllAsRead(db.WithContext(ctx), userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return updated, nil
}

func (s *NotificationServiceImpl) DeleteNotification(ctx context.Context, db *gorm.DB, userID, notificationID string) error {
	if err := s.notificationRepo.Delete(db.WithContext(ctx), userID, notificationID); err != nil {
		return handleNotificationRepoError(err)
	}
	return nil
}

// SendNotification - ручное уведомление от админа. Проверяется только получатель,
// доставка идет тем же best-effort путем, что и служебные уведомления.
func (s *NotificationServiceImpl) SendNotification(ctx context.Context, db *gorm.DB, req *dto.SendNotificationRequest) error {
	if _, err := s.userRepo.FindByID(db.WithContext(ctx), req.UserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	severity := req.Type
	if severity == "" {
		severity = models.NotificationTypeInfo
	}

	notifier.DeliverBestEffort(ctx, s.sink, db, notifier.Message{
		RecipientID: req.UserID,
		Severity:    severity,
		Message:     req.Message,
		Meta:        req.Meta,
	})
	return nil
}

func handleNotificationRepoError(err error) error {
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.ErrNotificationNotFound
	}
	return apperrors.InternalError(err)
}
