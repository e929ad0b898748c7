package services_test

import (
	"context"
	"net/http"
	"testing"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/notifier"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/internal/testhelpers"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationService() services.NotificationService {
	repo := repositories.NewNotificationRepository()
	return services.NewNotificationService(repo, repositories.NewUserRepository(), notifier.NewStoreSink(repo))
}

func TestNotificationService_Inbox(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := newNotificationService()
	ctx := context.Background()

	user := testhelpers.CreateEmployer(t, db, "Acme Corp")
	other := testhelpers.CreateEmployer(t, db, "Globex")

	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, svc.SendNotification(ctx, db, &dto.SendNotificationRequest{
			UserID:  user.ID,
			Message: text,
			Meta:    map[string]any{"source": "test"},
		}))
	}
	require.NoError(t, svc.SendNotification(ctx, db, &dto.SendNotificationRequest{
		UserID: other.ID, Type: models.NotificationTypeWarning, Message: "not yours",
	}))

	list, err := svc.GetUserNotifications(ctx, db, user.ID, dto.NotificationListFilter{})
	require.NoError(t, err)
	require.Len(t, list.Data, 3)
	assert.Equal(t, int64(3), list.UnreadCount)
	assert.Equal(t, models.NotificationTypeInfo, list.Data[0].Type)
	assert.Equal(t, "test", list.Data[0].Meta["source"])

	first := list.Data[0].ID
	require.NoError(t, svc.MarkAsRead(ctx, db, user.ID, first))
	// повторная отметка не ошибка
	require.NoError(t, svc.MarkAsRead(ctx, db, user.ID, first))

	count, err := svc.GetUnreadCount(ctx, db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	unread, err := svc.GetUserNotifications(ctx, db, user.ID, dto.NotificationListFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread.Data, 2)

	// Чужое уведомление недоступно
	othersList, err := svc.GetUserNotifications(ctx, db, other.ID, dto.NotificationListFilter{})
	require.NoError(t, err)
	require.Len(t, othersList.Data, 1)
	err = svc.MarkAsRead(ctx, db, user.ID, othersList.Data[0].ID)
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
	err = svc.DeleteNotification(ctx, db, user.ID, othersList.Data[0].ID)
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))

	updated, err := svc.MarkAllAsRead(ctx, db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	require.NoError(t, svc.DeleteNotification(ctx, db, user.ID, first))
	list, err = svc.GetUserNotifications(ctx, db, user.ID, dto.NotificationListFilter{})
	require.NoError(t, err)
	assert.Len(t, list.Data, 2)
	assert.Zero(t, list.UnreadCount)
}

func TestNotificationService_SendToUnknownUser(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := newNotificationService()

	err := svc.SendNotification(context.Background(), db, &dto.SendNotificationRequest{
		UserID: "missing", Message: "hello",
	})
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}
