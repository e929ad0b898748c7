package workers

import (
	"context"
	"time"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/repositories"

	"gorm.io/gorm"
)

const cleanupWorkerName = "notification_cleanup"

// NotificationCleanupWorker удаляет прочитанные уведомления старше retention
type NotificationCleanupWorker struct {
	db        *gorm.DB
	repo      repositories.NotificationRepository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

func NewNotificationCleanupWorker(db *gorm.DB, repo repositories.NotificationRepository, retention, interval time.Duration) *NotificationCleanupWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &NotificationCleanupWorker{
		db:        db,
		repo:      repo,
		retention: retention,
		interval:  interval,
		now:       time.Now,
	}
}

// Run блокирует до отмены ctx; первый проход сразу при старте
func (w *NotificationCleanupWorker) Run(ctx context.Context) {
	if w.retention <= 0 {
		logger.WorkerLog(cleanupWorkerName, "disabled", nil)
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog(cleanupWorkerName, "stop", nil)
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce - один проход очистки, возвращает число удаленных строк
func (w *NotificationCleanupWorker) RunOnce(ctx context.Context) int64 {
	cutoff := w.now().Add(-w.retention)
	deleted, err := w.repo.DeleteReadOlderThan(w.db.WithContext(ctx), cutoff)
	if err != nil {
		logger.WorkerLog(cleanupWorkerName, "delete", err, "cutoff", cutoff)
		return 0
	}
	if deleted > 0 {
		logger.WorkerLog(cleanupWorkerName, "delete", nil, "deleted", deleted, "cutoff", cutoff)
	}
	return deleted
}
