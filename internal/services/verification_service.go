package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/notifier"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/internal/storage"
	"jobboard_backend/pkg/apperrors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const maxVerificationNoteLength = 2000

type VerificationService interface {
	// Employer
	GetOwnVerification(ctx context.Context, db *gorm.DB, employerID string) (*dto.OwnVerificationResponse, error)
	SubmitOrReplace(ctx context.Context, db *gorm.DB, employerID string, upload *dto.VerificationUpload) error

	// Admin
	AdminListVerifications(ctx context.Context, db *gorm.DB, filter dto.VerificationListFilter) (*dto.VerificationListResponse, error)
	AdminGetVerification(ctx context.Context, db *gorm.DB, id string) (*dto.VerificationDetailResponse, error)
	AdminOpenDocument(ctx context.Context, db *gorm.DB, id string) (*dto.VerificationDocument, error)
	AdminDecide(ctx context.Context, db *gorm.DB, id string, status models.VerificationStatus, note string) (*dto.VerificationDecisionResponse, error)
}

type VerificationServiceImpl struct {
	verificationRepo repositories.VerificationRepository
	userRepo         repositories.UserRepository
	storage          storage.Storage
	sink             notifier.Sink
	now              func() time.Time
}

func NewVerificationService(
	verificationRepo repositories.VerificationRepository,
	userRepo repositories.UserRepository,
	store storage.Storage,
	sink notifier.Sink,
) VerificationService {
	return &VerificationServiceImpl{
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
		storage:          store,
		sink:             sink,
		now:              time.Now,
	}
}

// ---------------- Employer ----------------

func (s *VerificationServiceImpl) GetOwnVerification(ctx context.Context, db *gorm.DB, employerID string) (*dto.OwnVerificationResponse, error) {
	var (
		record *models.EmployerVerification
		user   *models.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.verificationRepo.FindByEmployer(db.WithContext(gctx), employerID)
		if err != nil && !errors.Is(err, repositories.ErrVerificationNotFound) {
			return err
		}
		record = v
		return nil
	})
	g.Go(func() error {
		u, err := s.userRepo.FindByID(db.WithContext(gctx), employerID)
		if err != nil {
			return err
		}
		user = u
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.OwnVerificationResponse{
		Status:                 dto.VerificationStateUnverified,
		UserVerificationStatus: user.VerificationStatus,
		IsVerified:             user.IsVerified,
	}
	if record == nil {
		return resp, nil
	}

	resp.Status = dto.StateFromStatus(record.Status)
	resp.Note = record.Note
	resp.SubmittedAt = &record.SubmittedAt
	resp.UpdatedAt = &record.UpdatedAt
	resp.DocumentURL = s.documentURL(ctx, record)
	return resp, nil
}

func (s *VerificationServiceImpl) SubmitOrReplace(ctx context.Context, db *gorm.DB, employerID string, upload *dto.VerificationUpload) error {
	if upload == nil || upload.Content == nil || upload.Size <= 0 {
		return apperrors.ErrVerificationDocumentRequired
	}

	now := s.now().UTC()
	key := storage.VerificationDocumentKey(employerID, upload.OriginalName, now)

	// Файл кладем до транзакции: хранилище не участвует в транзакции БД
	if err := s.storage.Save(ctx, key, upload.Content, upload.MimeType); err != nil {
		return apperrors.InternalError(fmt.Errorf("store verification document: %w", err))
	}

	var previousKey string
	err := repositories.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		previous, err := s.verificationRepo.FindByEmployer(tx, employerID)
		switch {
		case err == nil:
			previousKey = previous.StorageKey
		case errors.Is(err, repositories.ErrVerificationNotFound):
		default:
			return err
		}

		record := &models.EmployerVerification{
			EmployerID:   employerID,
			Status:       models.VerificationStatusPending,
			Note:         "",
			StorageKey:   key,
			OriginalName: upload.OriginalName,
			MimeType:     upload.MimeType,
			SizeBytes:    upload.Size,
			DocumentURL:  strings.TrimSpace(upload.DocumentURL),
			SubmittedAt:  now,
		}
		if err := s.verificationRepo.Upsert(tx, record); err != nil {
			return err
		}

		return s.userRepo.SyncVerification(tx, employerID, MapVerificationStatus(models.VerificationStatusPending))
	})
	if err != nil {
		s.releaseDocument(ctx, key)
		return apperrors.InternalError(fmt.Errorf("save verification: %w", err))
	}

	if previousKey != "" && previousKey != key {
		s.releaseDocument(ctx, previousKey)
	}

	notifier.DeliverBestEffort(ctx, s.sink, db, notifier.Message{
		RecipientID: employerID,
		Severity:    models.NotificationTypeInfo,
		Message:     "Your verification document was submitted and is pending review.",
		Meta:        map[string]any{"action": "verification_upload"},
	})

	logger.CtxInfo(ctx, "Verification document submitted", "employer_id", employerID, "size", upload.Size)
	return nil
}

// ---------------- Admin ----------------

func (s *VerificationServiceImpl) AdminListVerifications(ctx context.Context, db *gorm.DB, filter dto.VerificationListFilter) (*dto.VerificationListResponse, error) {
	page, pageSize := dto.NormalizePage(filter.Page, filter.PageSize)

	// Невалидный статус = фильтра нет
	status := models.VerificationStatus(strings.TrimSpace(filter.Status))
	if !status.IsValid() {
		status = ""
	}

	records, total, err := s.verificationRepo.List(db.WithContext(ctx), repositories.VerificationListCriteria{
		Status:   status,
		Search:   filter.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	data := make([]dto.VerificationSummary, 0, len(records))
	for i := range records {
		data = append(data, buildVerificationSummary(&records[i], false))
	}

	return &dto.VerificationListResponse{
		Data:     data,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (s *VerificationServiceImpl) AdminGetVerification(ctx context.Context, db *gorm.DB, id string) (*dto.VerificationDetailResponse, error) {
	record, err := s.verificationRepo.FindByIDWithEmployer(db.WithContext(ctx), id)
	if err != nil {
		return nil, handleVerificationRepoError(err)
	}

	detail := buildVerificationSummary(record, true)
	return &detail, nil
}

func (s *VerificationServiceImpl) AdminOpenDocument(ctx context.Context, db *gorm.DB, id string) (*dto.VerificationDocument, error) {
	record, err := s.verificationRepo.FindByID(db.WithContext(ctx), id)
	if err != nil {
		return nil, handleVerificationRepoError(err)
	}
	if record.StorageKey == "" {
		return nil, apperrors.ErrVerificationDocumentMissing
	}

	content, err := s.storage.Get(ctx, record.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logger.CtxWarn(ctx, "Verification document missing in storage",
				"verification_id", id, "storage_key", record.StorageKey)
			return nil, apperrors.ErrVerificationDocumentMissing.WithError(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.VerificationDocument{
		MimeType: record.MimeType,
		FileName: record.OriginalName,
		Size:     record.SizeBytes,
		Content:  content,
	}, nil
}

func (s *VerificationServiceImpl) AdminDecide(ctx context.Context, db *gorm.DB, id string, status models.VerificationStatus, note string) (*dto.VerificationDecisionResponse, error) {
	if !status.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{
			"status": "Must be one of: pending, approved, rejected",
		})
	}
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) > maxVerificationNoteLength {
		return nil, apperrors.ValidationError(map[string]string{
			"note": fmt.Sprintf("Must be at most %d characters long", maxVerificationNoteLength),
		})
	}

	// Параллельные решения по одной заявке: побеждает последняя запись
	var employerID string
	err := repositories.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		record, err := s.verificationRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		employerID = record.EmployerID

		if err := s.verificationRepo.UpdateDecision(tx, id, status, note); err != nil {
			return err
		}
		return s.userRepo.SyncVerification(tx, record.EmployerID, MapVerificationStatus(status))
	})
	if err != nil {
		return nil, handleVerificationRepoError(err)
	}

	severity, message := decisionNotification(status, note)
	notifier.DeliverBestEffort(ctx, s.sink, db, notifier.Message{
		RecipientID: employerID,
		Severity:    severity,
		Message:     message,
		Meta: map[string]any{
			"verificationId": id,
			"decision":       string(status),
			"note":           note,
		},
	})

	logger.CtxInfo(ctx, "Verification decision applied",
		"verification_id", id, "employer_id", employerID, "status", status)

	return &dto.VerificationDecisionResponse{
		Message: "Updated",
		Status:  status,
		Note:    note,
	}, nil
}

// ---------------- Helpers ----------------

func decisionNotification(status models.VerificationStatus, note string) (models.NotificationType, string) {
	switch status {
	case models.VerificationStatusApproved:
		return models.NotificationTypeSuccess, "Your employer verification has been approved."
	case models.VerificationStatusRejected:
		if note != "" {
			return models.NotificationTypeWarning, "Your employer verification was rejected: " + note
		}
		return models.NotificationTypeWarning, "Your employer verification was rejected."
	default:
		return models.NotificationTypeInfo, "Your employer verification is pending review."
	}
}

// documentURLTTL - срок жизни подписанной ссылки на скан в приватном бакете
const documentURLTTL = 15 * time.Minute

// documentURL: внешняя ссылка работодателя важнее, иначе подписанный URL из хранилища
func (s *VerificationServiceImpl) documentURL(ctx context.Context, record *models.EmployerVerification) string {
	if record.DocumentURL != "" {
		return record.DocumentURL
	}
	if record.StorageKey == "" {
		return ""
	}
	url, err := s.storage.GetSignedURL(ctx, record.StorageKey, documentURLTTL)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to build document URL", "storage_key", record.StorageKey, "error", err)
		return ""
	}
	return url
}

// releaseDocument удаляет файл без возврата ошибки: сирота в хранилище допустима
func (s *VerificationServiceImpl) releaseDocument(ctx context.Context, key string) {
	err := s.storage.Delete(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		logger.CtxDebug(ctx, "Verification document already gone", "storage_key", key)
	default:
		logger.CtxWithError(ctx, "Failed to release verification document", err, "storage_key", key)
	}
}

func buildVerificationSummary(v *models.EmployerVerification, withFlags bool) dto.VerificationSummary {
	summary := dto.VerificationSummary{
		ID:          v.ID,
		Status:      v.Status,
		Note:        v.Note,
		SubmittedAt: v.SubmittedAt,
		UpdatedAt:   v.UpdatedAt,
		Employer:    dto.VerificationEmployer{ID: v.EmployerID},
		File: dto.VerificationFile{
			Name: v.OriginalName,
			Mime: v.MimeType,
			Size: v.SizeBytes,
		},
		DocumentURL: v.DocumentURL,
	}

	if v.Employer != nil {
		summary.Employer.Name = v.Employer.Name
		summary.Employer.Email = v.Employer.Email
		if withFlags {
			isVerified := v.Employer.IsVerified
			summary.Employer.IsVerified = &isVerified
			summary.Employer.VerificationStatus = v.Employer.VerificationStatus
		}
	}
	return summary
}

func handleVerificationRepoError(err error) error {
	if errors.Is(err, repositories.ErrVerificationNotFound) {
		return apperrors.ErrVerificationNotFound
	}
	return apperrors.InternalError(err)
}
