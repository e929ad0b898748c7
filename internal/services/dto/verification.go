package dto

import (
	"io"
	"time"

	"jobboard_backend/internal/models"
)

// VerificationState - состояние верификации в ответах API.
// Отсутствие заявки - отдельное значение "unverified", а не pending.
type VerificationState string

const (
	VerificationStateUnverified VerificationState = "unverified"
	VerificationStatePending    VerificationState = "pending"
	VerificationStateApproved   VerificationState = "approved"
	VerificationStateRejected   VerificationState = "rejected"
)

// StateFromStatus переводит статус записи в состояние ответа
func StateFromStatus(status models.VerificationStatus) VerificationState {
	switch status {
	case models.VerificationStatusApproved:
		return VerificationStateApproved
	case models.VerificationStatusRejected:
		return VerificationStateRejected
	default:
		return VerificationStatePending
	}
}

// ---------------- Requests ----------------

// VerificationUpload - загруженный документ (собирается хендлером из multipart)
type VerificationUpload struct {
	Content      io.Reader
	OriginalName string
	MimeType     string
	Size         int64
	DocumentURL  string // внешняя ссылка, опционально
}

type VerificationListFilter struct {
	Status   string `form:"status"`
	Search   string `form:"search" validate:"max=200"`
	Page     int    `form:"-"`
	PageSize int    `form:"-"`
}

type VerificationDecisionRequest struct {
	Status models.VerificationStatus `json:"status" validate:"required,verification_status"`
	Note   string                    `json:"note" validate:"max=2000"`
}

// ---------------- Responses ----------------

type OwnVerificationResponse struct {
	Status                 VerificationState             `json:"status"`
	UserVerificationStatus models.UserVerificationStatus `json:"userVerificationStatus"`
	IsVerified             bool                          `json:"isVerified"`
	Note                   string                        `json:"note"`
	SubmittedAt            *time.Time                    `json:"submittedAt"`
	UpdatedAt              *time.Time                    `json:"updatedAt"`
	DocumentURL            string                        `json:"documentUrl"`
}

type VerificationEmployer struct {
	ID                 string                        `json:"id"`
	Name               string                        `json:"name"`
	Email              string                        `json:"email"`
	IsVerified         *bool                         `json:"isVerified,omitempty"`
	VerificationStatus models.UserVerificationStatus `json:"verificationStatus,omitempty"`
}

type VerificationFile struct {
	Name string `json:"name"`
	Mime string `json:"mime"`
	Size int64  `json:"size"`
}

// VerificationSummary - строка админского списка
type VerificationSummary struct {
	ID          string                    `json:"id"`
	Status      models.VerificationStatus `json:"status"`
	Note        string                    `json:"note"`
	SubmittedAt time.Time                 `json:"submittedAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
	Employer    VerificationEmployer      `json:"employer"`
	File        VerificationFile          `json:"file"`
	DocumentURL string                    `json:"documentUrl"`
}

type VerificationListResponse struct {
	Data     []VerificationSummary `json:"data"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
	Total    int64                 `json:"total"`
}

// VerificationDetailResponse - карточка заявки; employer содержит флаги верификации
type VerificationDetailResponse = VerificationSummary

type VerificationDecisionResponse struct {
	Message string                    `json:"message"`
	Status  models.VerificationStatus `json:"status"`
	Note    string                    `json:"note"`
}

// VerificationDocument - открытый поток документа. Content закрывает вызывающий.
type VerificationDocument struct {
	MimeType string
	FileName string
	Size     int64
	Content  io.ReadCloser
}
