package apperrors

import (
	"net/http"
)

// ErrNotFound - фабрика для ошибки "не найдено" (404).
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrInvalidStatus - фабрика для невалидных статусов (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Verification ---

var ErrVerificationNotFound = New(
	CodeNotFound,
	"verification",
	"Verification not found",
	http.StatusNotFound,
)

// ErrVerificationDocumentMissing - запись есть, но файла в хранилище нет
// (например, удален руками с диска или из бакета).
var ErrVerificationDocumentMissing = New(
	CodeDocumentMissing,
	"verification",
	"Verification document not found",
	http.StatusNotFound,
)

var ErrVerificationDocumentRequired = New(
	CodeValidationFailed,
	"verification",
	"No file uploaded",
	http.StatusBadRequest,
)

// --- Uploads & Files ---

// ErrFileTooLarge - файл превышает максимальный размер
var ErrFileTooLarge = New(
	CodeFileTooLarge,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge, // 413
)

// ErrInvalidFileType - MIME-тип или расширение файла не разрешены
var ErrInvalidFileType = New(
	CodeUnsupportedFile,
	"validation",
	"Only PDF, PNG or JPG files are allowed",
	http.StatusUnsupportedMediaType, // 415
)

// --- Notifications ---

var ErrNotificationNotFound = New(
	CodeNotFound,
	"notification",
	"Notification not found",
	http.StatusNotFound,
)

// --- Auth & Users ---

// ErrEmailAlreadyExists - email уже используется
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict, // 409
)

// ErrInvalidCredentials - неверный email или пароль
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized, // 401
)

// ErrInvalidToken - неверный или просроченный JWT
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized, // 401
)

// ErrInsufficientPermissions - роль не позволяет выполнить действие
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden, // 403
)

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)
