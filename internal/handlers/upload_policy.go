package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"jobboard_backend/internal/imageprocessor"
	"jobboard_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
)

// DocumentPolicy - ограничения на документ верификации
type DocumentPolicy struct {
	MaxSize      int64
	AllowedTypes []string                  // MIME после сниффинга
	Images       *imageprocessor.Processor // nil - сканы не проверяются
}

var documentExtensions = []string{".pdf", ".png", ".jpg", ".jpeg"}

func DefaultDocumentPolicy() DocumentPolicy {
	return DocumentPolicy{
		MaxSize:      8 << 20,
		AllowedTypes: []string{"application/pdf", "image/png", "image/jpeg"},
	}
}

// openDocument проверяет размер, расширение и реальный тип файла.
// Возвращает открытый файл (позиция в начале) и MIME по содержимому.
func (p DocumentPolicy) openDocument(header *multipart.FileHeader) (multipart.File, string, error) {
	if header.Size <= 0 {
		return nil, "", apperrors.ErrVerificationDocumentRequired
	}
	if p.MaxSize > 0 && header.Size > p.MaxSize {
		return nil, "", apperrors.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(documentExtensions, ext) {
		return nil, "", apperrors.ErrInvalidFileType
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		file.Close()
		return nil, "", apperrors.InternalError(err)
	}
	if !p.allowed(mtype) {
		file.Close()
		return nil, "", apperrors.ErrInvalidFileType.WithDetails(map[string]string{"detected": mtype.String()})
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, "", apperrors.InternalError(err)
	}

	// "image/jpeg" без параметров
	base := strings.SplitN(mtype.String(), ";", 2)[0]
	return file, base, nil
}

// normalizeImage декодирует скан и при необходимости уменьшает его.
// PDF и прочие типы возвращаются как есть.
func (p DocumentPolicy) normalizeImage(file io.Reader, mimeType string, size int64) (io.Reader, int64, error) {
	if p.Images == nil || !strings.HasPrefix(mimeType, "image/") {
		return file, size, nil
	}

	img, err := p.Images.Normalize(file)
	if err != nil {
		if errors.Is(err, imageprocessor.ErrInvalidImage) {
			return nil, 0, apperrors.ErrInvalidFileType.WithDetails(map[string]string{"document": "Image is corrupted or too large"})
		}
		return nil, 0, apperrors.InternalError(err)
	}
	return bytes.NewReader(img.Content), int64(len(img.Content)), nil
}

func (p DocumentPolicy) allowed(mtype *mimetype.MIME) bool {
	for _, t := range p.AllowedTypes {
		if mtype.Is(t) {
			return true
		}
	}
	return false
}

// isBodyTooLarge - тело обрезано http.MaxBytesReader
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
