package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"jobboard_backend/internal/notifier"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/internal/storage"
	"jobboard_backend/internal/testhelpers"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingSink запоминает все доставленные сообщения
type recordingSink struct {
	mu       sync.Mutex
	messages []notifier.Message
	err      error
}

func (s *recordingSink) Deliver(_ context.Context, _ *gorm.DB, msg notifier.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return s.err
}

func (s *recordingSink) Messages() []notifier.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notifier.Message(nil), s.messages...)
}

func (s *recordingSink) Last(t *testing.T) notifier.Message {
	t.Helper()
	msgs := s.Messages()
	require.NotEmpty(t, msgs, "Ожидалось хотя бы одно уведомление")
	return msgs[len(msgs)-1]
}

type verificationFixture struct {
	ctx     context.Context
	db      *gorm.DB
	dir     string
	store   storage.Storage
	sink    *recordingSink
	service services.VerificationService
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(storage.Config{BasePath: dir, BaseURL: "http://files.test"})
	require.NoError(t, err)

	sink := &recordingSink{}
	return &verificationFixture{
		ctx:   context.Background(),
		db:    testhelpers.NewTestDB(t),
		dir:   dir,
		store: store,
		sink:  sink,
		service: services.NewVerificationService(
			repositories.NewVerificationRepository(),
			repositories.NewUserRepository(),
			store,
			sink,
		),
	}
}

func pdfUpload(content string) *dto.VerificationUpload {
	return &dto.VerificationUpload{
		Content:      strings.NewReader(content),
		OriginalName: "business license.pdf",
		MimeType:     "application/pdf",
		Size:         int64(len(content)),
	}
}

// submit загружает документ и возвращает id заявки
func (f *verificationFixture) submit(t *testing.T, employerID, content string) string {
	t.Helper()
	require.NoError(t, f.service.SubmitOrReplace(f.ctx, f.db, employerID, pdfUpload(content)))

	record, err := repositories.NewVerificationRepository().FindByEmployer(f.db, employerID)
	require.NoError(t, err)
	return record.ID
}

// storedFiles - список файлов в хранилище (без временных)
func (f *verificationFixture) storedFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(f.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(f.dir, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

var errSinkDown = errors.New("sink is down")
