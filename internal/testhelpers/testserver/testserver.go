package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobboard_backend/internal/app"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/storage"
	"jobboard_backend/internal/testhelpers"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const TestJWTSecret = "test-secret"

// TestServer - приложение целиком поверх in-memory БД и локального хранилища во временной папке
type TestServer struct {
	Server  *httptest.Server
	DB      *gorm.DB
	App     *app.App
	Storage storage.Storage
	Config  *config.Config
}

// New поднимает сервер; cfgFn может поменять конфиг до сборки приложения
func New(t *testing.T, cfgFn ...func(*config.Config)) *TestServer {
	t.Helper()

	cfg := config.Defaults()
	cfg.Server.Env = "test"
	cfg.Server.ClientURL = ""
	cfg.JWT.Secret = TestJWTSecret
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Storage.BaseURL = "http://files.test"
	cfg.Email.Enabled = false
	for _, fn := range cfgFn {
		fn(cfg)
	}

	db := testhelpers.NewTestDB(t)
	store, err := storage.NewStorage(context.Background(), app.StorageConfig(cfg))
	require.NoError(t, err)

	application, err := app.New(cfg, db, store)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	application.Start(gctx, g)

	server := httptest.NewServer(application.Router)
	t.Cleanup(func() {
		server.Close()
		cancel()
		_ = g.Wait()
	})

	return &TestServer{
		Server:  server,
		DB:      db,
		App:     application,
		Storage: store,
		Config:  cfg,
	}
}

// Token выпускает JWT для пользователя напрямую, без логина
func (ts *TestServer) Token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := ts.App.Tokens.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return token
}

// SendRequest отправляет JSON-запрос и возвращает ответ с телом строкой
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Ошибка кодирования JSON для запроса")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return ts.do(t, req)
}

// Upload отправляет multipart-форму с одним файлом и дополнительными полями
func (ts *TestServer) Upload(t *testing.T, path, token, field, fileName string, content []byte, fields map[string]string) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		part, err := w.CreateFormFile(field, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "Ошибка выполнения HTTP-запроса")
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(raw)
}
