package app

import (
	"context"
	"testing"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/storage"
	"jobboard_backend/internal/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFirstAdmin(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	cfg := config.Defaults()
	ctx := context.Background()

	// без настроек ничего не создается
	require.NoError(t, seedFirstAdmin(ctx, db, cfg))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	cfg.FirstAdminEmail = "Root@Example.com"
	cfg.FirstAdminPassword = "super-secret"
	require.NoError(t, seedFirstAdmin(ctx, db, cfg))
	require.NoError(t, seedFirstAdmin(ctx, db, cfg), "Повторный запуск не должен падать")

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.UserRoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "root@example.com", admins[0].Email)
	assert.True(t, auth.CheckPasswordHash("super-secret", admins[0].PasswordHash))
}

func TestNew_EmailSinkRequiresValidSMTP(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "secret"
	cfg.Email.Enabled = true

	_, err = New(cfg, db, store)
	assert.Error(t, err, "Пустой smtp_host")

	cfg.Email.SMTPHost = "smtp.example.com"
	cfg.Email.FromEmail = "noreply@example.com"
	application, err := New(cfg, db, store)
	require.NoError(t, err)
	assert.NotNil(t, application.Dispatcher)
	assert.NotNil(t, application.Router)
}

func TestStorageConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Type = "s3"
	cfg.Storage.Bucket = "docs"
	cfg.Storage.Endpoint = "http://localhost:9000"

	sc := StorageConfig(cfg)
	assert.Equal(t, "s3", sc.Type)
	assert.Equal(t, "docs", sc.Bucket)
	assert.Equal(t, "http://localhost:9000", sc.Endpoint)
}
