package testhelpers

import (
	"fmt"
	"strings"
	"testing"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/database"
	"jobboard_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB создает отдельную in-memory SQLite базу на тест и накатывает схему.
// Одно соединение: in-memory база живет, пока открыт хотя бы один коннект.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	dsn := fmt.Sprintf("file:test_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "Не удалось открыть тестовую БД")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db), "AutoMigrate для тестовой БД")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateUser создает пользователя с захешированным паролем
func CreateUser(t *testing.T, db *gorm.DB, name, email, password string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error, "Создание тестового пользователя %s", email)
	return user
}

func CreateEmployer(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
	return CreateUser(t, db, name, email, "password123", models.UserRoleEmployer)
}

func CreateAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateUser(t, db, "Admin", "admin-"+uuid.NewString()[:8]+"@example.com", "password123", models.UserRoleAdmin)
}

// ReloadUser перечитывает пользователя из БД
func ReloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return &user
}
