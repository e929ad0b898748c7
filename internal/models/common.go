package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel - общие поля всех таблиц.
// ID генерируется на стороне приложения, чтобы схема одинаково работала
// на postgres, mysql и sqlite (тесты).
type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// AllModels - список моделей для AutoMigrate (порядок важен из-за внешних ключей)
func AllModels() []any {
	return []any{
		&User{},
		&EmployerVerification{},
		&Notification{},
	}
}
